// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a lookup misses: unknown entry id, random pick
// on an empty store, or a note that was never saved.
var ErrNotFound = errors.New("not found")

// ProgressFunc reports fractional progress in [0, 1] during bulk operations.
type ProgressFunc func(fraction float64)

// Storage is the durable, transactional store behind the engine. It holds four
// logical tables: entries, cache metadata, training marks, and notes. Entries
// and metadata are cache — wiped and rebuilt on a corpus refresh. Marks and
// notes are user data and survive refreshes.
//
// Crash safety: every write is transactional. A crash mid-refresh leaves the
// ready flag unset, so the next startup re-runs the refresh instead of serving
// a partially written corpus.
type Storage interface {
	// GetRevision returns the corpus revision tag currently materialized,
	// or "" when none has been recorded.
	GetRevision() (string, error)

	// SetRevision records the corpus revision tag.
	SetRevision(tag string) error

	// Ready reports whether a previous refresh ran to completion.
	Ready() (bool, error)

	// SetReady marks the materialized corpus as complete and servable.
	SetReady() error

	// ClearReady unsets the ready flag. Called before a refresh begins so a
	// crash mid-write cannot masquerade as a finished load.
	ClearReady() error

	// BulkWrite stores entries in fixed-size batches, one transaction per
	// batch, reporting fractional progress after each. Zero entries is a
	// no-op that still reports completion.
	BulkWrite(entries []Entry, onProgress ProgressFunc) error

	// GetAll returns every stored entry in store order. Callers must not
	// depend on the ordering.
	GetAll() ([]Entry, error)

	// GetByID returns one entry, or ErrNotFound.
	GetByID(id string) (Entry, error)

	// Count returns the number of stored entries.
	Count() (int, error)

	// GetRandom returns one entry chosen uniformly at random without
	// materializing the full set. ErrNotFound on an empty store.
	GetRandom() (Entry, error)

	// SetTraining inserts or removes a training mark and returns the new
	// state. Re-marking keeps the original insertion timestamp; removing a
	// missing mark is not an error.
	SetTraining(id string, present bool) (bool, error)

	// TrainingIDs returns the set of entry ids currently marked for training.
	TrainingIDs() (map[string]bool, error)

	// MarkedEntries returns full entries for every training mark, ordered by
	// mark insertion time ascending. A mark whose entry is missing yields a
	// stub entry carrying only the id, so callers can detect and heal it.
	MarkedEntries() ([]Entry, error)

	// SaveNote creates or overwrites the note for an entry.
	SaveNote(id, text string) error

	// GetNote returns the note for an entry, or ErrNotFound.
	GetNote(id string) (NoteMark, error)

	// DeleteNote removes a note. Deleting a missing note is not an error.
	DeleteNote(id string) error

	// Notes returns all saved notes.
	Notes() ([]NoteMark, error)

	// Clear wipes entries and cache metadata only. Training marks and notes
	// are preserved.
	Clear() error

	// Close releases the underlying database handle.
	Close() error
}

// CorpusSource supplies the authoritative corpus during a refresh.
type CorpusSource interface {
	// Fetch returns the full corpus as parsed entries.
	Fetch(ctx context.Context) ([]Entry, error)
}

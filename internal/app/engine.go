// Package app wires the adapters and domain logic together and manages the
// cache lifecycle: deciding when the materialized corpus is servable, when it
// must be re-imported, and swapping search snapshots atomically.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/nadir/snabblex/internal/domain/index"
	"github.com/nadir/snabblex/internal/domain/search"
	"github.com/nadir/snabblex/internal/ports"
)

// ErrCorpusUnloaded is returned when a query arrives before Load has produced
// a servable snapshot.
var ErrCorpusUnloaded = errors.New("corpus not loaded")

// State is the cache lifecycle phase.
type State string

const (
	// StateStale: no servable snapshot; the next Load must hydrate or refresh.
	StateStale State = "stale"
	// StateHydrating: a load is in flight.
	StateHydrating State = "hydrating"
	// StateFresh: a snapshot is live and queries are served from it.
	StateFresh State = "fresh"
)

// Config holds initialization parameters for the Engine.
type Config struct {
	Store  ports.Storage
	Source ports.CorpusSource
	// Revision is the expected corpus revision. A stored revision that differs
	// invalidates the cache and forces a re-import.
	Revision string
	Fuzzy    search.FuzzyConfig
	Logger   *slog.Logger

	// OnProgress receives bulk-import progress in [0, 1]. Optional.
	OnProgress ports.ProgressFunc
	// OnStatus receives human-readable phase descriptions during Load. Optional.
	OnStatus func(text string)
}

// Engine is the application core. One Engine owns one store and serves all
// queries from an immutable snapshot that is replaced wholesale on reload.
type Engine struct {
	store    ports.Storage
	source   ports.CorpusSource
	revision string
	fuzzy    search.FuzzyConfig
	logger   *slog.Logger

	onProgress ports.ProgressFunc
	onStatus   func(string)

	group singleflight.Group

	mu     sync.RWMutex
	state  State
	engine *search.Engine
	// dirty forces the next load down the refresh path even when the store
	// passes the freshness check. Set by Invalidate, cleared on a successful
	// load.
	dirty bool
}

// New creates an Engine. It does not touch the store; call Load to hydrate.
func New(cfg Config) (*Engine, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store required")
	}
	if cfg.Source == nil {
		return nil, fmt.Errorf("corpus source required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:      cfg.Store,
		source:     cfg.Source,
		revision:   cfg.Revision,
		fuzzy:      cfg.Fuzzy,
		logger:     logger,
		onProgress: cfg.OnProgress,
		onStatus:   cfg.OnStatus,
		state:      StateStale,
	}, nil
}

// State returns the current cache lifecycle phase.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Load makes the engine servable: hydrate from the store when the cache is
// fresh, otherwise re-import from the corpus source. Concurrent callers share
// one in-flight load; all of them see its result.
//
// Freshness is a three-part check: the store holds rows AND its revision
// matches the expected one AND the ready flag is set. Any leg failing means
// the cache is unusable (empty, outdated, or a crashed half-import) and the
// full refresh path runs instead.
func (e *Engine) Load(ctx context.Context) error {
	_, err, _ := e.group.Do("load", func() (any, error) {
		return nil, e.load(ctx, false)
	})
	return err
}

// Refresh forces a re-import from the corpus source even when the cache
// passes the freshness check.
func (e *Engine) Refresh(ctx context.Context) error {
	_, err, _ := e.group.Do("load", func() (any, error) {
		return nil, e.load(ctx, true)
	})
	return err
}

// Invalidate marks the cache stale so the next Load re-imports. Wired to the
// corpus file watcher. The on-disk cache may still pass the freshness check
// after the corpus file changed, so invalidation must outlive that check.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	e.dirty = true
	if e.state == StateFresh {
		e.state = StateStale
	}
	e.mu.Unlock()
	e.logger.Info("cache invalidated, will re-import on next load")
}

func (e *Engine) load(ctx context.Context, force bool) error {
	e.mu.Lock()
	if e.dirty {
		force = true
	}
	e.state = StateHydrating
	e.mu.Unlock()

	fresh := false
	if !force {
		var err error
		fresh, err = e.isFresh()
		if err != nil {
			// Freshness probes failing means the store is unusable as cache;
			// treat as stale and re-import.
			e.logger.Warn("freshness check failed, treating cache as stale", "error", err)
		}
	}

	if !fresh {
		if err := e.refresh(ctx); err != nil {
			e.mu.Lock()
			e.state = StateStale
			e.mu.Unlock()
			return err
		}
	}

	e.status("Laddar ordboken...")
	entries, err := e.store.GetAll()
	if err != nil {
		e.mu.Lock()
		e.state = StateStale
		e.mu.Unlock()
		return fmt.Errorf("hydrate from store: %w", err)
	}

	idx := index.Build(entries)
	eng := search.New(idx, e.fuzzy)
	eng.SetTrainingIDs(e.trainingIDs())

	e.mu.Lock()
	e.engine = eng
	e.state = StateFresh
	e.dirty = false
	e.mu.Unlock()

	e.status("Klar")
	e.logger.Info("corpus loaded", "entries", idx.Len(), "refreshed", !fresh)
	return nil
}

// isFresh runs the three-part cache check: rows present, revision match,
// ready flag set.
func (e *Engine) isFresh() (bool, error) {
	count, err := e.store.Count()
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, nil
	}
	rev, err := e.store.GetRevision()
	if err != nil {
		return false, err
	}
	if rev != e.revision {
		e.logger.Info("corpus revision changed", "stored", rev, "expected", e.revision)
		return false, nil
	}
	ready, err := e.store.Ready()
	if err != nil {
		return false, err
	}
	return ready, nil
}

// refresh replaces the materialized cache from the corpus source. The ready
// flag is cleared before the first row is written and set only after the last
// one, so a crash anywhere in between leaves a cache that fails the freshness
// check and gets rebuilt on the next Load.
func (e *Engine) refresh(ctx context.Context) error {
	e.status("Hämtar ordlistan...")
	entries, err := e.source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch corpus: %w", err)
	}

	if err := e.store.Clear(); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	if err := e.store.ClearReady(); err != nil {
		return fmt.Errorf("clear ready flag: %w", err)
	}

	e.status("Importerar...")
	if err := e.store.BulkWrite(entries, e.onProgress); err != nil {
		return fmt.Errorf("import corpus: %w", err)
	}
	if err := e.store.SetRevision(e.revision); err != nil {
		return fmt.Errorf("record revision: %w", err)
	}
	if err := e.store.SetReady(); err != nil {
		return fmt.Errorf("set ready flag: %w", err)
	}
	return nil
}

// snapshot returns the live search engine, or ErrCorpusUnloaded.
func (e *Engine) snapshot() (*search.Engine, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.engine == nil {
		return nil, ErrCorpusUnloaded
	}
	return e.engine, nil
}

// Search runs one query against the current snapshot.
func (e *Engine) Search(opts search.Options) ([]ports.Entry, error) {
	eng, err := e.snapshot()
	if err != nil {
		return nil, err
	}
	return eng.Search(opts), nil
}

// Suggest returns autocomplete candidates for a partial query.
func (e *Engine) Suggest(query string, limit int) ([]ports.Entry, error) {
	eng, err := e.snapshot()
	if err != nil {
		return nil, err
	}
	return eng.Suggest(query, limit), nil
}

// Lookup returns one entry by id, together with its note text if one exists.
func (e *Engine) Lookup(id string) (ports.Entry, string, error) {
	entry, err := e.store.GetByID(id)
	if err != nil {
		return ports.Entry{}, "", err
	}
	note, err := e.store.GetNote(id)
	if errors.Is(err, ports.ErrNotFound) {
		return entry, "", nil
	}
	if err != nil {
		e.logger.Warn("note lookup failed", "id", id, "error", err)
		return entry, "", nil
	}
	return entry, note.Text, nil
}

// Random returns one uniformly random entry.
func (e *Engine) Random() (ports.Entry, error) {
	return e.store.GetRandom()
}

// wordOfTheDayAttempts bounds the retry loop; a corpus with no example-rich
// entries at all must still terminate.
const wordOfTheDayAttempts = 10

// WordOfTheDay returns a random entry, preferring ones with example sentences
// or idioms. After a bounded number of draws it settles for whatever came up
// last.
func (e *Engine) WordOfTheDay() (ports.Entry, error) {
	var last ports.Entry
	for i := 0; i < wordOfTheDayAttempts; i++ {
		entry, err := e.store.GetRandom()
		if err != nil {
			return ports.Entry{}, err
		}
		if entry.ExampleSwe != "" || entry.IdiomSwe != "" {
			return entry, nil
		}
		last = entry
	}
	return last, nil
}

// ToggleTraining flips the training mark for an entry and returns the new
// state. The live snapshot's training set is updated so a following search in
// training mode sees the change immediately.
func (e *Engine) ToggleTraining(id string) (bool, error) {
	ids := e.trainingIDs()
	marked, err := e.store.SetTraining(id, !ids[id])
	if err != nil {
		return false, err
	}
	if eng, snapErr := e.snapshot(); snapErr == nil {
		eng.SetTrainingIDs(e.trainingIDs())
	}
	return marked, nil
}

// MarkedEntries returns the training queue, oldest mark first.
func (e *Engine) MarkedEntries() ([]ports.Entry, error) {
	return e.store.MarkedEntries()
}

// SetFavoriteIDs pushes the externally owned favorites set into the live
// snapshot.
func (e *Engine) SetFavoriteIDs(ids map[string]bool) {
	if eng, err := e.snapshot(); err == nil {
		eng.SetFavoriteIDs(ids)
	}
}

// SaveNote attaches or replaces a note on an entry.
func (e *Engine) SaveNote(id, text string) error {
	return e.store.SaveNote(id, text)
}

// Note returns the note for an entry, or ErrNotFound.
func (e *Engine) Note(id string) (ports.NoteMark, error) {
	return e.store.GetNote(id)
}

// DeleteNote removes a note.
func (e *Engine) DeleteNote(id string) error {
	return e.store.DeleteNote(id)
}

// Notes returns all saved notes.
func (e *Engine) Notes() ([]ports.NoteMark, error) {
	return e.store.Notes()
}

// Stats summarizes the cache and corpus state.
type Stats struct {
	State     State
	Entries   int
	Revision  string
	Ready     bool
	Training  int
	Notes     int
	TypeCount map[string]int
}

// Stats gathers cache metadata and corpus tallies. Individual probe failures
// degrade to zero values with a warning; stats must never take the app down.
func (e *Engine) Stats() Stats {
	s := Stats{State: e.State()}

	var err error
	if s.Entries, err = e.store.Count(); err != nil {
		e.logger.Warn("count failed", "error", err)
	}
	if s.Revision, err = e.store.GetRevision(); err != nil {
		e.logger.Warn("revision read failed", "error", err)
	}
	if s.Ready, err = e.store.Ready(); err != nil {
		e.logger.Warn("ready read failed", "error", err)
	}
	if ids, err := e.store.TrainingIDs(); err != nil {
		e.logger.Warn("training ids failed", "error", err)
	} else {
		s.Training = len(ids)
	}
	if notes, err := e.store.Notes(); err != nil {
		e.logger.Warn("notes read failed", "error", err)
	} else {
		s.Notes = len(notes)
	}

	if eng, err := e.snapshot(); err == nil {
		s.TypeCount = make(map[string]int)
		for cat, n := range eng.TypeCounts() {
			s.TypeCount[string(cat)] = n
		}
	}
	return s
}

// Wipe clears the materialized cache. User marks and notes survive; the next
// Load re-imports.
func (e *Engine) Wipe() error {
	if err := e.store.Clear(); err != nil {
		return err
	}
	e.mu.Lock()
	e.engine = nil
	e.state = StateStale
	e.mu.Unlock()
	return nil
}

// Close releases the store.
func (e *Engine) Close() error {
	return e.store.Close()
}

// trainingIDs reads the training set, degrading to empty on store errors. A
// transient read failure must not block searching.
func (e *Engine) trainingIDs() map[string]bool {
	ids, err := e.store.TrainingIDs()
	if err != nil {
		e.logger.Warn("training ids unavailable", "error", err)
		return map[string]bool{}
	}
	return ids
}

func (e *Engine) status(text string) {
	if e.onStatus != nil {
		e.onStatus(text)
	}
}

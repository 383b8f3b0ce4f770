// Package bbolt implements ports.Storage using bbolt (embedded B+ tree).
//
// Four top-level buckets map to the four logical tables: "entries" holds the
// corpus keyed by entry id, "meta" holds the revision tag and ready flag,
// "training" holds practice marks, and "notes" holds personal annotations.
// A fifth bucket, "training_order", is a secondary index over the training
// table: keys are big-endian insertion timestamps, so a plain cursor walk
// yields marks in the order the user queued them.
//
// Writes are transactional — a crash mid-write cannot corrupt previously
// committed data. Entries and meta are cache and are wiped on refresh;
// training and notes are user data and survive it.
package bbolt

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/nadir/snabblex/internal/ports"
)

// Bucket and key names.
var (
	bucketEntries       = []byte("entries")
	bucketMeta          = []byte("meta")
	bucketTraining      = []byte("training")
	bucketTrainingOrder = []byte("training_order")
	bucketNotes         = []byte("notes")

	keyRevision = []byte("dataVersion")
	keyReady    = []byte("ready")
)

// DefaultBatchSize bounds one bulk-write transaction. Batching keeps peak
// transaction size flat during a multi-thousand-row import and lets callers
// see progress between batches.
const DefaultBatchSize = 1000

// Store implements ports.Storage backed by a single bbolt file.
type Store struct {
	db        *bolt.DB
	batchSize int
}

var _ ports.Storage = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithBatchSize overrides the bulk-write batch size.
func WithBatchSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// Open opens (or creates) the database at path and ensures all buckets exist.
// Safe to call on an existing database: bucket creation is idempotent and
// never touches existing data. Open failure is fatal to persistence — callers
// surface it so the application can fall back to a memory-only mode.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketEntries, bucketMeta, bucketTraining, bucketTrainingOrder, bucketNotes} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db, batchSize: DefaultBatchSize}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetRevision returns the materialized corpus revision tag, "" if unset.
func (s *Store) GetRevision() (string, error) {
	var tag string
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketMeta).Get(keyRevision); v != nil {
			tag = string(v)
		}
		return nil
	})
	return tag, err
}

// SetRevision records the corpus revision tag.
func (s *Store) SetRevision(tag string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMeta).Put(keyRevision, []byte(tag))
	})
}

// Ready reports whether the last refresh completed.
func (s *Store) Ready() (bool, error) {
	var ready bool
	err := s.db.View(func(tx *bolt.Tx) error {
		ready = tx.Bucket(bucketMeta).Get(keyReady) != nil
		return nil
	})
	return ready, err
}

// SetReady marks the materialized corpus as servable.
func (s *Store) SetReady() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMeta).Put(keyReady, []byte("1"))
	})
}

// ClearReady unsets the ready flag.
func (s *Store) ClearReady() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMeta).Delete(keyReady)
	})
}

// BulkWrite stores entries in batches, one transaction each, reporting
// fractional progress after every committed batch. Zero entries is a no-op
// that still reports completion so loading UIs can settle.
func (s *Store) BulkWrite(entries []ports.Entry, onProgress ports.ProgressFunc) error {
	if len(entries) == 0 {
		if onProgress != nil {
			onProgress(1)
		}
		return nil
	}

	total := len(entries)
	for start := 0; start < total; start += s.batchSize {
		end := start + s.batchSize
		if end > total {
			end = total
		}
		batch := entries[start:end]

		err := s.db.Update(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucketEntries)
			for _, e := range batch {
				if e.ID == "" {
					return fmt.Errorf("entry with empty id")
				}
				data, err := json.Marshal(e)
				if err != nil {
					return fmt.Errorf("marshal entry %s: %w", e.ID, err)
				}
				if err := b.Put([]byte(e.ID), data); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("bulk write batch at %d: %w", start, err)
		}

		if onProgress != nil {
			onProgress(float64(end) / float64(total))
		}
	}
	return nil
}

// GetAll returns every entry in store (key) order. Callers must not depend on
// the ordering; it is a bbolt key-sort artifact, not corpus order.
func (s *Store) GetAll() ([]ports.Entry, error) {
	var out []ports.Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketEntries).ForEach(func(_, v []byte) error {
			var e ports.Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("unmarshal entry: %w", err)
			}
			out = append(out, e)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns one entry or ports.ErrNotFound.
func (s *Store) GetByID(id string) (ports.Entry, error) {
	var e ports.Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketEntries).Get([]byte(id))
		if v == nil {
			return ports.ErrNotFound
		}
		return json.Unmarshal(v, &e)
	})
	return e, err
}

// Count returns the number of stored entries.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketEntries).Stats().KeyN
		return nil
	})
	return n, err
}

// GetRandom returns one uniformly random entry without materializing the full
// set: it picks a random offset from the row count and advances a cursor to
// it. ErrNotFound on an empty store.
func (s *Store) GetRandom() (ports.Entry, error) {
	var e ports.Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketEntries)
		n := b.Stats().KeyN
		if n == 0 {
			return ports.ErrNotFound
		}
		target := rand.Intn(n)

		c := b.Cursor()
		_, v := c.First()
		for i := 0; i < target; i++ {
			_, v = c.Next()
		}
		if v == nil {
			return ports.ErrNotFound
		}
		return json.Unmarshal(v, &e)
	})
	return e, err
}

// SetTraining upserts or deletes a training mark and returns the new state.
// The insertion timestamp is captured only on first insert: re-marking an
// already-marked id keeps its position in the practice queue. Deleting a
// missing mark is a no-op.
func (s *Store) SetTraining(id string, present bool) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("empty id")
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		marks := tx.Bucket(bucketTraining)
		order := tx.Bucket(bucketTrainingOrder)
		existing := marks.Get([]byte(id))

		if present {
			if existing != nil {
				return nil // already queued, keep original order
			}
			mark := ports.TrainingMark{ID: id, AddedAt: time.Now()}
			data, err := json.Marshal(mark)
			if err != nil {
				return err
			}
			if err := marks.Put([]byte(id), data); err != nil {
				return err
			}
			return order.Put(orderKey(mark.AddedAt, id), []byte(id))
		}

		if existing == nil {
			return nil
		}
		var mark ports.TrainingMark
		if err := json.Unmarshal(existing, &mark); err == nil {
			if err := order.Delete(orderKey(mark.AddedAt, id)); err != nil {
				return err
			}
		}
		return marks.Delete([]byte(id))
	})
	if err != nil {
		return false, err
	}
	return present, nil
}

// TrainingIDs returns the set of training-marked entry ids.
func (s *Store) TrainingIDs() (map[string]bool, error) {
	ids := make(map[string]bool)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTraining).ForEach(func(k, _ []byte) error {
			ids[string(k)] = true
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// MarkedEntries returns the hydrated entry for every training mark, walking
// the insertion-order index so results come back oldest mark first. A mark
// whose entry has gone missing (data drift after a corpus change) yields a
// stub entry carrying only the id — callers detect orphans instead of
// silently losing them.
func (s *Store) MarkedEntries() ([]ports.Entry, error) {
	var out []ports.Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		entries := tx.Bucket(bucketEntries)
		c := tx.Bucket(bucketTrainingOrder).Cursor()
		for k, id := c.First(); k != nil; k, id = c.Next() {
			v := entries.Get(id)
			if v == nil {
				out = append(out, ports.Entry{ID: string(id)})
				continue
			}
			var e ports.Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("unmarshal marked entry %s: %w", id, err)
			}
			out = append(out, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SaveNote creates or overwrites the note for an entry.
func (s *Store) SaveNote(id, text string) error {
	if id == "" {
		return fmt.Errorf("empty id")
	}
	note := ports.NoteMark{ID: id, Text: text, UpdatedAt: time.Now()}
	data, err := json.Marshal(note)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketNotes).Put([]byte(id), data)
	})
}

// GetNote returns the note for an entry, or ports.ErrNotFound.
func (s *Store) GetNote(id string) (ports.NoteMark, error) {
	var note ports.NoteMark
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketNotes).Get([]byte(id))
		if v == nil {
			return ports.ErrNotFound
		}
		return json.Unmarshal(v, &note)
	})
	return note, err
}

// DeleteNote removes a note. Missing notes are a no-op.
func (s *Store) DeleteNote(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketNotes).Delete([]byte(id))
	})
}

// Notes returns all saved notes in id order.
func (s *Store) Notes() ([]ports.NoteMark, error) {
	var out []ports.NoteMark
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketNotes).ForEach(func(_, v []byte) error {
			var n ports.NoteMark
			if err := json.Unmarshal(v, &n); err != nil {
				return err
			}
			out = append(out, n)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Clear wipes entries and cache metadata only. Training marks and notes are
// user data, not cache, and survive a corpus refresh.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketEntries, bucketMeta} {
			if err := tx.DeleteBucket(name); err != nil {
				return err
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
}

// orderKey builds a training_order index key: big-endian nanosecond timestamp
// followed by the id, so keys sort chronologically and stay unique even for
// marks created in the same nanosecond.
func orderKey(at time.Time, id string) []byte {
	key := make([]byte, 8+len(id))
	binary.BigEndian.PutUint64(key, uint64(at.UnixNano()))
	copy(key[8:], id)
	return key
}

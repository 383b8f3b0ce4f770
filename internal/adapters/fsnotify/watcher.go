// Package fsnotify watches the corpus file using github.com/fsnotify/fsnotify.
// When the file changes on disk the watcher invalidates the materialized cache
// so the next load re-imports, the same way a revision bump does. Events are
// debounced because editors often trigger multiple writes per save.
package fsnotify

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher monitors a single corpus file for changes.
type Watcher struct {
	fw       *fsnotify.Watcher
	debounce time.Duration
	done     chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// NewWatcher creates a corpus file watcher. A non-positive debounce falls back
// to the default.
func NewWatcher(debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Watcher{
		fw:       fw,
		debounce: debounce,
		done:     make(chan struct{}),
	}, nil
}

// Watch starts monitoring corpusPath. onChange fires after the file is
// written, created, renamed or removed, at most once per debounce window.
//
// The parent directory is watched rather than the file itself: editors and
// sync tools save via rename, which silently drops a direct file watch.
func (w *Watcher) Watch(corpusPath string, onChange func()) error {
	absPath, err := filepath.Abs(corpusPath)
	if err != nil {
		return err
	}
	if err := w.fw.Add(filepath.Dir(absPath)); err != nil {
		return err
	}

	var (
		dmu  sync.Mutex
		last time.Time
	)

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != absPath {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}

				dmu.Lock()
				now := time.Now()
				if now.Sub(last) < w.debounce {
					dmu.Unlock()
					continue
				}
				last = now
				dmu.Unlock()

				onChange()

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// Errors are swallowed, fsnotify recovers automatically.

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// Stop ends monitoring and releases all resources. Safe to call multiple
// times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}

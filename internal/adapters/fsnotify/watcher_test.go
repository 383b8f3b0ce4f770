package fsnotify

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitForCallback waits up to timeout for the callback channel to fire.
func waitForCallback(ch <-chan struct{}, timeout time.Duration) bool {
	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return false
	}
}

func TestWatcher_DetectsCorpusChange(t *testing.T) {
	dir := t.TempDir()
	corpus := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(corpus, []byte("[]"), 0o644))

	w, err := NewWatcher(50 * time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan struct{}, 10)
	require.NoError(t, w.Watch(corpus, func() {
		changed <- struct{}{}
	}))

	// Give the watcher time to start.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(corpus, []byte(`[["1","noun","hund","كلب"]]`), 0o644))

	assert.True(t, waitForCallback(changed, 2*time.Second), "expected callback for corpus change")
}

func TestWatcher_DetectsAtomicRenameSave(t *testing.T) {
	// Editors save via temp file + rename; the watcher must still see it.
	dir := t.TempDir()
	corpus := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(corpus, []byte("[]"), 0o644))

	w, err := NewWatcher(50 * time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan struct{}, 10)
	require.NoError(t, w.Watch(corpus, func() {
		changed <- struct{}{}
	}))

	time.Sleep(50 * time.Millisecond)

	tmp := filepath.Join(dir, "data.json.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(`[["1","noun","hund","كلب"]]`), 0o644))
	require.NoError(t, os.Rename(tmp, corpus))

	assert.True(t, waitForCallback(changed, 2*time.Second), "expected callback for rename save")
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	corpus := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(corpus, []byte("[]"), 0o644))

	w, err := NewWatcher(50 * time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan struct{}, 10)
	require.NoError(t, w.Watch(corpus, func() {
		changed <- struct{}{}
	}))

	time.Sleep(50 * time.Millisecond)

	os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644)
	os.WriteFile(filepath.Join(dir, ".data.json.swp"), []byte("x"), 0o644)

	assert.False(t, waitForCallback(changed, 500*time.Millisecond),
		"should not have received callback for sibling files")
}

func TestWatcher_DebouncesRapidWrites(t *testing.T) {
	dir := t.TempDir()
	corpus := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(corpus, []byte("[]"), 0o644))

	w, err := NewWatcher(300 * time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	var (
		mu    sync.Mutex
		count int
	)
	require.NoError(t, w.Watch(corpus, func() {
		mu.Lock()
		count++
		mu.Unlock()
	}))

	time.Sleep(50 * time.Millisecond)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(corpus, []byte("[]"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(500 * time.Millisecond)

	mu.Lock()
	got := count
	mu.Unlock()
	assert.Equal(t, 1, got, "rapid writes should collapse into one callback")
}

func TestWatcher_StopCleanup(t *testing.T) {
	dir := t.TempDir()
	corpus := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(corpus, []byte("[]"), 0o644))

	w, err := NewWatcher(50 * time.Millisecond)
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		count int
	)
	require.NoError(t, w.Watch(corpus, func() {
		mu.Lock()
		count++
		mu.Unlock()
	}))

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, w.Stop())

	mu.Lock()
	countAfterStop := count
	mu.Unlock()

	os.WriteFile(corpus, []byte(`[["1","noun","hund","كلب"]]`), 0o644)
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	countAfterWrite := count
	mu.Unlock()
	assert.Equal(t, countAfterStop, countAfterWrite, "callbacks fired after Stop()")

	// Double-stop is safe.
	assert.NoError(t, w.Stop())
}

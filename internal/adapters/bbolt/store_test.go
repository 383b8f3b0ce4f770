package bbolt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadir/snabblex/internal/ports"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testEntries() []ports.Entry {
	return []ports.Entry{
		{ID: "1", Type: "noun", Swedish: "hund", Arabic: "كلب"},
		{ID: "2", Type: "noun", Swedish: "katt", Arabic: "قطة"},
		{ID: "3", Type: "verb", Swedish: "springa", Arabic: "يركض"},
	}
}

func TestOpenIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.BulkWrite(testEntries(), nil))
	require.NoError(t, s.SetRevision("v1"))
	require.NoError(t, s.Close())

	// Reopening must not disturb existing data.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rev, err := s.GetRevision()
	require.NoError(t, err)
	assert.Equal(t, "v1", rev)
}

func TestRevisionAndReady(t *testing.T) {
	s := newTestStore(t)

	rev, err := s.GetRevision()
	require.NoError(t, err)
	assert.Empty(t, rev)

	ready, err := s.Ready()
	require.NoError(t, err)
	assert.False(t, ready)

	require.NoError(t, s.SetRevision("2024-06-01"))
	require.NoError(t, s.SetReady())

	rev, err = s.GetRevision()
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", rev)

	ready, err = s.Ready()
	require.NoError(t, err)
	assert.True(t, ready)

	require.NoError(t, s.ClearReady())
	ready, err = s.Ready()
	require.NoError(t, err)
	assert.False(t, ready)
}

func TestBulkWriteReportsProgress(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), WithBatchSize(2))
	require.NoError(t, err)
	defer s.Close()

	var fractions []float64
	err = s.BulkWrite(testEntries(), func(f float64) {
		fractions = append(fractions, f)
	})
	require.NoError(t, err)

	// Two batches of size 2 over three entries.
	require.Len(t, fractions, 2)
	assert.InDelta(t, 2.0/3.0, fractions[0], 1e-9)
	assert.Equal(t, 1.0, fractions[1])

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestBulkWriteEmptyIsNoOp(t *testing.T) {
	s := newTestStore(t)

	var fractions []float64
	err := s.BulkWrite(nil, func(f float64) {
		fractions = append(fractions, f)
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, fractions)

	n, err := s.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBulkWriteRejectsEmptyID(t *testing.T) {
	s := newTestStore(t)
	err := s.BulkWrite([]ports.Entry{{ID: "", Swedish: "hund"}}, nil)
	assert.Error(t, err)
}

func TestGetByID(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.BulkWrite(testEntries(), nil))

	e, err := s.GetByID("2")
	require.NoError(t, err)
	assert.Equal(t, "katt", e.Swedish)
	assert.Equal(t, "قطة", e.Arabic)

	_, err = s.GetByID("missing")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestGetAll(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.BulkWrite(testEntries(), nil))

	all, err := s.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 3)

	ids := make(map[string]bool)
	for _, e := range all {
		ids[e.ID] = true
	}
	assert.Equal(t, map[string]bool{"1": true, "2": true, "3": true}, ids)
}

func TestGetRandom(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetRandom()
	assert.ErrorIs(t, err, ports.ErrNotFound)

	require.NoError(t, s.BulkWrite(testEntries(), nil))

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		e, err := s.GetRandom()
		require.NoError(t, err)
		seen[e.ID] = true
	}
	// 100 draws over 3 entries miss one with probability under 1e-17.
	assert.Len(t, seen, 3)
}

func TestSetTrainingKeepsInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.BulkWrite(testEntries(), nil))

	for _, id := range []string{"3", "1", "2"} {
		on, err := s.SetTraining(id, true)
		require.NoError(t, err)
		assert.True(t, on)
	}

	marked, err := s.MarkedEntries()
	require.NoError(t, err)
	require.Len(t, marked, 3)
	assert.Equal(t, "3", marked[0].ID)
	assert.Equal(t, "1", marked[1].ID)
	assert.Equal(t, "2", marked[2].ID)

	// Re-marking must not move the entry to the back of the queue.
	_, err = s.SetTraining("3", true)
	require.NoError(t, err)
	marked, err = s.MarkedEntries()
	require.NoError(t, err)
	assert.Equal(t, "3", marked[0].ID)
}

func TestSetTrainingUnmark(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.BulkWrite(testEntries(), nil))

	_, err := s.SetTraining("1", true)
	require.NoError(t, err)

	on, err := s.SetTraining("1", false)
	require.NoError(t, err)
	assert.False(t, on)

	ids, err := s.TrainingIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)

	// Unmarking an id that was never marked is not an error.
	_, err = s.SetTraining("never-marked", false)
	assert.NoError(t, err)
}

func TestMarkedEntriesOrphanStub(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.BulkWrite(testEntries(), nil))

	_, err := s.SetTraining("1", true)
	require.NoError(t, err)
	_, err = s.SetTraining("ghost", true)
	require.NoError(t, err)

	marked, err := s.MarkedEntries()
	require.NoError(t, err)
	require.Len(t, marked, 2)
	assert.False(t, marked[0].Stub())
	assert.True(t, marked[1].Stub())
	assert.Equal(t, "ghost", marked[1].ID)
}

func TestNotes(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetNote("1")
	assert.ErrorIs(t, err, ports.ErrNotFound)

	require.NoError(t, s.SaveNote("1", "false friend with hind"))
	note, err := s.GetNote("1")
	require.NoError(t, err)
	assert.Equal(t, "false friend with hind", note.Text)
	assert.False(t, note.UpdatedAt.IsZero())

	// Overwrite.
	require.NoError(t, s.SaveNote("1", "revised"))
	note, err = s.GetNote("1")
	require.NoError(t, err)
	assert.Equal(t, "revised", note.Text)

	require.NoError(t, s.SaveNote("2", "irregular plural"))
	notes, err := s.Notes()
	require.NoError(t, err)
	assert.Len(t, notes, 2)

	require.NoError(t, s.DeleteNote("1"))
	_, err = s.GetNote("1")
	assert.ErrorIs(t, err, ports.ErrNotFound)

	// Deleting a missing note is not an error.
	assert.NoError(t, s.DeleteNote("missing"))
}

func TestClearPreservesUserData(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.BulkWrite(testEntries(), nil))
	require.NoError(t, s.SetRevision("v1"))
	require.NoError(t, s.SetReady())
	_, err := s.SetTraining("1", true)
	require.NoError(t, err)
	require.NoError(t, s.SaveNote("1", "keep me"))

	require.NoError(t, s.Clear())

	n, err := s.Count()
	require.NoError(t, err)
	assert.Zero(t, n)

	rev, err := s.GetRevision()
	require.NoError(t, err)
	assert.Empty(t, rev)

	ready, err := s.Ready()
	require.NoError(t, err)
	assert.False(t, ready)

	ids, err := s.TrainingIDs()
	require.NoError(t, err)
	assert.True(t, ids["1"])

	note, err := s.GetNote("1")
	require.NoError(t, err)
	assert.Equal(t, "keep me", note.Text)
}

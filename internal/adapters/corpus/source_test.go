package corpus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Positional rows as the word editor emits them: heterogeneous cells, numeric
// ids, short rows.
const sampleCorpus = `[
	[1, "noun", "hund", "كلب", "", "tamdjur", "en hund, hunden, hundar"],
	["2", "noun", "katt", "قِطَّة"],
	["", "noun", "trasig rad", "x"],
	[3, "verb", "springa", "يركض"]
]`

func writeCorpusFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileSourceFetch(t *testing.T) {
	src := NewFileSource(writeCorpusFile(t, sampleCorpus), nil)

	entries, err := src.Fetch(context.Background())
	require.NoError(t, err)

	// The id-less row is skipped, not fatal.
	require.Len(t, entries, 3)
	assert.Equal(t, "1", entries[0].ID)
	assert.Equal(t, "hund", entries[0].Swedish)
	assert.Equal(t, "tamdjur", entries[0].Definition)
	assert.Equal(t, "2", entries[1].ID)
	assert.Equal(t, "قِطَّة", entries[1].Arabic)
	assert.Equal(t, "springa", entries[2].Swedish)
}

func TestFileSourceMissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "absent.json"), nil)
	_, err := src.Fetch(context.Background())
	assert.Error(t, err)
}

func TestFileSourceMalformedJSON(t *testing.T) {
	src := NewFileSource(writeCorpusFile(t, `{"not": "rows"}`), nil)
	_, err := src.Fetch(context.Background())
	assert.Error(t, err)
}

func TestHTTPSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(sampleCorpus))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, srv.Client(), nil)
	entries, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestHTTPSourceBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, srv.Client(), nil)
	_, err := src.Fetch(context.Background())
	assert.Error(t, err)
}

func TestChainFallsBack(t *testing.T) {
	missing := NewFileSource(filepath.Join(t.TempDir(), "absent.json"), nil)
	good := NewFileSource(writeCorpusFile(t, sampleCorpus), nil)

	chain := NewChain(nil, missing, good)
	entries, err := chain.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestChainAllFail(t *testing.T) {
	missing := NewFileSource(filepath.Join(t.TempDir(), "absent.json"), nil)
	chain := NewChain(nil, missing)
	_, err := chain.Fetch(context.Background())
	assert.Error(t, err)
}

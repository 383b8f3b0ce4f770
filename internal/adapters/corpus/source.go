// Package corpus supplies the authoritative dictionary data during a refresh.
//
// The corpus ships as one JSON document: an array of positional rows. The
// primary source is a preloaded local file (bundled with the install); the
// HTTP source covers deployments that publish the corpus at a URL instead.
// Chain tries sources in order so the local file wins when present.
package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/nadir/snabblex/internal/ports"
)

// decode parses the positional-row document and converts every row to an
// Entry. Malformed rows are skipped with a warning rather than failing the
// whole load; one bad row in a hand-edited corpus must not brick the app.
func decode(r io.Reader, logger *slog.Logger) ([]ports.Entry, error) {
	var rows []ports.Row
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}

	entries := make([]ports.Entry, 0, len(rows))
	for i, row := range rows {
		e, err := ports.EntryFromRow(row)
		if err != nil {
			logger.Warn("skipping malformed corpus row", "row", i, "error", err)
			continue
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 && len(rows) > 0 {
		return nil, errors.New("corpus contained no valid rows")
	}
	return entries, nil
}

// FileSource reads the corpus from a preloaded local file.
type FileSource struct {
	Path   string
	Logger *slog.Logger
}

var _ ports.CorpusSource = (*FileSource)(nil)

// NewFileSource creates a file-backed corpus source. A nil logger means
// slog.Default().
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{Path: path, Logger: logger}
}

// Fetch reads and parses the corpus file.
func (s *FileSource) Fetch(ctx context.Context) ([]ports.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open corpus file: %w", err)
	}
	defer f.Close()

	entries, err := decode(f, s.Logger)
	if err != nil {
		return nil, fmt.Errorf("corpus file %s: %w", s.Path, err)
	}
	s.Logger.Debug("corpus loaded from file", "path", s.Path, "entries", len(entries))
	return entries, nil
}

// HTTPSource fetches the corpus from a published URL.
type HTTPSource struct {
	URL    string
	Client *http.Client
	Logger *slog.Logger
}

var _ ports.CorpusSource = (*HTTPSource)(nil)

// NewHTTPSource creates an HTTP-backed corpus source. A nil client gets a
// 30 second timeout; a nil logger means slog.Default().
func NewHTTPSource(url string, client *http.Client, logger *slog.Logger) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPSource{URL: url, Client: client, Logger: logger}
}

// Fetch downloads and parses the corpus document.
func (s *HTTPSource) Fetch(ctx context.Context) ([]ports.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build corpus request: %w", err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch corpus: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch corpus: unexpected status %s", resp.Status)
	}

	entries, err := decode(resp.Body, s.Logger)
	if err != nil {
		return nil, fmt.Errorf("corpus url %s: %w", s.URL, err)
	}
	s.Logger.Debug("corpus loaded over http", "url", s.URL, "entries", len(entries))
	return entries, nil
}

// Chain tries each source in order and returns the first successful fetch.
type Chain struct {
	Sources []ports.CorpusSource
	Logger  *slog.Logger
}

var _ ports.CorpusSource = (*Chain)(nil)

// NewChain builds a fallback chain over the given sources.
func NewChain(logger *slog.Logger, sources ...ports.CorpusSource) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{Sources: sources, Logger: logger}
}

// Fetch returns entries from the first source that succeeds. All failures are
// joined into one error when every source fails.
func (c *Chain) Fetch(ctx context.Context) ([]ports.Entry, error) {
	if len(c.Sources) == 0 {
		return nil, errors.New("no corpus sources configured")
	}
	var errs []error
	for _, src := range c.Sources {
		entries, err := src.Fetch(ctx)
		if err == nil {
			return entries, nil
		}
		c.Logger.Warn("corpus source failed, trying next", "error", err)
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("all corpus sources failed: %w", errors.Join(errs...))
}

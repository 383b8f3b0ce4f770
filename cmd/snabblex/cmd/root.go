package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	storeadapter "github.com/nadir/snabblex/internal/adapters/bbolt"
	"github.com/nadir/snabblex/internal/adapters/corpus"
	"github.com/nadir/snabblex/internal/app"
	"github.com/nadir/snabblex/internal/config"
	"github.com/nadir/snabblex/internal/domain/search"
	"github.com/nadir/snabblex/internal/ports"
)

var rootCmd = &cobra.Command{
	Use:   "snabblex",
	Short: "snabblex — Swedish–Arabic dictionary",
	Long:  "Offline bilingual dictionary: fuzzy search, training marks, and personal notes over a locally cached corpus.",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(randomCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(wipeCmd)
}

// newEngine loads configuration and wires the store, corpus sources and
// application engine. The caller owns Close.
func newEngine() (*app.Engine, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	store, err := storeadapter.Open(cfg.Store.Path,
		storeadapter.WithBatchSize(cfg.Store.BatchSize))
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	var sources []ports.CorpusSource
	if cfg.Corpus.Path != "" {
		sources = append(sources, corpus.NewFileSource(cfg.Corpus.Path, logger))
	}
	if cfg.Corpus.URL != "" {
		sources = append(sources, corpus.NewHTTPSource(cfg.Corpus.URL, nil, logger))
	}

	eng, err := app.New(app.Config{
		Store:    store,
		Source:   corpus.NewChain(logger, sources...),
		Revision: cfg.Corpus.Revision,
		Fuzzy: search.FuzzyConfig{
			MinResults:      cfg.Fuzzy.MinResults,
			MinQueryLen:     cfg.Fuzzy.MinQueryLen,
			MaxDistance:     cfg.Fuzzy.MaxDistance,
			MaxDistanceLong: cfg.Fuzzy.MaxDistanceLong,
			LongQueryLen:    cfg.Fuzzy.LongQueryLen,
		},
		Logger: logger,
	})
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return eng, cfg, nil
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	watch "github.com/nadir/snabblex/internal/adapters/fsnotify"
)

var refreshWatch bool

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-import the corpus",
	Long: `Force a re-import from the corpus source even when the cache looks
current. With --watch, stay running and re-import whenever the corpus file
changes on disk.`,
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().BoolVarP(&refreshWatch, "watch", "w", false, "keep running and re-import on corpus file changes")
}

func runRefresh(cmd *cobra.Command, args []string) error {
	eng, cfg, err := newEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := eng.Refresh(cmd.Context()); err != nil {
		return err
	}
	s := eng.Stats()
	fmt.Printf("importerade %d ord (revision %s)\n", s.Entries, s.Revision)

	if !refreshWatch {
		return nil
	}
	if cfg.Corpus.Path == "" {
		return fmt.Errorf("--watch requires a local corpus file")
	}

	w, err := watch.NewWatcher(cfg.Watch.Debounce)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Stop()

	ctx := cmd.Context()
	err = w.Watch(cfg.Corpus.Path, func() {
		eng.Invalidate()
		if err := eng.Refresh(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "re-import failed: %v\n", err)
			return
		}
		s := eng.Stats()
		fmt.Printf("ordlistan ändrad, importerade om %d ord\n", s.Entries)
	})
	if err != nil {
		return err
	}

	fmt.Printf("bevakar %s (avsluta med ctrl-c)\n", cfg.Corpus.Path)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	return nil
}

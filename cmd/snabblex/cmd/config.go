package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nadir/snabblex/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long:  "Shows the merged result of defaults, the YAML file and SNABBLEX_ environment variables.",
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("store.path:              %s\n", cfg.Store.Path)
	fmt.Printf("store.batch_size:        %d\n", cfg.Store.BatchSize)
	fmt.Printf("corpus.path:             %s\n", cfg.Corpus.Path)
	fmt.Printf("corpus.url:              %s\n", cfg.Corpus.URL)
	fmt.Printf("corpus.revision:         %s\n", cfg.Corpus.Revision)
	fmt.Printf("fuzzy.min_results:       %d\n", cfg.Fuzzy.MinResults)
	fmt.Printf("fuzzy.min_query_len:     %d\n", cfg.Fuzzy.MinQueryLen)
	fmt.Printf("fuzzy.max_distance:      %d\n", cfg.Fuzzy.MaxDistance)
	fmt.Printf("fuzzy.max_distance_long: %d\n", cfg.Fuzzy.MaxDistanceLong)
	fmt.Printf("fuzzy.long_query_len:    %d\n", cfg.Fuzzy.LongQueryLen)
	fmt.Printf("watch.enabled:           %t\n", cfg.Watch.Enabled)
	fmt.Printf("watch.debounce:          %s\n", cfg.Watch.Debounce)
	fmt.Printf("log.level:               %s\n", cfg.Log.Level)
	fmt.Printf("log.format:              %s\n", cfg.Log.Format)
	return nil
}

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nadir/snabblex/internal/ports"
)

var randomRich bool

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Show a random entry",
	Long:  "Draw one random word. With --rich, prefer entries carrying example sentences or idioms (word-of-the-day style).",
	RunE:  runRandom,
}

func init() {
	randomCmd.Flags().BoolVar(&randomRich, "rich", false, "prefer entries with examples or idioms")
}

func runRandom(cmd *cobra.Command, args []string) error {
	eng, _, err := newEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := eng.Load(cmd.Context()); err != nil {
		return err
	}

	var entry ports.Entry
	if randomRich {
		entry, err = eng.WordOfTheDay()
	} else {
		entry, err = eng.Random()
	}
	if errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("the dictionary is empty, run: snabblex refresh")
	}
	if err != nil {
		return err
	}

	fmt.Print(formatEntryFull(entry))
	return nil
}

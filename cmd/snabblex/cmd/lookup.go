package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nadir/snabblex/internal/ports"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <id>",
	Short: "Show one entry in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

func runLookup(cmd *cobra.Command, args []string) error {
	eng, _, err := newEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := eng.Load(cmd.Context()); err != nil {
		return err
	}

	entry, note, err := eng.Lookup(args[0])
	if errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("no entry with id %s", args[0])
	}
	if err != nil {
		return err
	}

	fmt.Print(formatEntryFull(entry))
	if note != "" {
		fmt.Printf("  %-12s %s\n", "anteckning:", note)
	}
	return nil
}

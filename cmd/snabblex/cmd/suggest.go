package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var suggestLimit int

var suggestCmd = &cobra.Command{
	Use:   "suggest <prefix>",
	Short: "Autocomplete a partial word",
	Long:  "Top candidates for a partial query: Swedish prefix matches first, then Arabic, then near-miss spellings.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSuggest,
}

func init() {
	suggestCmd.Flags().IntVarP(&suggestLimit, "limit", "n", 8, "maximum suggestions")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	eng, _, err := newEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := eng.Load(cmd.Context()); err != nil {
		return err
	}

	suggestions, err := eng.Suggest(args[0], suggestLimit)
	if err != nil {
		return err
	}
	for _, e := range suggestions {
		fmt.Printf("%-24s %s\n", e.Swedish, e.Arabic)
	}
	return nil
}

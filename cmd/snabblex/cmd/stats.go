package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus and cache statistics",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	eng, _, err := newEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := eng.Load(cmd.Context()); err != nil {
		return err
	}

	s := eng.Stats()
	fmt.Printf("tillstånd:   %s\n", s.State)
	fmt.Printf("ord:         %d\n", s.Entries)
	fmt.Printf("revision:    %s\n", s.Revision)
	fmt.Printf("klar:        %t\n", s.Ready)
	fmt.Printf("träning:     %d\n", s.Training)
	fmt.Printf("anteckningar: %d\n", s.Notes)

	if len(s.TypeCount) > 0 {
		fmt.Println("ordklasser:")
		cats := make([]string, 0, len(s.TypeCount))
		for cat := range s.TypeCount {
			cats = append(cats, cat)
		}
		sort.Strings(cats)
		for _, cat := range cats {
			fmt.Printf("  %-14s %d\n", cat, s.TypeCount[cat])
		}
	}
	return nil
}

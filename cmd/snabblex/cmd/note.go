package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nadir/snabblex/internal/ports"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage personal notes on entries",
}

var noteSetCmd = &cobra.Command{
	Use:   "set <id> <text...>",
	Short: "Attach or replace a note",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runNoteSet,
}

var noteShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the note for an entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteShow,
}

var noteRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete the note for an entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteRm,
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes",
	RunE:  runNoteList,
}

func init() {
	noteCmd.AddCommand(noteSetCmd)
	noteCmd.AddCommand(noteShowCmd)
	noteCmd.AddCommand(noteRmCmd)
	noteCmd.AddCommand(noteListCmd)
}

func runNoteSet(cmd *cobra.Command, args []string) error {
	eng, _, err := newEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	return eng.SaveNote(args[0], strings.Join(args[1:], " "))
}

func runNoteShow(cmd *cobra.Command, args []string) error {
	eng, _, err := newEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	note, err := eng.Note(args[0])
	if errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("no note on entry %s", args[0])
	}
	if err != nil {
		return err
	}
	fmt.Printf("%s  (%s)\n%s\n", note.ID, note.UpdatedAt.Format("2006-01-02"), note.Text)
	return nil
}

func runNoteRm(cmd *cobra.Command, args []string) error {
	eng, _, err := newEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	return eng.DeleteNote(args[0])
}

func runNoteList(cmd *cobra.Command, args []string) error {
	eng, _, err := newEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	notes, err := eng.Notes()
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		fmt.Println("inga anteckningar")
		return nil
	}
	for _, n := range notes {
		fmt.Printf("%-6s %-12s %s\n", n.ID, n.UpdatedAt.Format("2006-01-02"), n.Text)
	}
	return nil
}

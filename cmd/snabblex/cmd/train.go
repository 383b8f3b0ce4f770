package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var trainCmd = &cobra.Command{
	Use:   "train [id]",
	Short: "Toggle an entry's training mark, or list the queue",
	Long: `With an id, flip the training mark for that entry. Without arguments,
print the practice queue in the order words were added.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTrain,
}

func runTrain(cmd *cobra.Command, args []string) error {
	eng, _, err := newEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := eng.Load(cmd.Context()); err != nil {
		return err
	}

	if len(args) == 0 {
		marked, err := eng.MarkedEntries()
		if err != nil {
			return err
		}
		if len(marked) == 0 {
			fmt.Println("träningskön är tom")
			return nil
		}
		for _, e := range marked {
			if e.Stub() {
				fmt.Printf("%-6s (saknas i ordlistan)\n", e.ID)
				continue
			}
			fmt.Println(formatEntryLine(e))
		}
		return nil
	}

	marked, err := eng.ToggleTraining(args[0])
	if err != nil {
		return err
	}
	if marked {
		fmt.Printf("%s tillagd i träningskön\n", args[0])
	} else {
		fmt.Printf("%s borttagen ur träningskön\n", args[0])
	}
	return nil
}

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/deadliner/internal/output"
	"github.com/twiced-technology-gmbh/deadliner/internal/task"
)

var doneCmd = &cobra.Command{
	Use:     "done ID[,ID,...]",
	Aliases: []string{"toggle"},
	Short:   "Toggle a task's completion",
	Long: `Flips the completed flag of a task: pending tasks become completed and
completed tasks become pending again. Multiple IDs can be provided as a
comma-separated list.`,
	Args: cobra.ExactArgs(1),
	RunE: runDone,
}

func init() {
	rootCmd.AddCommand(doneCmd)
}

func runDone(_ *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	tr, err := openTracker()
	if err != nil {
		return err
	}
	defer tr.Close()

	if len(ids) > 1 {
		return runBatch(ids, func(id int64) error {
			_, err := toggle(tr, id)
			return err
		})
	}

	t, err := toggle(tr, ids[0])
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}

	state := "pending"
	if t.Completed {
		state = "completed"
	}
	output.Messagef(os.Stdout, "Marked task #%d %s: %s", t.ID, state, t.Title)
	return nil
}

func toggle(tr *tracker, id int64) (task.Task, error) {
	t, found, err := tr.lc.ToggleCompletion(id)
	if err != nil {
		return task.Task{}, err
	}
	if !found {
		return task.Task{}, task.NotFound(id)
	}
	return t, nil
}

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/deadliner/internal/clierr"
	"github.com/twiced-technology-gmbh/deadliner/internal/output"
	"github.com/twiced-technology-gmbh/deadliner/internal/task"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID[,ID,...]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Removes a task from the list. Prompts for confirmation in interactive mode.
Multiple IDs can be provided as a comma-separated list (requires --yes).`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")
	if len(ids) > 1 && !yes {
		return clierr.New(clierr.ConfirmationReq, "batch delete requires --yes")
	}

	tr, err := openTracker()
	if err != nil {
		return err
	}
	defer tr.Close()

	if len(ids) > 1 {
		return runBatch(ids, func(id int64) error {
			_, err := executeDelete(tr, id)
			return err
		})
	}
	return deleteSingleTask(tr, ids[0], yes)
}

// deleteSingleTask handles a single task delete with confirmation and output.
func deleteSingleTask(tr *tracker, id int64, yes bool) error {
	if !yes {
		t, found, err := tr.store.FindByID(id)
		if err != nil {
			return err
		}
		if !found {
			return task.NotFound(id)
		}
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return clierr.New(clierr.ConfirmationReq,
				"cannot prompt for confirmation (not a terminal); use --yes")
		}
		fmt.Fprintf(os.Stderr, "Delete task #%d %q? [y/N] ", t.ID, t.Title)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}

	t, err := executeDelete(tr, id)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status": "deleted",
			"id":     t.ID,
			"title":  t.Title,
		})
	}

	output.Messagef(os.Stdout, "Deleted task #%d: %s", t.ID, t.Title)
	return nil
}

func executeDelete(tr *tracker, id int64) (task.Task, error) {
	t, found, err := tr.lc.Delete(id)
	if err != nil {
		return task.Task{}, err
	}
	if !found {
		return task.Task{}, task.NotFound(id)
	}
	return t, nil
}

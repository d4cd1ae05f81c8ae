package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/deadliner/internal/clierr"
	"github.com/twiced-technology-gmbh/deadliner/internal/output"
	"github.com/twiced-technology-gmbh/deadliner/internal/task"
)

var editCmd = &cobra.Command{
	Use:   "edit ID[,ID,...]",
	Short: "Edit a task",
	Long: `Modifies fields of an existing task. Only specified fields are changed.
The whole edit is rejected when the new title is empty or the deadline
cannot be parsed. Multiple IDs can be provided as a comma-separated list.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("title", "", "new title")
	editCmd.Flags().String("description", "", "new description (replaces the old one)")
	editCmd.Flags().String("deadline", "", "new deadline")
	editCmd.Flags().SetNormalizeFunc(normalizeTaskFlags)
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	req, err := editRequest(cmd)
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
			_, err := executeEdit(tr, id, req)
			return err
		})
	}

	t, err := executeEdit(tr, ids[0], req)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		row, err := tr.row(t.ID)
		if err != nil {
			return err
		}
		return output.JSON(os.Stdout, row)
	}

	output.Messagef(os.Stdout, "Updated task #%d: %s", t.ID, t.Title)
	return nil
}

// editRequest collects the flags that were given on the command line.
func editRequest(cmd *cobra.Command) (task.EditRequest, error) {
	var req task.EditRequest
	changed := false
	for name, dst := range map[string]**string{
		"title":       &req.Title,
		"description": &req.Description,
		"deadline":    &req.Deadline,
	} {
		if !cmd.Flags().Changed(name) {
			continue
		}
		v, _ := cmd.Flags().GetString(name)
		*dst = &v
		changed = true
	}

	if !changed {
		return req, clierr.New(clierr.NoChanges, "no changes specified")
	}
	return req, nil
}

func executeEdit(tr *tracker, id int64, req task.EditRequest) (task.Task, error) {
	t, found, err := tr.lc.Edit(id, req)
	if err != nil {
		return task.Task{}, err
	}
	if !found {
		return task.Task{}, task.NotFound(id)
	}
	return t, nil
}

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/deadliner/internal/board"
	"github.com/twiced-technology-gmbh/deadliner/internal/clierr"
	"github.com/twiced-technology-gmbh/deadliner/internal/output"
	"github.com/twiced-technology-gmbh/deadliner/internal/task"
)

var moveCmd = &cobra.Command{
	Use:   "move ID",
	Short: "Move a task up or down the list",
	Long: `Shifts a task within the stored order. Use --up or --down for one step,
or --by N for N steps (negative moves up). Moves stop at either end.`,
	Args: cobra.ExactArgs(1),
	RunE: runMove,
}

var reorderCmd = &cobra.Command{
	Use:   "reorder ID,ID,...",
	Short: "Replace the stored order",
	Long: `Rearranges the list to follow the given IDs. Tasks whose IDs are left
out are removed from the list; unknown or repeated IDs are ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: runReorder,
}

func init() {
	moveCmd.Flags().Bool("up", false, "move one position up")
	moveCmd.Flags().Bool("down", false, "move one position down")
	moveCmd.Flags().Int("by", 0, "move by N positions (negative moves up)")
	moveCmd.MarkFlagsMutuallyExclusive("up", "down", "by")
	reorderCmd.Flags().BoolP("yes", "y", false, "allow dropping tasks left out of the new order")
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(reorderCmd)
}

// moveResult wraps a task with a changed flag for JSON output.
type moveResult struct {
	task.Task
	Position int  `json:"position"`
	Changed  bool `json:"changed"`
}

func runMove(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	offset, err := moveOffset(cmd)
	if err != nil {
		return err
	}

	tr, err := openTracker()
	if err != nil {
		return err
	}
	defer tr.Close()

	before, err := tr.store.Load()
	if err != nil {
		return err
	}
	from := task.IndexOf(before, id)

	found, err := tr.lc.Move(id, offset)
	if err != nil {
		return err
	}
	if !found {
		return task.NotFound(id)
	}

	after, err := tr.store.Load()
	if err != nil {
		return err
	}
	to := task.IndexOf(after, id)
	t, _ := task.FindByID(after, id)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, moveResult{Task: t, Position: to + 1, Changed: from != to})
	}
	if from == to {
		output.Messagef(os.Stdout, "Task #%d stays at position %d", id, to+1)
		return nil
	}
	output.Messagef(os.Stdout, "Moved task #%d: position %d -> %d", id, from+1, to+1)
	return nil
}

// moveOffset resolves --up, --down and --by into a signed offset.
func moveOffset(cmd *cobra.Command) (int, error) {
	up, _ := cmd.Flags().GetBool("up")
	down, _ := cmd.Flags().GetBool("down")
	by, _ := cmd.Flags().GetInt("by")

	switch {
	case up:
		return -1, nil
	case down:
		return 1, nil
	case by != 0:
		return by, nil
	default:
		return 0, clierr.New(clierr.InvalidInput, "use --up, --down or --by N")
	}
}

func runReorder(cmd *cobra.Command, args []string) error {
	ids, err := board.ParseOrder(args[0])
	if err != nil {
		return err
	}

	tr, err := openTracker()
	if err != nil {
		return err
	}
	defer tr.Close()

	current, err := tr.store.Load()
	if err != nil {
		return err
	}
	dropped := len(current) - len(task.Reordered(current, ids))
	if yes, _ := cmd.Flags().GetBool("yes"); dropped > 0 && !yes {
		return clierr.Newf(clierr.ConfirmationReq,
			"new order leaves out %d task(s), which would be removed; use --yes", dropped).
			WithDetails(map[string]any{"dropped": dropped})
	}

	tasks, err := tr.lc.Reorder(ids)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"order": task.IDs(tasks), "dropped": dropped})
	}
	output.Messagef(os.Stdout, "Reordered %d task(s)", len(tasks))
	if dropped > 0 {
		output.Messagef(os.Stdout, "  Removed %d task(s) left out of the order", dropped)
	}
	return nil
}

package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/deadliner/internal/board"
	"github.com/twiced-technology-gmbh/deadliner/internal/clierr"
	"github.com/twiced-technology-gmbh/deadliner/internal/output"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `Lists tasks with their current progress. Sorting only changes the
displayed order; the stored order is kept.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().String("sort", board.SortOrder, "sort field ("+strings.Join(board.SortFields, ", ")+")")
	listCmd.Flags().BoolP("reverse", "r", false, "reverse sort order")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	listCmd.Flags().Bool("pending", false, "show only tasks not yet completed")
	listCmd.Flags().Bool("completed", false, "show only completed tasks")
	listCmd.Flags().Bool("expired", false, "show only pending tasks past their deadline")
	listCmd.Flags().StringP("search", "s", "", "search title and description (case-insensitive)")
	listCmd.MarkFlagsMutuallyExclusive("pending", "completed", "expired")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	sortBy, _ := cmd.Flags().GetString("sort")
	reverse, _ := cmd.Flags().GetBool("reverse")
	limit, _ := cmd.Flags().GetInt("limit")
	search, _ := cmd.Flags().GetString("search")

	if limit < 0 {
		return clierr.Newf(clierr.InvalidInput, "invalid --limit %d: must not be negative", limit)
	}

	tr, err := openTracker()
	if err != nil {
		return err
	}
	defer tr.Close()

	tasks, err := tr.store.Load()
	if err != nil {
		return err
	}

	opts := board.ListOptions{
		Filter:  board.FilterOptions{State: stateFlag(cmd), Search: search},
		SortBy:  sortBy,
		Reverse: reverse,
		Limit:   limit,
	}
	rows, err := board.List(tasks, opts, time.Now())
	if err != nil {
		return err
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, rows)
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, rows, tr.loc)
	default:
		output.TaskTable(os.Stdout, rows, tr.loc)
	}
	return nil
}

// stateFlag returns the completion state selected by --pending, --completed
// or --expired.
func stateFlag(cmd *cobra.Command) string {
	for _, state := range []string{board.StatePending, board.StateCompleted, board.StateExpired} {
		if v, _ := cmd.Flags().GetBool(state); v {
			return state
		}
	}
	return ""
}

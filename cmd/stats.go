package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/deadliner/internal/board"
	"github.com/twiced-technology-gmbh/deadliner/internal/output"
	"github.com/twiced-technology-gmbh/deadliner/internal/watcher"
)

var flagStatsWatch bool

var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"summary"},
	Short:   "Show task counts",
	Long: `Displays how many tasks exist, how many are completed, pending and
expired, and which pending task is due next.

Use --watch to re-render whenever the data file changes on disk (e.g. from
another terminal). Press Ctrl+C to stop.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVarP(&flagStatsWatch, "watch", "w", false, "re-render when the data file changes")
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, _ []string) error {
	tr, err := openTracker()
	if err != nil {
		return err
	}
	defer tr.Close()

	if err := renderStats(tr); err != nil {
		return err
	}
	if !flagStatsWatch {
		return nil
	}
	return watchStats(tr)
}

func renderStats(tr *tracker) error {
	tasks, err := tr.store.Load()
	if err != nil {
		return err
	}
	summary := board.Summary(tasks, time.Now())

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, summary)
	case output.FormatCompact:
		output.OverviewCompact(os.Stdout, summary, tr.loc)
	default:
		output.OverviewTable(os.Stdout, summary, tr.loc)
	}
	return nil
}

func watchStats(tr *tracker) error {
	if tr.cfg.DataPath() == "" {
		return fmt.Errorf("--watch needs a file-backed store (backend %q)", tr.cfg.Storage.Backend)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New([]string{tr.cfg.DataPath()}, func() {
		clearScreen()
		if renderErr := renderStats(tr); renderErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: rendering stats: %v\n", renderErr)
		}
	})
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to stop)")

	w.Run(ctx, func(watchErr error) {
		fmt.Fprintf(os.Stderr, "Warning: file watcher: %v\n", watchErr)
	})
	return nil
}

// clearScreen sends ANSI escape codes to clear the terminal and move the
// cursor to the top-left corner.
func clearScreen() {
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}

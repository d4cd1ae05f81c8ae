package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/deadliner/internal/board"
	"github.com/twiced-technology-gmbh/deadliner/internal/output"
	"github.com/twiced-technology-gmbh/deadliner/internal/refresh"
	"github.com/twiced-technology-gmbh/deadliner/internal/task"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print live progress",
	Long: `Recomputes the progress of every task on each tick and prints one line
per task. The list is re-read on every tick, so changes made from another
terminal show up on the next pass. Press Ctrl+C to stop.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Duration("interval", 0, "time between passes (default from refresh_interval)")
	watchCmd.Flags().Bool("pending", false, "only show tasks not yet completed")
	watchCmd.Flags().Bool("once", false, "print a single pass and exit")
	rootCmd.AddCommand(watchCmd)
}

// watchPass is the JSON shape of one refresh pass.
type watchPass struct {
	At      time.Time        `json:"at"`
	Updates []refresh.Update `json:"updates"`
}

func runWatch(cmd *cobra.Command, _ []string) error {
	tr, err := openTracker()
	if err != nil {
		return err
	}
	defer tr.Close()

	interval, _ := cmd.Flags().GetDuration("interval")
	if interval <= 0 {
		interval = tr.cfg.RefreshIntervalDuration()
	}
	pendingOnly, _ := cmd.Flags().GetBool("pending")
	once, _ := cmd.Flags().GetBool("once")

	var (
		loaded []task.Task
		at     time.Time
	)
	loop := &refresh.Loop{
		Load: func() ([]task.Task, error) {
			tasks, err := tr.store.Load()
			loaded = tasks
			return tasks, err
		},
		Report: func(updates []refresh.Update) {
			printPass(at, updates, tr)
		},
		OnError: func(err error) {
			fmt.Fprintf(os.Stderr, "Warning: loading tasks: %v\n", err)
		},
		Interval: interval,
		Now: func() time.Time {
			at = time.Now()
			return at
		},
	}
	if pendingOnly {
		loop.Visible = func() []int64 {
			rows := board.Filter(board.Rows(loaded, at), board.FilterOptions{State: board.StatePending})
			ids := make([]int64, len(rows))
			for i, r := range rows {
				ids[i] = r.ID
			}
			return ids
		}
	}

	if once {
		loop.Tick(loop.Now())
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if outputFormat() != output.FormatJSON {
		fmt.Fprintln(os.Stderr, "Watching deadlines... (Ctrl+C to stop)")
	}
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printPass(at time.Time, updates []refresh.Update, tr *tracker) {
	if outputFormat() == output.FormatJSON {
		_ = output.Line(os.Stdout, watchPass{At: at, Updates: updates})
		return
	}
	output.UpdatesCompact(os.Stdout, updates, at.In(tr.loc))
}

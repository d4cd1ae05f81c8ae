package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/deadliner/internal/task"
	"github.com/twiced-technology-gmbh/deadliner/internal/tui"
	"github.com/twiced-technology-gmbh/deadliner/internal/watcher"
)

func runTUI(_ *cobra.Command, _ []string) error {
	tr, err := openTracker()
	if err != nil {
		return err
	}
	defer tr.Close()

	var watchPaths []string
	if p := tr.cfg.DataPath(); p != "" {
		watchPaths = append(watchPaths, p)
	}

	model := tui.NewBoard(tui.Options{
		Lifecycle:       tr.lc,
		Load:            tr.store.Load,
		Location:        tr.loc,
		RefreshInterval: tr.cfg.RefreshIntervalDuration(),
		ProgressWidth:   tr.cfg.ProgressWidth(),
		GradientStart:   tr.cfg.TUI.GradientStart,
		GradientEnd:     tr.cfg.TUI.GradientEnd,
		ExpiredColor:    tr.cfg.TUI.ExpiredColor,
		WatchPaths:      watchPaths,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Saves run on the program's own update loop, so the send must not block it.
	tr.store.OnSave(func(st task.Stats) {
		go p.Send(tui.StatsMsg(st))
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startTUIWatcher(ctx, model, p)

	_, err = p.Run()
	return err
}

func startTUIWatcher(ctx context.Context, model *tui.Board, p *tea.Program) {
	paths := model.WatchPaths()
	if len(paths) == 0 {
		return
	}
	w, err := watcher.New(paths, func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: live reload disabled: %v\n", err)
		return
	}
	defer w.Close()
	w.Run(ctx, func(watchErr error) {
		p.Send(tui.ErrMsg(fmt.Errorf("file watcher: %w", watchErr)))
	})
}

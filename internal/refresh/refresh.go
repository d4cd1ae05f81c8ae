// Package refresh periodically recomputes deadline progress for the tasks a
// view is currently showing.
package refresh

import (
	"context"
	"time"

	"github.com/twiced-technology-gmbh/deadliner/internal/task"
)

// DefaultInterval is used when Loop.Interval is not positive.
const DefaultInterval = time.Second

// Update carries the freshly computed progress of one visible task.
type Update struct {
	ID       int64         `json:"id"`
	Title    string        `json:"title"`
	Progress task.Progress `json:"progress"`
}

// Loop recomputes progress for visible tasks on every tick. It never writes
// to storage.
type Loop struct {
	// Load returns the current collection.
	Load func() ([]task.Task, error)
	// Visible returns the ids currently shown, in display order. Nil means
	// every loaded task is visible.
	Visible func() []int64
	// Report receives one pass worth of updates, in display order.
	Report func([]Update)
	// OnError receives load failures; the pass is skipped.
	OnError func(error)

	Interval time.Duration
	Now      func() time.Time
}

// Run ticks until ctx is canceled. The first pass runs immediately.
func (l *Loop) Run(ctx context.Context) error {
	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	l.Tick(l.now())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Tick(l.now())
		}
	}
}

// Tick runs a single pass at now and returns the updates it reported.
// Visible ids that no longer exist are skipped.
func (l *Loop) Tick(now time.Time) []Update {
	tasks, err := l.Load()
	if err != nil {
		if l.OnError != nil {
			l.OnError(err)
		}
		return nil
	}

	updates := Pass(tasks, l.visible(tasks), now)
	if l.Report != nil {
		l.Report(updates)
	}
	return updates
}

// Pass computes updates for ids against tasks at now, skipping ids that are
// not in tasks.
func Pass(tasks []task.Task, ids []int64, now time.Time) []Update {
	updates := make([]Update, 0, len(ids))
	for _, id := range ids {
		t, ok := task.FindByID(tasks, id)
		if !ok {
			continue
		}
		updates = append(updates, Update{ID: t.ID, Title: t.Title, Progress: task.Compute(t, now)})
	}
	return updates
}

func (l *Loop) visible(tasks []task.Task) []int64 {
	if l.Visible == nil {
		return task.IDs(tasks)
	}
	return l.Visible()
}

func (l *Loop) now() time.Time {
	if l.Now == nil {
		return time.Now()
	}
	return l.Now()
}

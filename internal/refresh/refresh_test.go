package refresh

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/deadliner/internal/task"
)

var base = time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC)

func fixture() []task.Task {
	return []task.Task{
		{ID: 1, Title: "a", CreatedAt: base.UnixMilli(), Deadline: base.Add(2 * time.Hour).UnixMilli()},
		{ID: 2, Title: "b", CreatedAt: base.UnixMilli(), Deadline: base.Add(30 * time.Minute).UnixMilli()},
		{ID: 3, Title: "c", CreatedAt: base.UnixMilli(), Deadline: base.Add(48 * time.Hour).UnixMilli()},
	}
}

func TestTickReportsVisible(t *testing.T) {
	var reported []Update
	l := &Loop{
		Load:    func() ([]task.Task, error) { return fixture(), nil },
		Visible: func() []int64 { return []int64{3, 42, 2} },
		Report:  func(u []Update) { reported = u },
	}

	l.Tick(base.Add(time.Hour))

	if len(reported) != 2 {
		t.Fatalf("expected 2 updates (stale id skipped), got %+v", reported)
	}
	if reported[0].ID != 3 || reported[1].ID != 2 {
		t.Errorf("updates out of display order: %+v", reported)
	}
	if reported[0].Progress.Label != "Left: 1d 23h" {
		t.Errorf("label = %q", reported[0].Progress.Label)
	}
	if !reported[1].Progress.Expired || reported[1].Progress.Label != task.LabelExpired {
		t.Errorf("task 2 should be expired, got %+v", reported[1].Progress)
	}
}

func TestTickAllWhenVisibleNil(t *testing.T) {
	l := &Loop{Load: func() ([]task.Task, error) { return fixture(), nil }}
	if got := l.Tick(base); len(got) != 3 {
		t.Errorf("expected all 3 tasks, got %d", len(got))
	}
}

func TestTickLoadError(t *testing.T) {
	var gotErr error
	reported := false
	l := &Loop{
		Load:    func() ([]task.Task, error) { return nil, errors.New("locked") },
		Report:  func([]Update) { reported = true },
		OnError: func(err error) { gotErr = err },
	}

	if updates := l.Tick(base); updates != nil {
		t.Errorf("expected no updates, got %+v", updates)
	}
	if gotErr == nil || reported {
		t.Errorf("error should be passed to OnError and the pass skipped (err=%v reported=%v)", gotErr, reported)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	var (
		mu     sync.Mutex
		passes int
	)
	ctx, cancel := context.WithCancel(context.Background())
	l := &Loop{
		Load: func() ([]task.Task, error) { return fixture(), nil },
		Report: func([]Update) {
			mu.Lock()
			defer mu.Unlock()
			passes++
			if passes == 3 {
				cancel()
			}
		},
		Interval: time.Millisecond,
		Now:      func() time.Time { return base },
	}

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	if passes < 3 {
		t.Errorf("passes = %d, want at least 3", passes)
	}
}

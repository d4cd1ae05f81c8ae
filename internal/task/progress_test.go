package task

import (
	"math"
	"testing"
	"time"
)

func TestCompute(t *testing.T) {
	created := time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC)
	deadline := created.Add(10 * time.Hour)
	tk := Task{ID: 1, CreatedAt: created.UnixMilli(), Deadline: deadline.UnixMilli()}

	tests := []struct {
		name    string
		task    Task
		now     time.Time
		percent float64
		label   string
		expired bool
	}{
		{"at creation", tk, created, 0, "Left: 10h 0m", false},
		{"midpoint", tk, created.Add(5 * time.Hour), 50, "Left: 5h 0m", false},
		{"one ms before", tk, deadline.Add(-time.Millisecond), 99.999997, "Left: 0m", false},
		{"exactly at deadline", tk, deadline, 100, LabelExpired, true},
		{"one ms after", tk, deadline.Add(time.Millisecond), 100, LabelExpired, true},
		{"before creation", tk, created.Add(-time.Hour), 0, "Left: 11h 0m", false},
		{"no deadline", Task{CreatedAt: created.UnixMilli()}, created, 0, LabelNoDeadline, false},
		{"no creation time", Task{Deadline: deadline.UnixMilli()}, created, 0, LabelNoDeadline, false},
		{
			"deadline before creation",
			Task{CreatedAt: deadline.UnixMilli(), Deadline: created.Add(time.Hour).UnixMilli()},
			created, 100, "Left: 1h 0m", false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.task, tt.now)
			if math.Abs(got.Percent-tt.percent) > 1e-6 {
				t.Errorf("percent = %v, want %v", got.Percent, tt.percent)
			}
			if got.Label != tt.label {
				t.Errorf("label = %q, want %q", got.Label, tt.label)
			}
			if got.Expired != tt.expired {
				t.Errorf("expired = %v, want %v", got.Expired, tt.expired)
			}
		})
	}
}

func TestComputeMonotonic(t *testing.T) {
	created := time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC)
	tk := Task{CreatedAt: created.UnixMilli(), Deadline: created.Add(90 * time.Minute).UnixMilli()}

	prev := -1.0
	for now := created.Add(-10 * time.Minute); now.Before(created.Add(2 * time.Hour)); now = now.Add(7 * time.Minute) {
		p := Compute(tk, now).Percent
		if p < 0 || p > 100 {
			t.Fatalf("percent %v out of range at %s", p, now)
		}
		if p < prev {
			t.Fatalf("percent decreased from %v to %v at %s", prev, p, now)
		}
		prev = p
	}
}

func TestRemainingLabel(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{90_061_000, "Left: 1d 1h"},
		{3_661_000, "Left: 1h 1m"},
		{61_000, "Left: 1m"},
		{59_999, "Left: 0m"},
		{86_400_000, "Left: 1d 0h"},
		{3 * 86_400_000, "Left: 3d 0h"},
	}

	for _, tt := range tests {
		if got := RemainingLabel(tt.ms); got != tt.want {
			t.Errorf("RemainingLabel(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

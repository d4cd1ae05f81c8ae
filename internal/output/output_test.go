package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/deadliner/internal/board"
	"github.com/twiced-technology-gmbh/deadliner/internal/refresh"
	"github.com/twiced-technology-gmbh/deadliner/internal/task"
)

var now = time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)

func sampleRows() []board.Row {
	return board.Rows([]task.Task{
		{ID: 1, Title: "Write report", Description: "**draft** first", CreatedAt: now.Add(-time.Hour).UnixMilli(), Deadline: now.Add(time.Hour).UnixMilli()},
		{ID: 2, Title: "Buy milk", CreatedAt: now.Add(-2 * time.Hour).UnixMilli(), Deadline: now.Add(-time.Hour).UnixMilli(), Completed: true},
	}, now)
}

func TestDetect(t *testing.T) {
	t.Setenv(EnvFormat, "")
	if Detect(true, true, true) != FormatJSON {
		t.Error("--json should win")
	}
	if Detect(false, true, true) != FormatCompact {
		t.Error("--compact should beat --table")
	}
	if Detect(false, false, false) != FormatTable {
		t.Error("default should be table")
	}

	t.Setenv(EnvFormat, "json")
	if Detect(false, false, false) != FormatJSON {
		t.Error("env should select json")
	}
	t.Setenv(EnvFormat, "oneline")
	if Detect(false, false, false) != FormatCompact {
		t.Error("env should select compact")
	}
}

func TestTaskCompact(t *testing.T) {
	var buf bytes.Buffer
	TaskCompact(&buf, sampleRows(), time.UTC)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	want := "#1 [ ] Write report 50% Left: 1h 0m due:2025-03-07 13:00"
	if lines[0] != want {
		t.Errorf("line 1 = %q, want %q", lines[0], want)
	}
	if !strings.HasPrefix(lines[1], "#2 [x] Buy milk 100% Expired!") {
		t.Errorf("line 2 = %q", lines[1])
	}
}

func TestTaskDetailCompact(t *testing.T) {
	var buf bytes.Buffer
	TaskDetailCompact(&buf, sampleRows()[0], time.UTC)
	out := buf.String()
	if !strings.Contains(out, "created:2025-03-07 11:00") || !strings.Contains(out, "  **draft** first") {
		t.Errorf("detail = %q", out)
	}
}

func TestOverviewCompact(t *testing.T) {
	var buf bytes.Buffer
	tasks := make([]task.Task, 0, 2)
	for _, r := range sampleRows() {
		tasks = append(tasks, r.Task)
	}
	OverviewCompact(&buf, board.Summary(tasks, now), time.UTC)
	if !strings.HasPrefix(buf.String(), "total=2 completed=1 pending=1 expired=0\nnext: #1") {
		t.Errorf("overview = %q", buf.String())
	}
}

func TestUpdatesCompact(t *testing.T) {
	var buf bytes.Buffer
	updates := refresh.Pass([]task.Task{sampleRows()[0].Task}, []int64{1}, now)
	UpdatesCompact(&buf, updates, now)
	want := "12:00:00 #1  50.0% Left: 1h 0m  Write report\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestTableAndDetailWithoutColor(t *testing.T) {
	DisableColor()

	var buf bytes.Buffer
	TaskTable(&buf, sampleRows(), time.UTC)
	out := buf.String()
	for _, want := range []string{"ID", "PROGRESS", "Write report", "Left: 1h 0m", "Mar 7, 01:00 PM", "[x]"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("table contains escape codes with color disabled:\n%q", out)
	}

	buf.Reset()
	TaskDetail(&buf, sampleRows()[0], time.UTC)
	out = buf.String()
	for _, want := range []string{"Task #1: Write report", "Remaining:", "Window:", "2h 0m", "draft"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail missing %q:\n%s", want, out)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{90 * time.Minute, "1h 30m"},
		{49 * time.Hour, "2d 1h"},
		{0, "0h 0m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%s) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{"JSON": FormatJSON, " oneline ": FormatCompact, "table": FormatTable} {
		got, ok := ParseFormat(name)
		if !ok || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", name, got, ok, want)
		}
	}
	if _, ok := ParseFormat("yaml"); ok {
		t.Error("yaml should not be a format")
	}
}

func TestLineIsSingleLine(t *testing.T) {
	var buf bytes.Buffer
	if err := Line(&buf, map[string]any{"a": 1, "b": "<x>"}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "{\"a\":1,\"b\":\"<x>\"}\n" {
		t.Errorf("Line = %q", got)
	}
}

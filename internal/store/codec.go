package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/twiced-technology-gmbh/deadliner/internal/clierr"
	"github.com/twiced-technology-gmbh/deadliner/internal/task"
)

// defaults holds the values backfilled into entries that lack them.
type defaults struct {
	now      time.Time
	deadline time.Duration
}

// decode parses a persisted collection. It never fails: a value that is not a
// JSON list yields no tasks, entries that are not objects are dropped, and
// missing or mistyped fields are backfilled. Every repair that loses data is
// returned as a STORAGE_CORRUPT problem.
func decode(raw string, d defaults) ([]task.Task, []error) {
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, []error{corrupt("stored tasks are not a JSON list: %v", err)}
	}
	// A literal "null" decodes without error.
	if entries == nil {
		return nil, []error{corrupt("stored tasks are null")}
	}

	nowMS := d.now.UnixMilli()
	var problems []error
	tasks := make([]task.Task, 0, len(entries))
	for i, entry := range entries {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(entry, &fields); err != nil || fields == nil {
			problems = append(problems, corrupt("dropping entry %d: not an object", i))
			continue
		}
		tasks = append(tasks, normalize(fields, nowMS, d.deadline))
	}

	reassignIDs(tasks)
	return tasks, problems
}

// normalize builds a task from a decoded object, applying the backfill table:
//
//	createdAt  absent/zero/mistyped -> now
//	deadline   absent/zero/mistyped -> now + default deadline
//	completed  absent/mistyped      -> false
//	expanded   absent/mistyped      -> false
//	title, description mistyped     -> ""
func normalize(fields map[string]json.RawMessage, nowMS int64, defaultDeadline time.Duration) task.Task {
	t := task.Task{
		Title:       stringField(fields, "title"),
		Description: stringField(fields, "description"),
		Expanded:    boolField(fields, "expanded"),
		Completed:   boolField(fields, "completed"),
	}
	t.ID, _ = int64Field(fields, "id")

	if v, ok := int64Field(fields, "createdAt"); ok && v != 0 {
		t.CreatedAt = v
	} else {
		t.CreatedAt = nowMS
	}
	if v, ok := int64Field(fields, "deadline"); ok && v != 0 {
		t.Deadline = v
	} else {
		t.Deadline = nowMS + defaultDeadline.Milliseconds()
	}
	return t
}

// reassignIDs gives every task with a missing, non-positive or duplicate ID a
// fresh one from task.FreeID, keeping the first holder of an ID.
func reassignIDs(tasks []task.Task) {
	seen := make(map[int64]bool, len(tasks))
	for i := range tasks {
		id := tasks[i].ID
		if id <= 0 || seen[id] {
			tasks[i].ID = task.FreeID(tasks)
		}
		seen[tasks[i].ID] = true
	}
}

// encode serializes tasks as a compact JSON list. The output is a pure
// function of the input, so encoding a decoded collection is stable.
func encode(tasks []task.Task) (string, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tasks); err != nil {
		return "", fmt.Errorf("encoding tasks: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func stringField(fields map[string]json.RawMessage, key string) string {
	var s string
	if raw, ok := fields[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}

func boolField(fields map[string]json.RawMessage, key string) bool {
	var b bool
	if raw, ok := fields[key]; ok {
		_ = json.Unmarshal(raw, &b)
	}
	return b
}

// int64Field reads an integer, accepting integral floats such as 1.7e12.
func int64Field(fields map[string]json.RawMessage, key string) (int64, bool) {
	raw, ok := fields[key]
	if !ok {
		return 0, false
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) ||
		f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

func corrupt(format string, args ...any) error {
	return clierr.Newf(clierr.StorageCorrupt, format, args...)
}

// Package board provides list-level views over a task collection: rows with
// computed progress, filtering, display sorting and summary counts.
package board

import (
	"strconv"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/deadliner/internal/clierr"
	"github.com/twiced-technology-gmbh/deadliner/internal/task"
)

// Row is a task together with its progress at the time the view was built.
// It marshals as one flat JSON object.
type Row struct {
	task.Task
	task.Progress
}

// ListOptions controls how tasks are listed.
type ListOptions struct {
	Filter  FilterOptions
	SortBy  string
	Reverse bool
	Limit   int
}

// List builds rows for tasks at now, then filters, sorts and limits them.
// Sorting only affects the returned view; the stored order is untouched.
func List(tasks []task.Task, opts ListOptions, now time.Time) ([]Row, error) {
	rows := Rows(tasks, now)
	rows = Filter(rows, opts.Filter)

	sortField := opts.SortBy
	if sortField == "" {
		sortField = SortOrder
	}
	if err := Sort(rows, sortField, opts.Reverse); err != nil {
		return nil, err
	}

	if opts.Limit > 0 && len(rows) > opts.Limit {
		rows = rows[:opts.Limit]
	}
	return rows, nil
}

// Rows pairs every task with its progress at now, in collection order.
func Rows(tasks []task.Task, now time.Time) []Row {
	rows := make([]Row, len(tasks))
	for i, t := range tasks {
		rows[i] = Row{Task: t, Progress: task.Compute(t, now)}
	}
	return rows
}

// Overview is the aggregate state of the collection.
type Overview struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Expired   int `json:"expired"`

	// Next is the pending, not yet expired task with the earliest deadline.
	Next *Row `json:"next,omitempty"`
}

// Summary counts tasks at now. Expired counts only pending tasks.
func Summary(tasks []task.Task, now time.Time) Overview {
	stats := task.CountStats(tasks)
	o := Overview{Total: stats.Total, Completed: stats.Completed, Pending: stats.Total - stats.Completed}

	for _, r := range Rows(tasks, now) {
		if r.Completed {
			continue
		}
		if r.Expired {
			o.Expired++
			continue
		}
		if r.Deadline != 0 && (o.Next == nil || r.Deadline < o.Next.Deadline) {
			next := r
			o.Next = &next
		}
	}
	return o
}

// ParseIDs splits a comma-separated ID string into deduplicated IDs.
func ParseIDs(arg string) ([]int64, error) {
	return parseIDs(arg, true)
}

// ParseOrder splits a comma-separated ID string keeping repeats, for reorder.
func ParseOrder(arg string) ([]int64, error) {
	return parseIDs(arg, false)
}

func parseIDs(arg string, dedupe bool) ([]int64, error) {
	parts := strings.Split(arg, ",")
	seen := make(map[int64]bool, len(parts))
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(p), "#"))
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil || id <= 0 {
			return nil, task.ValidateTaskID(p)
		}
		if dedupe && seen[id] {
			continue
		}
		ids = append(ids, id)
		seen[id] = true
	}
	if len(ids) == 0 {
		return nil, clierr.New(clierr.InvalidTaskID, "no valid task IDs provided")
	}
	return ids, nil
}

// Package task holds the task model, the deadline progress computation and
// the lifecycle operations that mutate a stored task collection.
package task

// Task is a single to-do item with a deadline. Timestamps are epoch
// milliseconds so the persisted shape stays compatible with existing data.
type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Deadline    int64  `json:"deadline"`
	CreatedAt   int64  `json:"createdAt"`
	Expanded    bool   `json:"expanded"`
	Completed   bool   `json:"completed"`
}

// Stats counts tasks for the summary line shown next to the list.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// CountStats returns the total and completed counts for tasks.
func CountStats(tasks []Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
	}
	return s
}

package task

import "math"

// IndexOf returns the position of the task with the given ID, or -1.
func IndexOf(tasks []Task, id int64) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// FindByID returns the task with the given ID and whether it exists.
func FindByID(tasks []Task, id int64) (Task, bool) {
	if i := IndexOf(tasks, id); i >= 0 {
		return tasks[i], true
	}
	return Task{}, false
}

// IDs returns the task IDs in collection order.
func IDs(tasks []Task) []int64 {
	ids := make([]int64, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

// MaxID returns the largest ID in tasks, or 0 for an empty collection.
func MaxID(tasks []Task) int64 {
	var maxID int64
	for _, t := range tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID
}

// NextID returns candidate (normally the creation time in ms) unless it is
// not positive or is already taken, in which case it returns FreeID.
func NextID(tasks []Task, candidate int64) int64 {
	if candidate > 0 && IndexOf(tasks, candidate) < 0 {
		return candidate
	}
	return FreeID(tasks)
}

// FreeID returns MaxID+1. Once MaxID is math.MaxInt64 it returns the smallest
// positive ID not in use instead.
func FreeID(tasks []Task) int64 {
	if maxID := MaxID(tasks); maxID < math.MaxInt64 {
		return maxID + 1
	}
	used := make(map[int64]bool, len(tasks))
	for _, t := range tasks {
		used[t.ID] = true
	}
	id := int64(1)
	for used[id] {
		id++
	}
	return id
}

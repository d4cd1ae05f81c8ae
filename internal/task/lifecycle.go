package task

import (
	"strconv"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/deadliner/internal/date"
)

// Repository is the persistence contract the lifecycle needs. Update loads the
// full collection, hands it to fn and writes fn's result back in one step when
// fn reports a change.
type Repository interface {
	Update(fn func([]Task) ([]Task, bool, error)) error
}

// LogFunc receives one entry per committed mutation.
type LogFunc func(action string, id int64, detail string)

// Lifecycle applies user operations to a task collection. Every operation is
// a single read-modify-write through the Repository; a failed validation or
// an unknown ID writes nothing.
type Lifecycle struct {
	repo Repository
	now  func() time.Time
	loc  *time.Location
	log  LogFunc
}

// EditRequest lists the fields an edit may change. Nil fields are kept.
type EditRequest struct {
	Title       *string
	Description *string
	Deadline    *string
}

// NewLifecycle creates a Lifecycle over repo using the wall clock and the
// local time zone.
func NewLifecycle(repo Repository) *Lifecycle {
	return &Lifecycle{repo: repo, now: time.Now, loc: time.Local}
}

// SetNow overrides the clock (for testing).
func (l *Lifecycle) SetNow(fn func() time.Time) {
	l.now = fn
}

// SetLocation sets the zone used to read deadlines without an explicit offset.
func (l *Lifecycle) SetLocation(loc *time.Location) {
	if loc != nil {
		l.loc = loc
	}
}

// SetLogger installs a callback for committed mutations.
func (l *Lifecycle) SetLogger(fn LogFunc) {
	l.log = fn
}

// ParseDeadline reads deadline input relative to the lifecycle's clock and zone.
func (l *Lifecycle) ParseDeadline(input string) (int64, error) {
	t, err := date.Parse(input, l.now(), l.loc)
	if err != nil {
		return 0, ValidateDeadline(input, err)
	}
	return date.Millis(t), nil
}

// Create validates title and deadline and appends a new task to the end of
// the collection.
func (l *Lifecycle) Create(title, deadline string) (Task, error) {
	return l.CreateWithDescription(title, "", deadline)
}

// CreateWithDescription is Create with an initial description.
func (l *Lifecycle) CreateWithDescription(title, description, deadline string) (Task, error) {
	cleanTitle, err := ValidateTitle(title)
	if err != nil {
		return Task{}, err
	}
	deadlineMS, err := l.ParseDeadline(deadline)
	if err != nil {
		return Task{}, err
	}

	var created Task
	err = l.repo.Update(func(tasks []Task) ([]Task, bool, error) {
		nowMS := date.Millis(l.now())
		created = Task{
			ID:          NextID(tasks, nowMS),
			Title:       cleanTitle,
			Description: description,
			Deadline:    deadlineMS,
			CreatedAt:   nowMS,
		}
		return append(tasks, created), true, nil
	})
	if err != nil {
		return Task{}, err
	}

	l.record("create", created.ID, created.Title)
	return created, nil
}

// ToggleCompletion flips the completed flag. It reports false, and writes
// nothing, when id is unknown.
func (l *Lifecycle) ToggleCompletion(id int64) (Task, bool, error) {
	t, found, err := l.mutate(id, func(t *Task) bool {
		t.Completed = !t.Completed
		return true
	})
	if err != nil || !found {
		return t, found, err
	}

	action := "reopen"
	if t.Completed {
		action = "complete"
	}
	l.record(action, t.ID, t.Title)
	return t, true, nil
}

// SetExpanded stores the display hint for id.
func (l *Lifecycle) SetExpanded(id int64, expanded bool) (Task, bool, error) {
	return l.mutate(id, func(t *Task) bool {
		if t.Expanded == expanded {
			return false
		}
		t.Expanded = expanded
		return true
	})
}

// Edit applies req to the task with the given id. The request is validated
// as a whole first: an empty title or an unparseable deadline rejects the
// edit and nothing is committed.
func (l *Lifecycle) Edit(id int64, req EditRequest) (Task, bool, error) {
	var (
		title      string
		deadlineMS int64
		err        error
	)
	if req.Title != nil {
		if title, err = ValidateTitle(*req.Title); err != nil {
			return Task{}, false, err
		}
	}
	if req.Deadline != nil {
		if deadlineMS, err = l.ParseDeadline(*req.Deadline); err != nil {
			return Task{}, false, err
		}
	}

	t, found, err := l.mutate(id, func(t *Task) bool {
		before := *t
		if req.Title != nil {
			t.Title = title
		}
		if req.Description != nil {
			t.Description = *req.Description
		}
		if req.Deadline != nil {
			t.Deadline = deadlineMS
		}
		return *t != before
	})
	if err != nil || !found {
		return t, found, err
	}

	l.record("edit", t.ID, t.Title)
	return t, true, nil
}

// Delete removes the task with the given id. Unknown ids are a no-op and
// leave the stored collection untouched.
func (l *Lifecycle) Delete(id int64) (Task, bool, error) {
	var removed Task
	found := false
	err := l.repo.Update(func(tasks []Task) ([]Task, bool, error) {
		i := IndexOf(tasks, id)
		if i < 0 {
			return tasks, false, nil
		}
		removed, found = tasks[i], true
		kept := make([]Task, 0, len(tasks)-1)
		kept = append(kept, tasks[:i]...)
		kept = append(kept, tasks[i+1:]...)
		return kept, true, nil
	})
	if err != nil || !found {
		return Task{}, found, err
	}

	l.record("delete", removed.ID, removed.Title)
	return removed, true, nil
}

// Reorder re-sequences the collection to follow ids. Stored tasks missing
// from ids are dropped; unknown or repeated ids are ignored.
func (l *Lifecycle) Reorder(ids []int64) ([]Task, error) {
	var (
		result  []Task
		changed bool
	)
	err := l.repo.Update(func(tasks []Task) ([]Task, bool, error) {
		result = Reordered(tasks, ids)
		changed = !sameOrder(tasks, result)
		return result, changed, nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		l.record("reorder", 0, joinIDs(IDs(result)))
	}
	return result, nil
}

// Move shifts the task with the given id by offset positions, clamped to the
// ends of the list. It reports false when id is unknown.
func (l *Lifecycle) Move(id int64, offset int) (bool, error) {
	found := false
	moved := false
	err := l.repo.Update(func(tasks []Task) ([]Task, bool, error) {
		from := IndexOf(tasks, id)
		if from < 0 {
			return tasks, false, nil
		}
		found = true
		to := min(max(from+offset, 0), len(tasks)-1)
		if to == from {
			return tasks, false, nil
		}
		ids := IDs(tasks)
		ids = append(ids[:from], ids[from+1:]...)
		ids = append(ids[:to], append([]int64{id}, ids[to:]...)...)
		moved = true
		return Reordered(tasks, ids), true, nil
	})
	if err != nil {
		return false, err
	}

	if moved {
		l.record("move", id, strconv.Itoa(offset))
	}
	return found, nil
}

// Reordered returns tasks arranged in the order of ids, keeping only tasks
// whose id appears in ids. The first occurrence of a repeated id wins.
func Reordered(tasks []Task, ids []int64) []Task {
	byID := make(map[int64]Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	result := make([]Task, 0, len(ids))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			continue
		}
		result = append(result, t)
		delete(byID, id)
	}
	return result
}

// mutate applies fn to the task with the given id inside one Update. fn
// reports whether it changed anything.
func (l *Lifecycle) mutate(id int64, fn func(*Task) bool) (Task, bool, error) {
	var out Task
	found := false
	err := l.repo.Update(func(tasks []Task) ([]Task, bool, error) {
		i := IndexOf(tasks, id)
		if i < 0 {
			return tasks, false, nil
		}
		found = true
		changed := fn(&tasks[i])
		out = tasks[i]
		return tasks, changed, nil
	})
	if err != nil {
		return Task{}, false, err
	}
	return out, found, nil
}

func (l *Lifecycle) record(action string, id int64, detail string) {
	if l.log != nil {
		l.log(action, id, detail)
	}
}

func sameOrder(a, b []Task) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// Package store persists the ordered task collection under a single key of a
// key-value backend.
package store

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/twiced-technology-gmbh/deadliner/internal/task"
)

// Key is the backend key holding the serialized collection.
const Key = "tasks"

// DefaultDeadline is added to the load time for entries that lack a deadline.
const DefaultDeadline = 24 * time.Hour

// ErrCorrupt is returned by a backend whose container (not the stored value)
// cannot be parsed. The store treats it like an unparseable value.
var ErrCorrupt = errors.New("storage container is corrupt")

// KV is a string key-value backend. Get reports false for a missing key.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Locker is implemented by backends that other processes can write to.
// Lock blocks until the caller holds exclusive access.
type Locker interface {
	Lock() (unlock func() error, err error)
}

// Store owns the authoritative task collection. All methods are safe for
// concurrent use; read-modify-write cycles are serialized in-process and,
// when the backend is a Locker, across processes.
type Store struct {
	mu  sync.Mutex
	kv  KV
	now func() time.Time

	defaultDeadline time.Duration
	onSave          func(task.Stats)
	onCorrupt       func(error)
}

// New creates a Store over kv.
func New(kv KV) *Store {
	return &Store{kv: kv, now: time.Now, defaultDeadline: DefaultDeadline}
}

// SetNow overrides the clock used for backfilled timestamps (for testing).
func (s *Store) SetNow(fn func() time.Time) {
	s.now = fn
}

// SetDefaultDeadline sets the offset used to backfill missing deadlines.
func (s *Store) SetDefaultDeadline(d time.Duration) {
	if d > 0 {
		s.defaultDeadline = d
	}
}

// OnSave registers a callback that receives the counts after every write.
func (s *Store) OnSave(fn func(task.Stats)) {
	s.onSave = fn
}

// OnCorrupt registers a callback for repaired or discarded stored data.
func (s *Store) OnCorrupt(fn func(error)) {
	s.onCorrupt = fn
}

// Load returns the stored collection in its persisted order, normalized.
// Unparseable data yields an empty collection; only backend I/O failures are
// returned as errors.
func (s *Store) Load() ([]task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// SaveAll replaces the stored collection with tasks, preserving their order.
func (s *Store) SaveAll(tasks []task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lockBackend()
	if err != nil {
		return err
	}
	defer unlock() //nolint:errcheck // best-effort unlock

	return s.save(tasks)
}

// Update runs one serialized read-modify-write cycle. fn receives a fresh
// copy of the collection and returns the new collection and whether it
// changed; nothing is written when it did not or when fn fails.
func (s *Store) Update(fn func([]task.Task) ([]task.Task, bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lockBackend()
	if err != nil {
		return err
	}
	defer unlock() //nolint:errcheck // best-effort unlock

	tasks, err := s.load()
	if err != nil {
		return err
	}
	updated, changed, err := fn(tasks)
	if err != nil || !changed {
		return err
	}
	return s.save(updated)
}

// UpsertNew appends t to the end of the collection.
func (s *Store) UpsertNew(t task.Task) error {
	return s.Update(func(tasks []task.Task) ([]task.Task, bool, error) {
		return append(tasks, t), true, nil
	})
}

// FindByID returns the stored task with the given id.
func (s *Store) FindByID(id int64) (task.Task, bool, error) {
	tasks, err := s.Load()
	if err != nil {
		return task.Task{}, false, err
	}
	t, ok := task.FindByID(tasks, id)
	return t, ok, nil
}

// DeleteByID removes the task with the given id. The backend is not written
// when no task matches.
func (s *Store) DeleteByID(id int64) error {
	return s.Update(func(tasks []task.Task) ([]task.Task, bool, error) {
		i := task.IndexOf(tasks, id)
		if i < 0 {
			return tasks, false, nil
		}
		return append(tasks[:i], tasks[i+1:]...), true, nil
	})
}

// Close releases the backend if it holds resources.
func (s *Store) Close() error {
	if c, ok := s.kv.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Store) load() ([]task.Task, error) {
	raw, ok, err := s.kv.Get(Key)
	if errors.Is(err, ErrCorrupt) {
		s.reportCorrupt(corrupt("%v", err))
		return []task.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading tasks: %w", err)
	}
	if !ok {
		return []task.Task{}, nil
	}

	tasks, problems := decode(raw, defaults{now: s.now(), deadline: s.defaultDeadline})
	for _, p := range problems {
		s.reportCorrupt(p)
	}
	return tasks, nil
}

func (s *Store) save(tasks []task.Task) error {
	raw, err := encode(tasks)
	if err != nil {
		return err
	}
	if err := s.kv.Set(Key, raw); err != nil {
		return fmt.Errorf("writing tasks: %w", err)
	}
	if s.onSave != nil {
		s.onSave(task.CountStats(tasks))
	}
	return nil
}

func (s *Store) lockBackend() (func() error, error) {
	l, ok := s.kv.(Locker)
	if !ok {
		return func() error { return nil }, nil
	}
	unlock, err := l.Lock()
	if err != nil {
		return nil, fmt.Errorf("acquiring lock: %w", err)
	}
	return unlock, nil
}

func (s *Store) reportCorrupt(err error) {
	if s.onCorrupt != nil {
		s.onCorrupt(err)
	}
}

package store

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/deadliner/internal/clierr"
	"github.com/twiced-technology-gmbh/deadliner/internal/task"
)

var fixedNow = time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)

func newMemoryStore(t *testing.T, raw string) (*Store, *MemoryKV) {
	t.Helper()
	kv := NewMemoryKV()
	if raw != "" {
		if err := kv.Set(Key, raw); err != nil {
			t.Fatalf("seeding: %v", err)
		}
	}
	s := New(kv)
	s.SetNow(func() time.Time { return fixedNow })
	return s, kv
}

func TestLoadMissingKey(t *testing.T) {
	s, _ := newMemoryStore(t, "")
	tasks, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected empty collection, got %d tasks", len(tasks))
	}
}

func TestLoadCorruptValue(t *testing.T) {
	for _, raw := range []string{"not json", `{"id":1}`, "null", `"tasks"`, "42"} {
		t.Run(raw, func(t *testing.T) {
			s, _ := newMemoryStore(t, raw)
			var reported []error
			s.OnCorrupt(func(err error) { reported = append(reported, err) })

			tasks, err := s.Load()
			if err != nil {
				t.Fatalf("Load must not fail on corrupt data: %v", err)
			}
			if len(tasks) != 0 {
				t.Errorf("expected empty collection, got %d tasks", len(tasks))
			}
			if len(reported) != 1 || !clierr.HasCode(reported[0], clierr.StorageCorrupt) {
				t.Errorf("expected one STORAGE_CORRUPT report, got %v", reported)
			}
		})
	}
}

func TestLoadNormalizes(t *testing.T) {
	nowMS := fixedNow.UnixMilli()
	raw := `[
		{"id": 1, "title": "legacy"},
		{"id": 2, "title": "zero stamps", "deadline": 0, "createdAt": 0},
		{"id": 3, "title": 7, "description": null, "deadline": "soon", "completed": "yes", "expanded": 1},
		{"id": 4, "title": "float stamps", "deadline": 1.7e12, "createdAt": 1.6e12, "completed": true}
	]`
	s, _ := newMemoryStore(t, raw)

	tasks, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 4 {
		t.Fatalf("expected 4 tasks, got %d", len(tasks))
	}

	for _, i := range []int{0, 1, 2} {
		if tasks[i].CreatedAt != nowMS {
			t.Errorf("task %d createdAt = %d, want %d", tasks[i].ID, tasks[i].CreatedAt, nowMS)
		}
		if tasks[i].Deadline != nowMS+DefaultDeadline.Milliseconds() {
			t.Errorf("task %d deadline = %d, want now+24h", tasks[i].ID, tasks[i].Deadline)
		}
		if tasks[i].Completed {
			t.Errorf("task %d completed should default to false", tasks[i].ID)
		}
	}
	if tasks[2].Title != "" || tasks[2].Description != "" || tasks[2].Expanded {
		t.Errorf("mistyped fields should reset to zero values, got %+v", tasks[2])
	}
	if tasks[3].Deadline != 1_700_000_000_000 || tasks[3].CreatedAt != 1_600_000_000_000 || !tasks[3].Completed {
		t.Errorf("integral floats should be kept, got %+v", tasks[3])
	}
}

func TestLoadDropsNonObjects(t *testing.T) {
	s, _ := newMemoryStore(t, `[{"id":1,"title":"a","deadline":5,"createdAt":1}, 3, "x", null, [1]]`)
	var reported int
	s.OnCorrupt(func(error) { reported++ })

	tasks, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "a" {
		t.Errorf("expected only the object entry, got %+v", tasks)
	}
	if reported != 4 {
		t.Errorf("expected 4 corruption reports, got %d", reported)
	}
}

func TestLoadReassignsIDs(t *testing.T) {
	s, _ := newMemoryStore(t, `[
		{"id":10,"title":"a","deadline":5,"createdAt":1},
		{"title":"no id","deadline":5,"createdAt":1},
		{"id":10,"title":"dup","deadline":5,"createdAt":1},
		{"id":-4,"title":"neg","deadline":5,"createdAt":1}
	]`)

	tasks, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []int64{10, 11, 12, 13}
	for i, id := range want {
		if tasks[i].ID != id {
			t.Errorf("task %d id = %d, want %d", i, tasks[i].ID, id)
		}
	}
}

func TestLoadReassignsIDsAtMaxInt64(t *testing.T) {
	s, _ := newMemoryStore(t, `[
		{"id":9223372036854775807,"title":"max","deadline":5,"createdAt":1},
		{"id":9223372036854775807,"title":"dup","deadline":5,"createdAt":1},
		{"title":"no id","deadline":5,"createdAt":1}
	]`)

	first, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []int64{math.MaxInt64, 1, 2}
	for i, id := range want {
		if first[i].ID != id {
			t.Errorf("task %d id = %d, want %d", i, first[i].ID, id)
		}
	}

	if err := s.SaveAll(first); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}
	second, err := s.Load()
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	for i := range first {
		if second[i].ID != first[i].ID {
			t.Errorf("task %d id changed on reload: %d -> %d", i, first[i].ID, second[i].ID)
		}
	}
}

func TestSaveAllLoadIdempotent(t *testing.T) {
	s, kv := newMemoryStore(t, `[{"id":2,"title":"b <x> & y","description":"","deadline":200,"createdAt":100,"expanded":false,"completed":true},{"id":1,"title":"a","description":"d","deadline":300,"createdAt":100,"expanded":true,"completed":false}]`)

	before, _, _ := kv.Get(Key)
	tasks, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := s.SaveAll(tasks); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}
	after, _, _ := kv.Get(Key)

	if before != after {
		t.Errorf("SaveAll(Load()) changed stored content:\nbefore: %s\nafter:  %s", before, after)
	}
}

func TestSaveAllPreservesOrder(t *testing.T) {
	s, _ := newMemoryStore(t, "")
	in := []task.Task{
		{ID: 3, Title: "c", Deadline: 9, CreatedAt: 1},
		{ID: 1, Title: "a", Deadline: 9, CreatedAt: 1},
		{ID: 2, Title: "b", Deadline: 9, CreatedAt: 1},
	}
	if err := s.SaveAll(in); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("position %d = %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestSaveAllReportsStats(t *testing.T) {
	s, _ := newMemoryStore(t, "")
	var got task.Stats
	s.OnSave(func(st task.Stats) { got = st })

	err := s.SaveAll([]task.Task{
		{ID: 1, Deadline: 9, CreatedAt: 1, Completed: true},
		{ID: 2, Deadline: 9, CreatedAt: 1},
		{ID: 3, Deadline: 9, CreatedAt: 1, Completed: true},
	})
	if err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}
	if got.Total != 3 || got.Completed != 2 {
		t.Errorf("stats = %+v, want total 3 completed 2", got)
	}
}

func TestSaveAllEmptyWritesList(t *testing.T) {
	s, kv := newMemoryStore(t, "")
	if err := s.SaveAll(nil); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}
	raw, _, _ := kv.Get(Key)
	if raw != "[]" {
		t.Errorf("stored %q, want []", raw)
	}
}

func TestUpsertNewFindAndDelete(t *testing.T) {
	s, kv := newMemoryStore(t, "")

	for _, tk := range []task.Task{
		{ID: 1, Title: "a", Deadline: 9, CreatedAt: 1},
		{ID: 2, Title: "b", Deadline: 9, CreatedAt: 1},
	} {
		if err := s.UpsertNew(tk); err != nil {
			t.Fatalf("UpsertNew failed: %v", err)
		}
	}

	got, ok, err := s.FindByID(2)
	if err != nil || !ok || got.Title != "b" {
		t.Fatalf("FindByID(2) = %+v, %v, %v", got, ok, err)
	}
	if _, ok, _ := s.FindByID(99); ok {
		t.Error("FindByID(99) should report not found")
	}

	writes := kv.Writes()
	before, _, _ := kv.Get(Key)
	if err := s.DeleteByID(99); err != nil {
		t.Fatalf("DeleteByID(99) failed: %v", err)
	}
	after, _, _ := kv.Get(Key)
	if kv.Writes() != writes || before != after {
		t.Error("deleting an unknown id must not write")
	}

	if err := s.DeleteByID(1); err != nil {
		t.Fatalf("DeleteByID(1) failed: %v", err)
	}
	tasks, _ := s.Load()
	if len(tasks) != 1 || tasks[0].ID != 2 {
		t.Errorf("after delete got %+v", tasks)
	}
}

func TestFileKVRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "tasks.json")
	s := New(NewFileKV(path))

	if err := s.SaveAll([]task.Task{{ID: 1, Title: "write report", Deadline: 9, CreatedAt: 1}}); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}

	reopened := New(NewFileKV(path))
	tasks, err := reopened.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "write report" {
		t.Errorf("round trip got %+v", tasks)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading data file: %v", err)
	}
	if !strings.Contains(string(data), `"tasks"`) {
		t.Errorf("expected tasks key in file, got %s", data)
	}
}

func TestFileKVPreservesOtherKeys(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte(`{"theme":"dark"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	kv := NewFileKV(path)
	if err := kv.Set(Key, "[]"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	theme, ok, err := kv.Get("theme")
	if err != nil || !ok || theme != "dark" {
		t.Errorf("theme = %q, %v, %v; want dark", theme, ok, err)
	}
}

func TestFileKVCorruptContainer(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte("{{{"), 0o600); err != nil {
		t.Fatal(err)
	}

	s := New(NewFileKV(path))
	corrupted := false
	s.OnCorrupt(func(error) { corrupted = true })

	tasks, err := s.Load()
	if err != nil {
		t.Fatalf("Load must absorb a corrupt file: %v", err)
	}
	if len(tasks) != 0 || !corrupted {
		t.Errorf("expected empty collection and a report, got %d tasks, reported=%v", len(tasks), corrupted)
	}

	if err := s.UpsertNew(task.Task{ID: 1, Title: "fresh", Deadline: 9, CreatedAt: 1}); err != nil {
		t.Fatalf("UpsertNew over corrupt file failed: %v", err)
	}
	tasks, _ = s.Load()
	if len(tasks) != 1 {
		t.Errorf("expected the corrupt file to be replaced, got %d tasks", len(tasks))
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "tasks.db")

	s, err := Open(BackendSQLite, path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	in := []task.Task{
		{ID: 2, Title: "b", Deadline: 9, CreatedAt: 1},
		{ID: 1, Title: "a", Description: "notes", Deadline: 9, CreatedAt: 1, Completed: true},
	}
	if err := s.SaveAll(in); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}
	if err := s.SaveAll(in[:1]); err != nil {
		t.Fatalf("second SaveAll failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := Open(BackendSQLite, path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	tasks, err := reopened.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0] != in[0] {
		t.Errorf("got %+v, want only %+v", tasks, in[0])
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("redis", "x"); err == nil {
		t.Error("expected error for unknown backend")
	}
}

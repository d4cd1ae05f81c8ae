package clierr

import (
	"fmt"
	"testing"
)

func TestExitCode(t *testing.T) {
	if got := New(InternalError, "boom").ExitCode(); got != 2 {
		t.Errorf("InternalError exit code = %d, want 2", got)
	}
	if got := New(InvalidTitle, "empty").ExitCode(); got != 1 {
		t.Errorf("InvalidTitle exit code = %d, want 1", got)
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("creating task: %w", Newf(InvalidDeadline, "bad deadline %q", "soon"))

	if !HasCode(err, InvalidTitle, InvalidDeadline) {
		t.Error("expected wrapped INVALID_DEADLINE to match")
	}
	if HasCode(err, TaskNotFound) {
		t.Error("expected TASK_NOT_FOUND not to match")
	}
	if HasCode(fmt.Errorf("plain"), InvalidDeadline) {
		t.Error("plain error must not match any code")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(TaskNotFound, "task not found: #7").WithDetails(map[string]any{"id": int64(7)})
	if err.Details["id"] != int64(7) {
		t.Errorf("details id = %v, want 7", err.Details["id"])
	}
	if err.Error() != "task not found: #7" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestFrom(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", New(InvalidTaskID, "bad id"))
	if got := From(wrapped); got.Code != InvalidTaskID {
		t.Errorf("From(wrapped).Code = %q", got.Code)
	}

	got := From(fmt.Errorf("reading tasks.json: permission denied"))
	if got.Code != InternalError || got.ExitCode() != 2 || got.Message != "reading tasks.json: permission denied" {
		t.Errorf("From(plain) = %+v", got)
	}
}

package cmd

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/deadliner/internal/board"
	"github.com/twiced-technology-gmbh/deadliner/internal/clierr"
)

func TestParseTaskID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"7", 7, false},
		{"#12", 12, false},
		{" 3 ", 3, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := parseTaskID(tt.in)
		if tt.wantErr {
			if !clierr.HasCode(err, clierr.InvalidTaskID) {
				t.Errorf("parseTaskID(%q) err = %v, want INVALID_TASK_ID", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("parseTaskID(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
}

func newEditCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "edit"}
	c.Flags().String("title", "", "")
	c.Flags().String("description", "", "")
	c.Flags().String("deadline", "", "")
	c.Flags().SetNormalizeFunc(normalizeTaskFlags)
	if err := c.Flags().Parse(args); err != nil {
		t.Fatal(err)
	}
	return c
}

func TestEditRequestAliases(t *testing.T) {
	req, err := editRequest(newEditCommand(t, "--desc", "notes", "--due", "+2h"))
	if err != nil {
		t.Fatal(err)
	}
	if req.Title != nil {
		t.Error("title should be untouched")
	}
	if req.Description == nil || *req.Description != "notes" {
		t.Errorf("description = %v", req.Description)
	}
	if req.Deadline == nil || *req.Deadline != "+2h" {
		t.Errorf("deadline = %v", req.Deadline)
	}
}

func TestEditRequestEmptyDescriptionCounts(t *testing.T) {
	req, err := editRequest(newEditCommand(t, "--description="))
	if err != nil {
		t.Fatal(err)
	}
	if req.Description == nil || *req.Description != "" {
		t.Error("an explicit empty description should clear it")
	}
}

func TestEditRequestNoChanges(t *testing.T) {
	_, err := editRequest(newEditCommand(t))
	if !clierr.HasCode(err, clierr.NoChanges) {
		t.Errorf("err = %v, want NO_CHANGES", err)
	}
}

func TestMoveOffset(t *testing.T) {
	tests := []struct {
		args    []string
		want    int
		wantErr bool
	}{
		{[]string{"--up"}, -1, false},
		{[]string{"--down"}, 1, false},
		{[]string{"--by", "-3"}, -3, false},
		{nil, 0, true},
	}
	for _, tt := range tests {
		c := &cobra.Command{Use: "move"}
		c.Flags().Bool("up", false, "")
		c.Flags().Bool("down", false, "")
		c.Flags().Int("by", 0, "")
		if err := c.Flags().Parse(tt.args); err != nil {
			t.Fatal(err)
		}
		got, err := moveOffset(c)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("moveOffset(%v) = %d, %v; want %d", tt.args, got, err, tt.want)
		}
	}
}

func TestStateFlag(t *testing.T) {
	c := &cobra.Command{Use: "list"}
	for _, s := range []string{board.StatePending, board.StateCompleted, board.StateExpired} {
		c.Flags().Bool(s, false, "")
	}
	if got := stateFlag(c); got != "" {
		t.Errorf("no flag: got %q", got)
	}
	if err := c.Flags().Parse([]string{"--expired"}); err != nil {
		t.Fatal(err)
	}
	if got := stateFlag(c); got != board.StateExpired {
		t.Errorf("got %q, want expired", got)
	}
}

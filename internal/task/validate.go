package task

import (
	"strings"

	"github.com/twiced-technology-gmbh/deadliner/internal/clierr"
)

// ValidateTitle trims a title and rejects it when nothing is left.
func ValidateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", clierr.New(clierr.InvalidTitle, "task title must not be empty").
			WithDetails(map[string]any{"input": title})
	}
	return trimmed, nil
}

// ValidateDeadline returns a CLIError for deadline input that could not be parsed.
func ValidateDeadline(input string, err error) *clierr.Error {
	return clierr.Newf(clierr.InvalidDeadline, "invalid deadline: %v", err).
		WithDetails(map[string]any{"input": input})
}

// ValidateTaskID returns a CLIError for invalid task ID input.
func ValidateTaskID(input string) *clierr.Error {
	return clierr.Newf(clierr.InvalidTaskID, "invalid task ID %q", input).
		WithDetails(map[string]any{"input": input})
}

// NotFound returns a CLIError for a task ID absent from the collection.
// The lifecycle itself never returns it; callers that surface misses to the
// user build it from a false "found" result.
func NotFound(id int64) *clierr.Error {
	return clierr.Newf(clierr.TaskNotFound, "task not found: #%d", id).
		WithDetails(map[string]any{"id": id})
}

// IsValidation reports whether err is a rejected title or deadline.
func IsValidation(err error) bool {
	return clierr.HasCode(err, clierr.InvalidTitle, clierr.InvalidDeadline)
}

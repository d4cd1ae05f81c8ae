// Package clierr defines the structured errors the CLI reports. Each carries
// a stable machine-readable code next to its message, so scripts reading
// --json output can branch on the code.
package clierr

import (
	"errors"
	"fmt"
	"strconv"
)

// Error codes. They are part of the JSON output and do not change between
// minor versions.
const (
	TaskNotFound       = "TASK_NOT_FOUND"
	BoardNotFound      = "BOARD_NOT_FOUND"
	BoardAlreadyExists = "BOARD_ALREADY_EXISTS"
	InvalidInput       = "INVALID_INPUT"
	InvalidTitle       = "INVALID_TITLE"
	InvalidDeadline    = "INVALID_DEADLINE"
	InvalidTaskID      = "INVALID_TASK_ID"
	InvalidSortField   = "INVALID_SORT_FIELD"
	NoChanges          = "NO_CHANGES"
	ConfirmationReq    = "CONFIRMATION_REQUIRED"
	StorageCorrupt     = "STORAGE_CORRUPT"
	InternalError      = "INTERNAL_ERROR"
)

const (
	exitFailure  = 1
	exitInternal = 2
)

// Error is a CLI error with a code, a message and optional details.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string { return e.Message }

// New creates an Error.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// WithDetails attaches details and returns e.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode is 2 for internal errors and 1 for everything the user can fix.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return exitInternal
	}
	return exitFailure
}

// From returns the *Error wrapped in err. Anything else, such as a failed
// read of the data file, becomes an INTERNAL_ERROR carrying err's message.
func From(err error) *Error {
	var cliErr *Error
	if errors.As(err, &cliErr) {
		return cliErr
	}
	return New(InternalError, err.Error())
}

// HasCode reports whether err wraps an *Error with one of codes.
func HasCode(err error, codes ...string) bool {
	var cliErr *Error
	if !errors.As(err, &cliErr) {
		return false
	}
	for _, c := range codes {
		if cliErr.Code == c {
			return true
		}
	}
	return false
}

// SilentError carries an exit code for a command that already printed its
// own output, such as a batch with failed items.
type SilentError struct {
	Code int
}

func (e *SilentError) Error() string { return "exit " + strconv.Itoa(e.Code) }

// Package activity keeps an append-only JSON-lines log of task mutations next
// to the config file.
package activity

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// FileName is the log file inside the deadliner directory.
	FileName = "activity.jsonl"
	fileMode = 0o600
)

// maxEntries is the number of most recent entries kept after each append.
var maxEntries = 10000

// Entry is one line of the activity log.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	TaskID    int64     `json:"task_id,omitempty"`
	Detail    string    `json:"detail"`
}

// Append writes entry to the log in dir, truncating the oldest entries once
// the log grows past its cap.
func Append(dir string, entry Entry) error {
	path := filepath.Join(dir, FileName)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, fileMode) //nolint:gosec // log path from trusted config dir
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling log entry: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing log entry: %w", err)
	}

	// Best-effort; a failed truncation leaves a longer log.
	_ = truncate(path)

	return nil
}

// Read returns the entries in the log in dir, oldest first. Lines that do not
// parse are skipped.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dir, FileName)) //nolint:gosec // trusted path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		if json.Unmarshal(scanner.Bytes(), &e) == nil {
			entries = append(entries, e)
		}
	}
	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("reading log file: %w", err)
	}
	return entries, nil
}

func truncate(path string) error {
	f, err := os.Open(path) //nolint:gosec // trusted path
	if err != nil {
		return err
	}

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	_ = f.Close()

	if err := scanner.Err(); err != nil {
		return err
	}
	if len(lines) <= maxEntries {
		return nil
	}

	lines = lines[len(lines)-maxEntries:]

	var buf strings.Builder
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(buf.String()), fileMode)
}

// Logger appends mutations for one directory. Errors are discarded because
// logging should never fail a command.
type Logger struct {
	dir string
	now func() time.Time
}

// NewLogger returns a Logger writing to dir.
func NewLogger(dir string) *Logger {
	return &Logger{dir: dir, now: time.Now}
}

// Mutation records a committed task change. Its signature matches the
// lifecycle's log callback.
func (l *Logger) Mutation(action string, id int64, detail string) {
	_ = Append(l.dir, Entry{Timestamp: l.now(), Action: action, TaskID: id, Detail: detail})
}

// Corrupt records a repair made while loading stored tasks.
func (l *Logger) Corrupt(err error) {
	_ = Append(l.dir, Entry{Timestamp: l.now(), Action: "corrupt", Detail: err.Error()})
}

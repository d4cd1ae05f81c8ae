// Package output renders tasks for the CLI as a table, compact lines or JSON.
package output

import (
	"os"
	"strings"
)

// EnvFormat names the environment variable that selects the default format.
const EnvFormat = "DEADLINER_OUTPUT"

// Format is an output format.
type Format int

// Formats. The zero value is a table.
const (
	FormatTable Format = iota
	FormatJSON
	FormatCompact
)

var formatNames = map[string]Format{
	"table":   FormatTable,
	"json":    FormatJSON,
	"compact": FormatCompact,
	"oneline": FormatCompact,
}

// ParseFormat looks up a format by name, ignoring case and surrounding space.
func ParseFormat(name string) (Format, bool) {
	f, ok := formatNames[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// String returns the canonical name of f.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatCompact:
		return "compact"
	default:
		return "table"
	}
}

// Detect picks the format from flags, then from $DEADLINER_OUTPUT, then
// falls back to a table. --json beats --compact beats --table.
func Detect(jsonFlag, tableFlag, compactFlag bool) Format {
	switch {
	case jsonFlag:
		return FormatJSON
	case compactFlag:
		return FormatCompact
	case tableFlag:
		return FormatTable
	}
	if f, ok := ParseFormat(os.Getenv(EnvFormat)); ok {
		return f
	}
	return FormatTable
}

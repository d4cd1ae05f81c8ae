// Package date converts between user-entered deadlines, epoch milliseconds
// and display strings.
package date

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DisplayFormat is the layout used when a deadline is shown to the user.
const DisplayFormat = "Jan 2, 03:04 PM"

const (
	day  = 24 * time.Hour
	week = 7 * day
)

// absoluteLayouts are tried in order for non-relative input.
var absoluteLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ErrEmpty is returned when no deadline was given.
var ErrEmpty = errors.New("deadline is required")

// Millis returns t as epoch milliseconds.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis returns the instant for epoch milliseconds ms in loc.
func FromMillis(ms int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ms).In(loc)
}

// Format renders epoch milliseconds with DisplayFormat, e.g. "Mar 7, 05:30 PM".
func Format(ms int64, loc *time.Location) string {
	return FromMillis(ms, loc).Format(DisplayFormat)
}

// FormatInput renders epoch milliseconds in the primary input layout so it
// can be offered back to the user for editing.
func FormatInput(ms int64, loc *time.Location) string {
	return FromMillis(ms, loc).Format(absoluteLayouts[0])
}

// Parse interprets a deadline entered by the user.
//
// Accepted forms:
//   - "2006-01-02 15:04", "2006-01-02T15:04" (with optional seconds)
//   - RFC 3339
//   - "2006-01-02" (23:59 on that day)
//   - relative: "+90m", "+2h", "+3d", "+1w", "in 2h"
//
// Absolute forms without a zone are read in loc. Relative forms are added to now.
func Parse(input string, now time.Time, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, ErrEmpty
	}
	if loc == nil {
		loc = time.Local
	}

	if rel, ok := relativeSpec(s); ok {
		d, err := ParseDuration(rel)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid relative deadline %q: %w", input, err)
		}
		t := now.Add(d)
		if !t.After(now) {
			return time.Time{}, fmt.Errorf("relative deadline %q is out of range", input)
		}
		return t, nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t.Add(day - time.Minute), nil
	}

	return time.Time{}, fmt.Errorf("invalid deadline %q: expected YYYY-MM-DD HH:MM or +DURATION", input)
}

// relativeSpec strips a "+" or "in " prefix and reports whether s is relative.
func relativeSpec(s string) (string, bool) {
	switch {
	case strings.HasPrefix(s, "+"):
		return strings.TrimSpace(s[1:]), true
	case strings.HasPrefix(strings.ToLower(s), "in "):
		return strings.TrimSpace(s[3:]), true
	}
	return "", false
}

// ParseDuration extends time.ParseDuration with whole-number "d" (24h) and
// "w" (7d) suffixes, e.g. "3d" or "1w". Mixed forms like "1d12h" are not
// supported; use "36h" instead.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty duration")
	}

	unit := time.Duration(0)
	switch {
	case strings.HasSuffix(s, "d"):
		unit = day
	case strings.HasSuffix(s, "w"):
		unit = week
	}
	if unit != 0 {
		n, err := strconv.Atoi(s[:len(s)-1])
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		if n <= 0 {
			return 0, fmt.Errorf("duration %q must be positive", s)
		}
		if int64(n) > math.MaxInt64/int64(unit) {
			return 0, fmt.Errorf("duration %q is too large", s)
		}
		return time.Duration(n) * unit, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", s)
	}
	return d, nil
}

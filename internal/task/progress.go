package task

import (
	"math"
	"strconv"
	"time"
)

// Labels produced by Compute outside the counting-down state.
const (
	LabelNoDeadline = "No deadline"
	LabelExpired    = "Expired!"
)

const (
	msPerMinute = int64(time.Minute / time.Millisecond)
	msPerHour   = int64(time.Hour / time.Millisecond)
	msPerDay    = 24 * msPerHour
)

// Progress is the derived deadline state of a task at a point in time.
type Progress struct {
	Percent float64 `json:"progress"`
	Label   string  `json:"remaining"`
	Expired bool    `json:"expired"`
}

// Compute derives the progress of t toward its deadline at now. It is a pure
// function of its inputs.
//
// Percent is the elapsed share of [CreatedAt, Deadline], clamped to [0,100].
// A task whose deadline is not after its creation time reads 100 until it
// expires.
func Compute(t Task, now time.Time) Progress {
	if t.Deadline == 0 || t.CreatedAt == 0 {
		return Progress{Percent: 0, Label: LabelNoDeadline}
	}

	nowMS := now.UnixMilli()
	timeLeft := t.Deadline - nowMS
	if timeLeft <= 0 {
		return Progress{Percent: 100, Label: LabelExpired, Expired: true} //nolint:mnd // full bar
	}

	return Progress{
		Percent: percent(nowMS-t.CreatedAt, t.Deadline-t.CreatedAt),
		Label:   RemainingLabel(timeLeft),
	}
}

func percent(passed, total int64) float64 {
	if total <= 0 {
		return 100 //nolint:mnd // already due
	}
	p := float64(passed) / float64(total) * 100 //nolint:mnd // percent
	switch {
	case math.IsNaN(p) || math.IsInf(p, 0):
		return 100 //nolint:mnd // already due
	case p < 0:
		return 0
	case p > 100: //nolint:mnd // percent
		return 100 //nolint:mnd // percent
	}
	return p
}

// RemainingLabel formats a positive number of milliseconds left with fixed
// 24h days: "Left: 1d 1h", "Left: 1h 1m" or "Left: 1m".
func RemainingLabel(timeLeft int64) string {
	days := timeLeft / msPerDay
	hours := timeLeft % msPerDay / msPerHour
	minutes := timeLeft % msPerHour / msPerMinute

	switch {
	case days > 0:
		return "Left: " + strconv.FormatInt(days, 10) + "d " + strconv.FormatInt(hours, 10) + "h"
	case hours > 0:
		return "Left: " + strconv.FormatInt(hours, 10) + "h " + strconv.FormatInt(minutes, 10) + "m"
	default:
		return "Left: " + strconv.FormatInt(minutes, 10) + "m"
	}
}

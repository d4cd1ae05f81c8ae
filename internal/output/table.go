package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/twiced-technology-gmbh/deadliner/internal/board"
	"github.com/twiced-technology-gmbh/deadliner/internal/date"
)

const (
	defaultBarWidth = 20
	maxTitle        = 40
	markdownWidth   = 80
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	expiredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))

	colorEnabled  = true
	barWidth      = defaultBarWidth
	gradientStart = "#5A56E0"
	gradientEnd   = "#EE6FF8"
)

// DisableColor strips all styling from table output, including progress bars
// and rendered markdown.
func DisableColor() {
	colorEnabled = false
	lipgloss.SetColorProfile(termenv.Ascii)
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	doneStyle = lipgloss.NewStyle()
	expiredStyle = lipgloss.NewStyle()
	labelStyle = lipgloss.NewStyle()
}

// SetProgressStyle configures the bar drawn in table and detail output.
func SetProgressStyle(width int, start, end, expired string) {
	if width > 0 {
		barWidth = width
	}
	if start != "" && end != "" {
		gradientStart, gradientEnd = start, end
	}
	if expired != "" && colorEnabled {
		expiredStyle = expiredStyle.Foreground(lipgloss.Color(expired))
	}
}

// ProgressBar renders percent (0-100) as a bar of the configured width.
func ProgressBar(percent float64) string {
	opts := []progress.Option{
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	}
	if colorEnabled {
		opts = append(opts, progress.WithGradient(gradientStart, gradientEnd))
	} else {
		opts = append(opts, progress.WithColorProfile(termenv.Ascii))
	}
	bar := progress.New(opts...)
	return bar.ViewAs(percent / 100) //nolint:mnd // percent to ratio
}

// TaskTable renders rows as a formatted table.
func TaskTable(w io.Writer, rows []board.Row, loc *time.Location) {
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	const pad = 2
	idW, titleW, leftW := 4, 7, 11
	for _, r := range rows {
		idW = max(idW, len(strconv.FormatInt(r.ID, 10))+pad)
		titleW = max(titleW, min(lipgloss.Width(r.Title)+pad, maxTitle+pad))
		leftW = max(leftW, len(r.Label)+pad)
	}
	const doneW = 6
	progW := barWidth + 6 //nolint:mnd // bar plus percentage

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %s",
		idW, "ID", doneW, "DONE", titleW, "TITLE", progW, "PROGRESS", leftW, "REMAINING", "DEADLINE")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, r := range rows {
		done := dimStyle.Render("[ ]")
		if r.Completed {
			done = doneStyle.Render("[x]")
		}
		prog := ProgressBar(r.Percent) + fmt.Sprintf(" %3.0f%%", r.Percent)

		row := fmt.Sprintf("%-*d %s %s %s %s %s",
			idW, r.ID,
			padRight(done, doneW),
			padRight(truncate(r.Title, maxTitle), titleW),
			padRight(prog, progW),
			padRight(remaining(r), leftW),
			date.Format(r.Deadline, loc))
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single row with full detail. The description is
// rendered as markdown.
func TaskDetail(w io.Writer, r board.Row, loc *time.Location) {
	titleLine := fmt.Sprintf("Task #%d: %s", r.ID, r.Title)
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	state := "pending"
	if r.Completed {
		state = doneStyle.Render("completed")
	}
	printField(w, "Status", state)
	printField(w, "Progress", ProgressBar(r.Percent)+fmt.Sprintf(" %.1f%%", r.Percent))
	printField(w, "Remaining", remaining(r))
	printField(w, "Deadline", date.Format(r.Deadline, loc))
	printField(w, "Created", date.Format(r.CreatedAt, loc))
	if r.Deadline > r.CreatedAt && r.CreatedAt != 0 {
		span := time.Duration(r.Deadline-r.CreatedAt) * time.Millisecond
		printField(w, "Window", FormatDuration(span))
	}

	if r.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, RenderMarkdown(r.Description))
	}
}

// RenderMarkdown renders md for the terminal, falling back to the raw text
// when rendering fails.
func RenderMarkdown(md string) string {
	style := glamour.WithAutoStyle()
	if !colorEnabled {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(markdownWidth))
	if err != nil {
		return md + "\n"
	}
	out, err := r.Render(md)
	if err != nil {
		return md + "\n"
	}
	return out
}

// OverviewTable renders summary counts as a small dashboard.
func OverviewTable(w io.Writer, o board.Overview, loc *time.Location) {
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render("Deadlines"))
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-12s %6s", "STATE", "COUNT")))

	fmt.Fprintf(w, "%-12s %6d\n", "total", o.Total)
	fmt.Fprintf(w, "%s %6d\n", padRight(doneStyle.Render("completed"), 12), o.Completed) //nolint:mnd // column width
	fmt.Fprintf(w, "%-12s %6d\n", "pending", o.Pending)
	fmt.Fprintf(w, "%s %6d\n", padRight(expiredStyle.Render("expired"), 12), o.Expired) //nolint:mnd // column width

	if o.Next != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Next: #%d %s (%s, %s)\n",
			o.Next.ID, o.Next.Title, date.Format(o.Next.Deadline, loc), labelStyle.Render(o.Next.Label))
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// FormatDuration renders a duration as human-readable "Xd Yh" or "Xh Ym".
func FormatDuration(d time.Duration) string {
	const hoursPerDay = 24
	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	if days > 0 {
		return strconv.Itoa(days) + "d " + strconv.Itoa(hours) + "h"
	}
	minutes := int(d.Minutes()) % 60 //nolint:mnd // 60 minutes per hour
	return strconv.Itoa(hours) + "h " + strconv.Itoa(minutes) + "m"
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func remaining(r board.Row) string {
	switch {
	case r.Completed:
		return dimStyle.Render(r.Label)
	case r.Expired:
		return expiredStyle.Render(r.Label)
	default:
		return labelStyle.Render(r.Label)
	}
}

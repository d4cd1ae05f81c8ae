package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/deadliner/internal/date"
	"github.com/twiced-technology-gmbh/deadliner/internal/task"
)

const (
	maxDescriptionLines = 6
	maxCardWidth        = 100
	cardChrome          = 4 // border (2) + padding (2)
)

// --- Styles ---

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeCardStyle = cardStyle.BorderForeground(lipgloss.Color("226"))

	doneTitleStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("241"))
	titleStyle     = lipgloss.NewStyle().Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2) //nolint:mnd // dialog padding
)

func newBar(opts Options) progress.Model {
	barOpts := []progress.Option{progress.WithWidth(opts.ProgressWidth), progress.WithoutPercentage()}
	if opts.GradientStart != "" && opts.GradientEnd != "" {
		barOpts = append(barOpts, progress.WithGradient(opts.GradientStart, opts.GradientEnd))
	} else {
		barOpts = append(barOpts, progress.WithDefaultGradient())
	}
	return progress.New(barOpts...)
}

func newExpiredBar(opts Options) progress.Model {
	color := opts.ExpiredColor
	if color == "" {
		color = "196"
	}
	return progress.New(
		progress.WithWidth(opts.ProgressWidth),
		progress.WithoutPercentage(),
		progress.WithSolidFill(color),
	)
}

func (b *Board) expiredStyle() lipgloss.Style {
	color := b.opts.ExpiredColor
	if color == "" {
		color = "196"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}

// --- Layout ---

func (b *Board) chromeHeight() int {
	h := listChrome
	if b.err != nil {
		h += errorChrome
	}
	return h
}

func (b *Board) cardWidth() int {
	if b.width == 0 {
		return 60 //nolint:mnd // default card width
	}
	return min(b.width, maxCardWidth)
}

func (b *Board) cardHeight(t task.Task) int {
	return len(b.cardContentLines(t, b.cardWidth())) + 2 //nolint:mnd // top and bottom borders
}

// visibleRange returns the half-open index range of cards that fit on screen
// starting at the scroll offset.
func (b *Board) visibleRange() (int, int) {
	start := min(b.scrollOff, len(b.tasks))
	if b.height == 0 {
		return start, len(b.tasks)
	}

	budget := b.height - b.chromeHeight()
	used, end := 0, start
	for end < len(b.tasks) {
		h := b.cardHeight(b.tasks[end])
		if end > start && used+h > budget {
			break
		}
		used += h
		end++
	}
	return start, end
}

// visibleIDs returns the ids of the cards currently on screen. It is the
// refresh loop's notion of what is visible.
func (b *Board) visibleIDs() []int64 {
	start, end := b.visibleRange()
	return task.IDs(b.tasks[start:end])
}

// ensureVisible adjusts the scroll offset so the cursor is on screen.
func (b *Board) ensureVisible() {
	if b.cursor < b.scrollOff {
		b.scrollOff = b.cursor
		return
	}
	for b.scrollOff < b.cursor {
		if _, end := b.visibleRange(); b.cursor < end {
			return
		}
		b.scrollOff++
	}
}

// --- View rendering ---

func (b *Board) viewList() string {
	stats := task.CountStats(b.tasks)
	header := headerStyle.Render(fmt.Sprintf("Deadliner  %d/%d done", stats.Completed, stats.Total))

	var body string
	if len(b.tasks) == 0 {
		body = dimStyle.Render("  No tasks yet. Press a to add one.")
	} else {
		start, end := b.visibleRange()
		cards := make([]string, 0, end-start+2) //nolint:mnd // scroll indicators
		if start > 0 {
			cards = append(cards, dimStyle.Render(fmt.Sprintf("  ↑ %d more", start)))
		}
		for i := start; i < end; i++ {
			cards = append(cards, b.renderCard(b.tasks[i], i == b.cursor))
		}
		if end < len(b.tasks) {
			cards = append(cards, dimStyle.Render(fmt.Sprintf("  ↓ %d more", len(b.tasks)-end)))
		}
		body = lipgloss.JoinVertical(lipgloss.Left, cards...)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, "", b.renderStatusBar())
}

func (b *Board) renderCard(t task.Task, active bool) string {
	style := cardStyle
	if b.progress[t.ID].Expired && !t.Completed {
		style = cardStyle.BorderForeground(b.expiredStyle().GetForeground())
	}
	if active {
		style = activeCardStyle
	}
	content := strings.Join(b.cardContentLines(t, b.cardWidth()), "\n")
	return style.Width(b.cardWidth() - 2).Render(content) //nolint:mnd // border width
}

func (b *Board) cardContentLines(t task.Task, width int) []string {
	inner := max(width-cardChrome, 1)

	check := "[ ] "
	ts := titleStyle
	if t.Completed {
		check = "[x] "
		ts = doneTitleStyle
	}
	lines := []string{check + ts.Render(truncate(t.Title, inner-len(check)))}

	if t.Expanded && t.Description != "" {
		for _, line := range wrap(t.Description, inner, maxDescriptionLines) {
			lines = append(lines, dimStyle.Render(line))
		}
	}

	p := b.progress[t.ID]
	bar := b.bar
	label := labelStyle.Render(p.Label)
	if p.Expired {
		bar = b.expiredBar
		label = b.expiredStyle().Render(p.Label)
	}
	lines = append(lines,
		bar.ViewAs(p.Percent/100)+fmt.Sprintf(" %3.0f%%", p.Percent), //nolint:mnd // percent to ratio
		label+dimStyle.Render("  due "+date.Format(t.Deadline, b.opts.Location)),
	)
	return lines
}

func (b *Board) renderStatusBar() string {
	help := make([]string, 0, len(b.keys.shortHelp()))
	for _, k := range b.keys.shortHelp() {
		help = append(help, k.Help().Key+":"+k.Help().Desc)
	}
	status := truncate(" "+strings.Join(help, " "), max(b.width, 4)) //nolint:mnd // truncate minimum

	if b.err != nil {
		errStr := errorStyle.Render(truncate("Error: "+b.err.Error(), max(b.width, 4))) //nolint:mnd // truncate minimum
		return errStr + "\n" + statusBarStyle.Render(status)
	}
	return statusBarStyle.Render(status)
}

func (b *Board) viewDeleteConfirm() string {
	content := errorStyle.Render("Delete task?") + "\n\n" +
		fmt.Sprintf("  #%d: %s", b.deleteID, b.deleteTitle) + "\n\n" +
		dimStyle.Render("y:yes  n:no")

	return dialogStyle.Render(content)
}

func (b *Board) viewForm() string {
	heading := "New task"
	if b.form.editing {
		heading = fmt.Sprintf("Edit task #%d", b.form.id)
	}

	lines := []string{titleStyle.Render(heading), ""}
	for i, in := range b.form.inputs {
		label := fieldLabels[i]
		if i == b.form.focus {
			label = labelStyle.Render("> " + label)
		} else {
			label = "  " + label
		}
		lines = append(lines, label, "  "+in.View(), "")
	}
	if b.form.err != nil {
		lines = append(lines, errorStyle.Render(b.form.err.Error()), "")
	}
	lines = append(lines, dimStyle.Render("tab:next  enter:save  esc:cancel"))

	return dialogStyle.Render(strings.Join(lines, "\n"))
}

// wrap splits s across at most maxLines lines of width, word-wrapping at
// spaces and honouring explicit newlines.
func wrap(s string, width, maxLines int) []string {
	var lines []string
	for _, para := range strings.Split(strings.TrimSpace(s), "\n") {
		words := strings.Fields(para)
		var current strings.Builder
		for _, word := range words {
			if current.Len() > 0 && lipgloss.Width(current.String())+1+lipgloss.Width(word) > width {
				lines = append(lines, truncate(current.String(), width))
				current.Reset()
			}
			if current.Len() > 0 {
				current.WriteByte(' ')
			}
			current.WriteString(word)
		}
		lines = append(lines, truncate(current.String(), width))
	}

	if len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = truncate(lines[maxLines-1]+" ...", width)
	}
	return lines
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	// Slice by runes to avoid breaking multi-byte UTF-8 characters.
	runes := []rune(s)
	target := min(maxLen-3, len(runes)) //nolint:mnd // room for "..."
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}

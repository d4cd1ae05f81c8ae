// Package tui implements the interactive task list.
package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/deadliner/internal/refresh"
	"github.com/twiced-technology-gmbh/deadliner/internal/task"
)

// view represents the current screen state.
type view int

const (
	viewList view = iota
	viewForm
	viewConfirmDelete
)

const (
	keyEsc = "esc"

	listChrome  = 3 // header line, blank line and status bar
	errorChrome = 1 // extra line when an error is displayed
)

// Options wires a Board to storage and display settings.
type Options struct {
	Lifecycle *task.Lifecycle
	Load      func() ([]task.Task, error)
	Location  *time.Location

	RefreshInterval time.Duration
	ProgressWidth   int
	GradientStart   string
	GradientEnd     string
	ExpiredColor    string

	// WatchPaths are the files whose changes should trigger a reload.
	WatchPaths []string
}

// Board is the top-level bubbletea model: a vertical list of task cards.
type Board struct {
	lc   *task.Lifecycle
	load func() ([]task.Task, error)
	loop *refresh.Loop
	opts Options

	tasks    []task.Task
	progress map[int64]task.Progress

	cursor    int
	scrollOff int
	view      view
	width     int
	height    int
	err       error
	now       func() time.Time

	bar        progress.Model
	expiredBar progress.Model
	form       form
	keys       keyMap

	// Delete confirmation.
	deleteID    int64
	deleteTitle string
}

// NewBoard creates a Board and loads the current collection.
func NewBoard(opts Options) *Board {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = refresh.DefaultInterval
	}
	if opts.ProgressWidth <= 0 {
		opts.ProgressWidth = 40 //nolint:mnd // default bar width
	}

	b := &Board{
		lc:       opts.Lifecycle,
		load:     opts.Load,
		opts:     opts,
		now:      time.Now,
		progress: map[int64]task.Progress{},
		keys:     newKeyMap(),
	}
	b.bar = newBar(opts)
	b.expiredBar = newExpiredBar(opts)
	b.loop = &refresh.Loop{
		Load:    opts.Load,
		Visible: b.visibleIDs,
		Report:  b.applyUpdates,
		OnError: func(err error) { b.err = err },
	}
	b.reload()
	return b
}

// SetNow overrides the clock used for progress (for testing).
func (b *Board) SetNow(fn func() time.Time) {
	b.now = fn
	b.recompute()
}

// WatchPaths returns the files that should be watched for changes.
func (b *Board) WatchPaths() []string {
	return b.opts.WatchPaths
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return tea.Batch(b.tickCmd(), tea.SetWindowTitle(windowTitle(task.CountStats(b.tasks))))
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.ensureVisible()
		return b, nil
	case ReloadMsg:
		b.reload()
		return b, nil
	case TickMsg:
		b.loop.Tick(b.now())
		return b, b.tickCmd()
	case StatsMsg:
		return b, tea.SetWindowTitle(windowTitle(task.Stats(msg)))
	case errMsg:
		b.err = msg.err
		return b, nil
	}
	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.width == 0 {
		return "Loading..."
	}

	switch b.view {
	case viewForm:
		return b.viewForm()
	case viewConfirmDelete:
		return b.viewDeleteConfirm()
	default:
		return b.viewList()
	}
}

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, b.keys.ForceQuit) {
		return b, tea.Quit
	}

	switch b.view {
	case viewForm:
		return b.handleFormKey(msg)
	case viewConfirmDelete:
		return b.handleDeleteKey(msg)
	default:
		return b.handleListKey(msg)
	}
}

func (b *Board) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keys.Quit):
		return b, tea.Quit
	case key.Matches(msg, b.keys.Down):
		if b.cursor < len(b.tasks)-1 {
			b.cursor++
			b.ensureVisible()
		}
	case key.Matches(msg, b.keys.Up):
		if b.cursor > 0 {
			b.cursor--
			b.ensureVisible()
		}
	case key.Matches(msg, b.keys.MoveDown):
		b.moveSelected(1)
	case key.Matches(msg, b.keys.MoveUp):
		b.moveSelected(-1)
	case key.Matches(msg, b.keys.Toggle):
		if t := b.selected(); t != nil {
			_, _, err := b.lc.ToggleCompletion(t.ID)
			b.afterMutation(err)
		}
	case key.Matches(msg, b.keys.Expand):
		if t := b.selected(); t != nil {
			_, _, err := b.lc.SetExpanded(t.ID, !t.Expanded)
			b.afterMutation(err)
		}
	case key.Matches(msg, b.keys.Add):
		b.form = newAddForm()
		b.view = viewForm
		return b, b.form.focusCmd()
	case key.Matches(msg, b.keys.Edit):
		if t := b.selected(); t != nil {
			b.form = newEditForm(*t, b.opts.Location)
			b.view = viewForm
			return b, b.form.focusCmd()
		}
	case key.Matches(msg, b.keys.Delete):
		if t := b.selected(); t != nil {
			b.deleteID = t.ID
			b.deleteTitle = t.Title
			b.view = viewConfirmDelete
		}
	case key.Matches(msg, b.keys.Reload):
		b.reload()
	}
	return b, nil
}

func (b *Board) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		_, _, err := b.lc.Delete(b.deleteID)
		b.view = viewList
		b.afterMutation(err)
	case "n", "N", keyEsc, "q":
		b.view = viewList
	}
	return b, nil
}

func (b *Board) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		b.view = viewList
		return b, nil
	case "tab", "down":
		return b, b.form.next()
	case "shift+tab", "up":
		return b, b.form.prev()
	case "enter":
		return b, b.submitForm()
	}
	return b, b.form.update(msg)
}

// submitForm applies the form through the lifecycle. A rejected title or
// deadline keeps the form open with the error shown.
func (b *Board) submitForm() tea.Cmd {
	var (
		id  int64
		err error
	)
	title, desc, deadline := b.form.title(), b.form.description(), b.form.deadline()
	if b.form.editing {
		id = b.form.id
		req := task.EditRequest{Title: &title, Description: &desc}
		if b.form.deadlineChanged() {
			req.Deadline = &deadline
		}
		_, _, err = b.lc.Edit(id, req)
	} else {
		var created task.Task
		created, err = b.lc.CreateWithDescription(title, desc, deadline)
		id = created.ID
	}

	if task.IsValidation(err) {
		b.form.err = err
		return nil
	}
	b.view = viewList
	b.afterMutation(err)
	if err == nil {
		b.selectID(id)
	}
	return nil
}

func (b *Board) moveSelected(offset int) {
	t := b.selected()
	if t == nil {
		return
	}
	id := t.ID
	_, err := b.lc.Move(id, offset)
	b.afterMutation(err)
	b.selectID(id)
}

func (b *Board) afterMutation(err error) {
	if err != nil {
		b.err = err
		return
	}
	b.reload()
}

// reload reads the collection and recomputes every card's progress.
func (b *Board) reload() {
	tasks, err := b.load()
	if err != nil {
		b.err = err
		return
	}
	b.err = nil
	b.tasks = tasks
	b.recompute()
	b.clampCursor()
}

func (b *Board) recompute() {
	for _, u := range refresh.Pass(b.tasks, task.IDs(b.tasks), b.now()) {
		b.progress[u.ID] = u.Progress
	}
}

// applyUpdates stores one refresh pass. Updates for ids that were removed
// since the last reload are ignored.
func (b *Board) applyUpdates(updates []refresh.Update) {
	for _, u := range updates {
		if task.IndexOf(b.tasks, u.ID) >= 0 {
			b.progress[u.ID] = u.Progress
		}
	}
}

func (b *Board) selected() *task.Task {
	if b.cursor >= 0 && b.cursor < len(b.tasks) {
		return &b.tasks[b.cursor]
	}
	return nil
}

func (b *Board) selectID(id int64) {
	if i := task.IndexOf(b.tasks, id); i >= 0 {
		b.cursor = i
		b.ensureVisible()
	}
}

func (b *Board) clampCursor() {
	if b.cursor >= len(b.tasks) {
		b.cursor = len(b.tasks) - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
	b.ensureVisible()
}

// --- Messages ---

// ReloadMsg is sent by the file watcher to trigger a reload.
type ReloadMsg struct{}

type errMsg struct{ err error }

// ErrMsg wraps err for delivery to a running program.
func ErrMsg(err error) tea.Msg {
	if err == nil {
		err = errors.New("unknown error")
	}
	return errMsg{err: err}
}

// StatsMsg carries the counts reported by the store after a save.
type StatsMsg task.Stats

func windowTitle(s task.Stats) string {
	return fmt.Sprintf("deadliner %d/%d", s.Completed, s.Total)
}

// TickMsg drives the periodic progress refresh.
type TickMsg struct{}

func (b *Board) tickCmd() tea.Cmd {
	return tea.Tick(b.opts.RefreshInterval, func(time.Time) tea.Msg { return TickMsg{} })
}

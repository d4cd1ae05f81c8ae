package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/deadliner/internal/date"
	"github.com/twiced-technology-gmbh/deadliner/internal/task"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldDeadline
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Description", "Deadline"}

// form is the add/edit dialog.
type form struct {
	inputs  [fieldCount]textinput.Model
	focus   int
	editing bool
	id      int64
	err     error

	// prefilled is the deadline text an edit form opened with.
	prefilled string
}

func newForm() form {
	var f form
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 500 //nolint:mnd // generous single-line limit
		f.inputs[i] = in
	}
	f.inputs[fieldTitle].Placeholder = "What needs doing?"
	f.inputs[fieldDescription].Placeholder = "optional, markdown"
	f.inputs[fieldDeadline].Placeholder = "YYYY-MM-DD HH:MM, YYYY-MM-DD or +2h / +3d"
	f.inputs[fieldTitle].Focus()
	return f
}

func newAddForm() form {
	return newForm()
}

func newEditForm(t task.Task, loc *time.Location) form {
	f := newForm()
	f.editing = true
	f.id = t.ID
	f.inputs[fieldTitle].SetValue(t.Title)
	f.inputs[fieldDescription].SetValue(t.Description)
	f.prefilled = date.FormatInput(t.Deadline, loc)
	f.inputs[fieldDeadline].SetValue(f.prefilled)
	return f
}

func (f *form) title() string       { return f.inputs[fieldTitle].Value() }
func (f *form) description() string { return f.inputs[fieldDescription].Value() }
func (f *form) deadline() string    { return f.inputs[fieldDeadline].Value() }

// deadlineChanged reports whether the user edited the deadline field. The
// prefilled text is rounded to the minute, so an untouched field must not be
// parsed back over the stored value.
func (f *form) deadlineChanged() bool {
	return strings.TrimSpace(f.deadline()) != f.prefilled
}

func (f *form) focusCmd() tea.Cmd {
	return textinput.Blink
}

func (f *form) next() tea.Cmd {
	return f.setFocus((f.focus + 1) % fieldCount)
}

func (f *form) prev() tea.Cmd {
	return f.setFocus((f.focus + fieldCount - 1) % fieldCount)
}

func (f *form) setFocus(i int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = i
	return f.inputs[f.focus].Focus()
}

// update forwards a key to the focused input.
func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

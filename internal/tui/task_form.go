package tui

import (
	"strings"
	"time"

	"taskdeck/internal/model"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type formFocus int

const (
	formFocusTitle formFocus = iota
	formFocusDescription
	formFocusCategory
	formFocusPriority
	formFocusDue
	formFocusSave
	formFocusCancel
)

// taskForm is the create/edit form. For edits it is pre-filled from the
// current record; completed is carried through untouched so an edit never
// flips completion as a side effect.
type taskForm struct {
	editingID string // "" means create

	title    textinput.Model
	desc     textarea.Model
	category model.Category
	priority model.Priority
	due      textinput.Model

	completed bool
	focus     formFocus
	busy      bool
	errText   string
}

func newTaskForm(initial *model.Task) *taskForm {
	f := &taskForm{
		category: model.CategoryPersonal,
		priority: model.PriorityMedium,
	}

	f.title = textinput.New()
	f.title.Placeholder = "Enter task title"
	f.title.CharLimit = 200
	f.title.Width = 48

	f.desc = textarea.New()
	f.desc.Placeholder = "Enter task description"
	f.desc.CharLimit = 0
	f.desc.SetWidth(48)
	f.desc.SetHeight(4)
	f.desc.ShowLineNumbers = false

	f.due = textinput.New()
	f.due.Placeholder = "YYYY-MM-DD"
	f.due.CharLimit = 10
	f.due.Width = 12

	if initial != nil {
		f.editingID = initial.ID
		f.title.SetValue(initial.Title)
		f.desc.SetValue(initial.Description)
		f.category = initial.Category
		f.priority = initial.Priority
		f.completed = initial.Completed
		if initial.DueDate != nil {
			f.due.SetValue(initial.DueDate.Format("2006-01-02"))
		}
	}

	f.setFocus(formFocusTitle)
	return f
}

func (f *taskForm) setFocus(fc formFocus) {
	f.focus = fc
	f.title.Blur()
	f.desc.Blur()
	f.due.Blur()
	switch fc {
	case formFocusTitle:
		f.title.Focus()
	case formFocusDescription:
		f.desc.Focus()
	case formFocusDue:
		f.due.Focus()
	}
}

func (f *taskForm) nextFocus(delta int) formFocus {
	order := []formFocus{formFocusTitle, formFocusDescription, formFocusCategory, formFocusPriority, formFocusDue, formFocusSave, formFocusCancel}
	for i, fc := range order {
		if fc == f.focus {
			return order[(i+len(order)+delta)%len(order)]
		}
	}
	return formFocusTitle
}

// fields validates and assembles the submission payload. A validation error
// never reaches the network.
func (f *taskForm) fields() (model.TaskFields, bool) {
	title := strings.TrimSpace(f.title.Value())
	if title == "" {
		f.errText = "Title is required"
		return model.TaskFields{}, false
	}

	var due *time.Time
	if v := strings.TrimSpace(f.due.Value()); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			f.errText = "Due date must be YYYY-MM-DD"
			return model.TaskFields{}, false
		}
		d = d.UTC()
		due = &d
	}

	f.errText = ""
	return model.TaskFields{
		Title:       title,
		Description: f.desc.Value(),
		Category:    f.category,
		Priority:    f.priority,
		DueDate:     due,
		Completed:   f.completed,
	}, true
}

func (m *appModel) openTaskForm(initial *model.Task) {
	m.form = newTaskForm(initial)
	m.modal = modalTaskForm
}

func (m *appModel) closeTaskForm() {
	m.form = nil
	m.modal = modalNone
}

func (m *appModel) submitTaskForm() tea.Cmd {
	f := m.form
	fields, ok := f.fields()
	if !ok {
		return nil
	}
	f.busy = true
	if f.editingID == "" {
		return m.createTaskCmd(fields)
	}
	return m.updateTaskCmd(f.editingID, fields)
}

func (m *appModel) updateTaskFormKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	f := m.form
	if f == nil {
		return false, nil
	}
	if f.busy {
		return true, nil
	}

	switch msg.String() {
	case "esc", "ctrl+g":
		m.closeTaskForm()
		return true, nil
	case "tab":
		f.setFocus(f.nextFocus(1))
		return true, nil
	case "shift+tab":
		f.setFocus(f.nextFocus(-1))
		return true, nil
	}

	switch f.focus {
	case formFocusCategory:
		if cycled, c := cycleChoice(msg, model.Categories(), f.category); cycled {
			f.category = c
			return true, nil
		}
	case formFocusPriority:
		if cycled, p := cycleChoice(msg, model.Priorities(), f.priority); cycled {
			f.priority = p
			return true, nil
		}
	case formFocusSave:
		if msg.String() == "enter" {
			return true, m.submitTaskForm()
		}
	case formFocusCancel:
		if msg.String() == "enter" {
			m.closeTaskForm()
			return true, nil
		}
	}

	// Enter on a text field advances; enter anywhere else already handled.
	if msg.String() == "enter" && f.focus != formFocusDescription {
		f.setFocus(f.nextFocus(1))
		return true, nil
	}

	var cmd tea.Cmd
	switch f.focus {
	case formFocusTitle:
		f.title, cmd = f.title.Update(msg)
	case formFocusDescription:
		f.desc, cmd = f.desc.Update(msg)
	case formFocusDue:
		f.due, cmd = f.due.Update(msg)
	}
	return true, cmd
}

// cycleChoice moves through a fixed option set with space/left/right.
func cycleChoice[T comparable](msg tea.KeyMsg, options []T, cur T) (bool, T) {
	delta := 0
	switch msg.String() {
	case " ", "right":
		delta = 1
	case "left":
		delta = -1
	default:
		return false, cur
	}
	idx := 0
	for i, o := range options {
		if o == cur {
			idx = i
			break
		}
	}
	idx = (idx + len(options) + delta) % len(options)
	return true, options[idx]
}

package tui

import (
	"context"
	"time"

	"taskdeck/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// The dashboard half of the model is the task data controller: it owns the
// task slice, filter criteria and pagination cursor, and mediates every
// mutation through the API client.

func (m *appModel) fetchTasksCmd() tea.Cmd {
	m.fetchSeq++
	seq := m.fetchSeq
	m.loading = true
	svc, st := m.svc, m.st
	filter := m.filter
	page, limit := m.page.Page, m.page.Limit
	return func() tea.Msg {
		return runFetch(svc, st, filter, page, limit, seq)
	}
}

// scheduleFilterRefetch runs on every filter change: the page resets to 1
// synchronously (a changed filter invalidates the old page), then a refetch
// is scheduled behind the debounce window. Only the latest tick survives.
func (m *appModel) scheduleFilterRefetch() tea.Cmd {
	m.page.Page = 1
	m.debounceSeq++
	seq := m.debounceSeq
	return tea.Tick(filterDebounce, func(time.Time) tea.Msg { return filterTickMsg{seq: seq} })
}

func (m *appModel) clearFilters() tea.Cmd {
	m.filter = model.Filter{}
	m.catInput.SetValue("")
	m.priInput.SetValue("")
	m.dueInput.SetValue("")
	m.page.Page = 1
	return m.fetchTasksCmd()
}

func (m *appModel) setPage(page int) tea.Cmd {
	if page < 1 || page == m.page.Page {
		return nil
	}
	if page > m.page.Page && !m.page.HasNext() {
		return nil
	}
	m.page.Page = page
	// Pagination is a direct user action: refetch immediately, no debounce.
	return m.fetchTasksCmd()
}

func (m *appModel) createTaskCmd(fields model.TaskFields) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		task, err := svc.CreateTask(context.Background(), fields)
		return createDoneMsg{task: task, err: err}
	}
}

func (m *appModel) updateTaskCmd(id string, fields model.TaskFields) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		task, err := svc.UpdateTask(context.Background(), id, fields)
		return updateDoneMsg{id: id, task: task, err: err}
	}
}

func (m *appModel) deleteTaskCmd(id string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		err := svc.DeleteTask(context.Background(), id)
		return deleteDoneMsg{id: id, err: err}
	}
}

// toggleCompleteCmd sends the full current record with completed inverted.
func (m *appModel) toggleCompleteCmd(task model.Task) tea.Cmd {
	fields := task.Fields()
	fields.Completed = !fields.Completed
	return m.updateTaskCmd(task.ID, fields)
}

func (m *appModel) selectedTask() (model.Task, bool) {
	it, ok := m.taskList.SelectedItem().(taskItem)
	if !ok {
		return model.Task{}, false
	}
	return it.task, true
}

func (m *appModel) applyTasks(msg tasksMsg) tea.Cmd {
	if msg.seq != m.fetchSeq {
		// A newer fetch superseded this response; applying it would
		// overwrite fresh state with stale results.
		return nil
	}
	m.loading = false
	if msg.err != nil {
		// Keep the previous collection: a transient error must not flash
		// an empty list.
		return m.showMinibuffer("Failed to fetch tasks: " + msg.err.Error())
	}
	m.tasks = msg.page.Tasks
	m.page.Total = msg.page.Total
	m.refreshTaskList()
	return nil
}

func (m *appModel) applyCreate(msg createDoneMsg) tea.Cmd {
	if m.form != nil {
		m.form.busy = false
	}
	if msg.err != nil {
		// List untouched, form stays open so the input is not lost.
		return m.showMinibuffer("Failed to create task: " + msg.err.Error())
	}
	// Optimistic append of the canonical record, then a full refetch to
	// reconcile total and page boundaries.
	m.tasks = append(m.tasks, msg.task)
	m.refreshTaskList()
	m.form = nil
	m.modal = modalNone
	return tea.Batch(
		m.showMinibuffer("Task created successfully!"),
		m.fetchTasksCmd(),
	)
}

func (m *appModel) applyUpdate(msg updateDoneMsg) tea.Cmd {
	if m.form != nil {
		m.form.busy = false
	}
	if msg.err != nil {
		return m.showMinibuffer("Failed to update task: " + msg.err.Error())
	}
	// Adopt the server's record verbatim, never a merge of what we sent.
	for i := range m.tasks {
		if m.tasks[i].ID == msg.id {
			m.tasks[i] = msg.task
			break
		}
	}
	m.refreshTaskList()
	if m.form != nil && m.form.editingID == msg.id {
		m.form = nil
		m.modal = modalNone
	}
	return m.showMinibuffer("Task updated successfully!")
}

func (m *appModel) applyDelete(msg deleteDoneMsg) tea.Cmd {
	if msg.err != nil {
		// The record stays until the server confirms.
		return m.showMinibuffer("Failed to delete task: " + msg.err.Error())
	}
	kept := m.tasks[:0]
	for _, t := range m.tasks {
		if t.ID != msg.id {
			kept = append(kept, t)
		}
	}
	m.tasks = kept
	m.refreshTaskList()
	return m.showMinibuffer("Task deleted successfully!")
}

// updateDashboardKey handles keys while the dashboard is front-most and no
// modal is open.
func (m *appModel) updateDashboardKey(msg tea.KeyMsg) (handled bool, cmd tea.Cmd) {
	if m.focus != focusList {
		return m.updateFilterKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return true, tea.Quit
	case "a":
		m.openTaskForm(nil)
		return true, nil
	case "e", "enter":
		if t, ok := m.selectedTask(); ok {
			m.openTaskForm(&t)
		}
		return true, nil
	case "d":
		if t, ok := m.selectedTask(); ok {
			m.deleteTargetID = t.ID
			m.deleteTitle = t.Title
			m.confirmFocus = confirmFocusCancel
			m.modal = modalConfirmDelete
		}
		return true, nil
	case "x", " ":
		if t, ok := m.selectedTask(); ok {
			return true, m.toggleCompleteCmd(t)
		}
		return true, nil
	case "n", "right":
		return true, m.setPage(m.page.Page + 1)
	case "p", "left":
		return true, m.setPage(m.page.Page - 1)
	case "f", "/":
		m.setDashFocus(focusFilterCategory)
		return true, nil
	case "C":
		return true, m.clearFilters()
	case "R":
		return true, m.fetchTasksCmd()
	case "ctrl+l":
		return true, m.logoutCmd()
	}
	return false, nil
}

// updateFilterKey routes keys to the focused filter field. Any edit resets
// the page synchronously and schedules a debounced refetch.
func (m *appModel) updateFilterKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.setDashFocus(focusList)
		return true, nil
	case "tab":
		m.setDashFocus(m.nextFilterFocus(1))
		return true, nil
	case "shift+tab":
		m.setDashFocus(m.nextFilterFocus(-1))
		return true, nil
	case "enter":
		// Apply right away: the user is done typing.
		m.setDashFocus(focusList)
		m.debounceSeq++
		m.page.Page = 1
		return true, m.fetchTasksCmd()
	}

	if m.focus == focusFilterCompleted {
		if msg.String() == " " || msg.String() == "right" || msg.String() == "left" {
			m.filter.Completed = cycleCompleted(m.filter.Completed, msg.String() != "left")
			return true, m.scheduleFilterRefetch()
		}
		return true, nil
	}

	var input *textinput.Model
	var value *string
	switch m.focus {
	case focusFilterCategory:
		input, value = &m.catInput, &m.filter.Category
	case focusFilterPriority:
		input, value = &m.priInput, &m.filter.Priority
	case focusFilterDue:
		input, value = &m.dueInput, &m.filter.DueDate
	default:
		return false, nil
	}

	before := input.Value()
	var cmd tea.Cmd
	*input, cmd = input.Update(msg)
	after := input.Value()
	*value = after
	if after != before {
		return true, tea.Batch(cmd, m.scheduleFilterRefetch())
	}
	return true, cmd
}

func cycleCompleted(cur string, forward bool) string {
	order := []string{"", "true", "false"}
	idx := 0
	for i, v := range order {
		if v == cur {
			idx = i
			break
		}
	}
	if forward {
		idx = (idx + 1) % len(order)
	} else {
		idx = (idx + len(order) - 1) % len(order)
	}
	return order[idx]
}

func (m *appModel) nextFilterFocus(delta int) dashFocus {
	order := []dashFocus{focusFilterCategory, focusFilterPriority, focusFilterCompleted, focusFilterDue}
	for i, f := range order {
		if f == m.focus {
			return order[(i+len(order)+delta)%len(order)]
		}
	}
	return focusFilterCategory
}

func (m *appModel) setDashFocus(f dashFocus) {
	m.focus = f
	m.catInput.Blur()
	m.priInput.Blur()
	m.dueInput.Blur()
	switch f {
	case focusFilterCategory:
		m.catInput.Focus()
	case focusFilterPriority:
		m.priInput.Focus()
	case focusFilterDue:
		m.dueInput.Focus()
	}
}

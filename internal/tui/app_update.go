package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case connProbeMsg:
		if msg.err != nil {
			return m, m.showMinibuffer("Backend unreachable: " + msg.err.Error())
		}
		return m, nil

	case minibufferClearMsg:
		if msg.seq == m.minibufferSeq {
			m.minibufferText = ""
		}
		return m, nil

	case filterTickMsg:
		// Debounce: only the latest scheduled tick fires; everything else
		// (including ticks scheduled before leaving the dashboard) is a no-op.
		if msg.seq != m.debounceSeq || m.view != viewDashboard {
			return m, nil
		}
		return m, m.fetchTasksCmd()

	case tasksMsg:
		if m.view != viewDashboard {
			return m, nil
		}
		return m, m.applyTasks(msg)

	case loginDoneMsg:
		return m, m.applyLogin(msg)

	case registerDoneMsg:
		return m, m.applyRegister(msg)

	case logoutDoneMsg:
		return m, m.applyLogout(msg)

	case createDoneMsg:
		return m, m.applyCreate(msg)

	case updateDoneMsg:
		return m, m.applyUpdate(msg)

	case deleteDoneMsg:
		return m, m.applyDelete(msg)

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modals swallow input first.
	switch m.modal {
	case modalTaskForm:
		if handled, cmd := m.updateTaskFormKey(msg); handled {
			return m, cmd
		}
	case modalConfirmDelete:
		if handled, cmd := m.updateConfirmDeleteKey(msg); handled {
			return m, cmd
		}
	}

	switch m.view {
	case viewLogin:
		if handled, cmd := m.updateLoginKey(msg); handled {
			return m, cmd
		}
	case viewRegister:
		if handled, cmd := m.updateRegisterKey(msg); handled {
			return m, cmd
		}
	case viewDashboard:
		if handled, cmd := m.updateDashboardKey(msg); handled {
			return m, cmd
		}
		// Unhandled keys drive list navigation.
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *appModel) resize() {
	h := m.height - 10
	if h < 6 {
		h = 6
	}
	w := m.listWidth()
	m.taskList.SetSize(w, h)
}

func (m *appModel) listWidth() int {
	w := m.width
	if m.detailVisible() {
		w = m.width * 3 / 5
	}
	if w < 40 {
		w = 40
	}
	return w
}

func (m appModel) detailVisible() bool {
	return m.width >= 110
}

package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func renderConfirmModal(width int, title string, body string, confirmLabel string, cancelLabel string, focus confirmModalFocus) string {
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm := btnBase.Render(confirmLabel)
	cancel := btnBase.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Render(confirmLabel)
	}
	if focus == confirmFocusCancel {
		cancel = btnActive.Render(cancelLabel)
	}

	sep := lipgloss.NewStyle().Background(colorSurfaceBg).Render(" ")
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, sep, cancel)

	bodyW := modalBodyWidth(width)
	help := styleMuted().Width(bodyW).Render("tab: focus   enter: select   esc: cancel")

	content := strings.Join([]string{
		body,
		"",
		controls,
		"",
		help,
	}, "\n")
	return renderModalBox(width, title, content)
}

func (m *appModel) updateConfirmDeleteKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g", "n":
		m.modal = modalNone
		m.deleteTargetID = ""
		return true, nil
	case "tab", "left", "right", "shift+tab":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
		return true, nil
	case "y":
		return true, m.confirmDelete()
	case "enter":
		if m.confirmFocus == confirmFocusConfirm {
			return true, m.confirmDelete()
		}
		m.modal = modalNone
		m.deleteTargetID = ""
		return true, nil
	}
	return true, nil
}

func (m *appModel) confirmDelete() tea.Cmd {
	id := m.deleteTargetID
	m.modal = modalNone
	m.deleteTargetID = ""
	if id == "" {
		return nil
	}
	return m.deleteTaskCmd(id)
}

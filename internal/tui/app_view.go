package tui

import (
	"fmt"
	"strings"

	"taskdeck/internal/model"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	var body string
	switch m.view {
	case viewLogin:
		body = m.viewLogin()
	case viewRegister:
		body = m.viewRegister()
	case viewDashboard:
		body = m.viewDashboard()
	}

	switch m.modal {
	case modalTaskForm:
		body = m.placeCentered(m.renderTaskForm())
	case modalConfirmDelete:
		body = m.placeCentered(renderConfirmModal(
			m.width,
			"Confirm",
			fmt.Sprintf("Delete %q? This cannot be undone.", m.deleteTitle),
			"Delete", "Cancel",
			m.confirmFocus,
		))
	}

	mini := ""
	if m.minibufferText != "" {
		mini = "\n" + styleMuted().Render(glyphBullet()+" "+m.minibufferText)
	}
	return body + mini
}

func (m appModel) viewLogin() string {
	title := lipgloss.NewStyle().Bold(true).Render("Welcome Back")
	desc := styleMuted().Render("Enter your email or username and password to login")

	btn := "Login"
	if m.loginBusy {
		btn = m.spin.View() + " Logging in..."
	}

	lines := []string{
		title,
		desc,
		"",
		"Email or Username",
		m.loginIdentifier.View(),
		"",
		"Password",
		m.loginPassword.View(),
		"",
		lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(btn),
		"",
		styleMuted().Render("enter: login   ctrl+r: register   ctrl+c: quit"),
	}
	card := lipgloss.NewStyle().Padding(1, 3).Render(strings.Join(lines, "\n"))
	return m.placeCentered(card)
}

func (m appModel) viewRegister() string {
	title := lipgloss.NewStyle().Bold(true).Render("Create Account")

	lines := []string{title, ""}
	for i := range m.regInputs {
		lines = append(lines, regFieldLabels[i], m.regInputs[i].View(), "")
	}

	btn := "Register"
	if m.regBusy {
		btn = m.spin.View() + " Registering..."
	}
	lines = append(lines,
		lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(btn),
		"",
		styleMuted().Render("enter: next/submit   esc: back to login"),
	)
	card := lipgloss.NewStyle().Padding(1, 3).Render(strings.Join(lines, "\n"))
	return m.placeCentered(card)
}

func (m appModel) viewDashboard() string {
	header := lipgloss.NewStyle().Bold(true).Render("Task Dashboard")

	var left string
	if m.loading && len(m.tasks) == 0 {
		left = m.spin.View() + " Loading tasks..."
	} else if len(m.tasks) == 0 {
		left = styleMuted().Render("No tasks found. Create a new task to get started!")
	} else {
		left = m.taskList.View()
	}

	body := left
	if m.detailVisible() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", m.renderDetail())
	}

	sections := []string{
		header,
		m.renderFilterBar(),
		body,
		m.renderFooter(),
	}
	return strings.Join(sections, "\n\n")
}

func (m appModel) renderFilterBar() string {
	completed := "All Status"
	switch m.filter.Completed {
	case "true":
		completed = "Completed"
	case "false":
		completed = "Pending"
	}
	completedCell := completed
	if m.focus == focusFilterCompleted {
		completedCell = lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Render(" " + completed + " ")
	}

	cells := []string{
		m.catInput.View(),
		m.priInput.View(),
		completedCell,
		m.dueInput.View(),
	}
	bar := strings.Join(cells, "   ")

	hint := "f: filters   C: clear filters   a: add   e: edit   d: delete   x: toggle done"
	if m.focus != focusList {
		hint = "tab: next field   enter: apply   esc: back to list"
	}
	return bar + "\n" + styleMuted().Render(hint)
}

func (m appModel) renderFooter() string {
	pages := (m.page.Total + m.page.Limit - 1) / m.page.Limit
	if pages < 1 {
		pages = 1
	}
	pag := fmt.Sprintf("Page %d of %d (%d tasks)", m.page.Page, pages, m.page.Total)
	if m.page.HasPrev() {
		pag = "← " + pag
	}
	if m.page.HasNext() {
		pag = pag + " →"
	}
	if m.loading {
		pag = m.spin.View() + " " + pag
	}
	keys := "p/n: page   R: refresh   ctrl+l: logout   q: quit"
	return pag + "\n" + styleMuted().Render(keys)
}

func (m appModel) renderDetail() string {
	w := m.width - m.listWidth() - 4
	if w < 30 {
		w = 30
	}

	t, ok := m.selectedTask()
	if !ok {
		return lipgloss.NewStyle().Width(w).Render(styleMuted().Render("No task selected."))
	}

	status := "Pending"
	if t.Completed {
		status = "Completed"
	}
	meta := []string{
		lipgloss.NewStyle().Bold(true).Render(t.Title),
		"",
		"Category: " + string(t.Category),
		"Priority: " + priorityStyle(t.Priority).Render(string(t.Priority)),
		"Status:   " + status,
	}
	if t.DueDate != nil {
		meta = append(meta, "Due:      "+formatDueDate(*t.DueDate))
	}
	if desc := strings.TrimSpace(t.Description); desc != "" {
		meta = append(meta, "", renderMarkdown(desc, w))
	}
	return lipgloss.NewStyle().Width(w).Render(strings.Join(meta, "\n"))
}

func (m appModel) renderTaskForm() string {
	f := m.form
	if f == nil {
		return ""
	}

	title := "New Task"
	submit := "Create Task"
	if f.editingID != "" {
		title = "Edit Task"
		submit = "Update Task"
	}
	if f.busy {
		submit = m.spin.View() + " Saving..."
	}

	choice := func(label string, focused bool) string {
		if focused {
			return lipgloss.NewStyle().
				Foreground(colorSelectedFg).
				Background(colorSelectedBg).
				Render(" " + label + " ")
		}
		return " " + label + " "
	}
	btn := func(label string, focused bool) string {
		st := lipgloss.NewStyle().Padding(0, 1).Background(colorControlBg).Foreground(colorSurfaceFg)
		if focused {
			st = st.Background(colorSelectedBg).Foreground(colorSelectedFg).Bold(true)
		}
		return st.Render(label)
	}

	lines := []string{
		"Title",
		f.title.View(),
		"",
		"Description",
		f.desc.View(),
		"",
		"Category:  " + choice(string(f.category), f.focus == formFocusCategory),
		"Priority:  " + choice(string(f.priority), f.focus == formFocusPriority),
		"",
		"Due Date",
		f.due.View(),
		"",
		btn(submit, f.focus == formFocusSave) + " " + btn("Cancel", f.focus == formFocusCancel),
	}
	if f.errText != "" {
		lines = append(lines, "", styleError().Render(f.errText))
	}
	lines = append(lines, "", styleMuted().Render("tab: next field   space: change choice   esc: cancel"))

	return renderModalBox(m.width, title, strings.Join(lines, "\n"))
}

func priorityStyle(p model.Priority) lipgloss.Style {
	switch p {
	case model.PriorityHigh:
		return lipgloss.NewStyle().Foreground(colorPriorityHigh)
	case model.PriorityLow:
		return lipgloss.NewStyle().Foreground(colorPriorityLow)
	default:
		return lipgloss.NewStyle().Foreground(colorPriorityMedium)
	}
}

package tui

import (
	"context"
	"strings"

	"taskdeck/internal/api"

	tea "github.com/charmbracelet/bubbletea"
)

// Login and register are plain forms: value+onChange inputs, explicit focus
// order, a busy flag while the call is in flight, and client-side required
// checks that never reach the network.

func (m *appModel) focusLoginField(i int) {
	m.loginFocus = i
	m.loginIdentifier.Blur()
	m.loginPassword.Blur()
	if i == 0 {
		m.loginIdentifier.Focus()
	} else {
		m.loginPassword.Focus()
	}
}

func (m *appModel) focusRegisterField(i int) {
	m.regFocus = i
	for j := range m.regInputs {
		m.regInputs[j].Blur()
	}
	if i >= 0 && i < len(m.regInputs) {
		m.regInputs[i].Focus()
	}
}

func (m *appModel) loginCmd() tea.Cmd {
	identifier := strings.TrimSpace(m.loginIdentifier.Value())
	password := m.loginPassword.Value()
	if identifier == "" || password == "" {
		return m.showMinibuffer("Email/username and password are required")
	}
	m.loginBusy = true
	svc, sess := m.svc, m.sess
	return func() tea.Msg {
		err := sess.Login(context.Background(), svc, identifier, password)
		return loginDoneMsg{err: err}
	}
}

func (m *appModel) registerCmd() tea.Cmd {
	fields := api.RegisterFields{
		Username:    strings.TrimSpace(m.regInputs[0].Value()),
		FirstName:   strings.TrimSpace(m.regInputs[1].Value()),
		LastName:    strings.TrimSpace(m.regInputs[2].Value()),
		Email:       strings.TrimSpace(m.regInputs[3].Value()),
		PhoneNumber: strings.TrimSpace(m.regInputs[4].Value()),
		Password:    m.regInputs[5].Value(),
	}
	for i, v := range []string{fields.Username, fields.FirstName, fields.LastName, fields.Email, fields.PhoneNumber, fields.Password} {
		if v == "" {
			return m.showMinibuffer(regFieldLabels[i] + " is required")
		}
	}
	m.regBusy = true
	svc, sess := m.svc, m.sess
	return func() tea.Msg {
		err := sess.Register(context.Background(), svc, fields)
		return registerDoneMsg{err: err}
	}
}

func (m *appModel) logoutCmd() tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		err := sess.Logout(context.Background())
		return logoutDoneMsg{err: err}
	}
}

func (m *appModel) updateLoginKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return true, tea.Quit
	case "tab", "down":
		m.focusLoginField((m.loginFocus + 1) % 2)
		return true, nil
	case "shift+tab", "up":
		m.focusLoginField((m.loginFocus + 1) % 2)
		return true, nil
	case "enter":
		if m.loginBusy {
			return true, nil
		}
		return true, m.loginCmd()
	case "ctrl+r":
		return true, m.navigate(viewRegister)
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.loginIdentifier, cmd = m.loginIdentifier.Update(msg)
	} else {
		m.loginPassword, cmd = m.loginPassword.Update(msg)
	}
	return true, cmd
}

func (m *appModel) updateRegisterKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return true, tea.Quit
	case "tab", "down":
		m.focusRegisterField((m.regFocus + 1) % len(m.regInputs))
		return true, nil
	case "shift+tab", "up":
		m.focusRegisterField((m.regFocus + len(m.regInputs) - 1) % len(m.regInputs))
		return true, nil
	case "enter":
		if m.regBusy {
			return true, nil
		}
		if m.regFocus < len(m.regInputs)-1 {
			m.focusRegisterField(m.regFocus + 1)
			return true, nil
		}
		return true, m.registerCmd()
	case "esc", "ctrl+r":
		return true, m.navigate(viewLogin)
	}

	var cmd tea.Cmd
	m.regInputs[m.regFocus], cmd = m.regInputs[m.regFocus].Update(msg)
	return true, cmd
}

func (m *appModel) applyLogin(msg loginDoneMsg) tea.Cmd {
	m.loginBusy = false
	if msg.err != nil {
		// The session stayed unauthenticated; show the server's message
		// verbatim so the user knows what to fix.
		return m.showMinibuffer(msg.err.Error())
	}
	return tea.Batch(
		m.showMinibuffer("Logged in successfully!"),
		m.navigate(viewDashboard),
	)
}

func (m *appModel) applyRegister(msg registerDoneMsg) tea.Cmd {
	m.regBusy = false
	if msg.err != nil {
		return m.showMinibuffer(msg.err.Error())
	}
	return tea.Batch(
		m.showMinibuffer("Registration successful! Please login."),
		m.navigate(viewLogin),
	)
}

func (m *appModel) applyLogout(msg logoutDoneMsg) tea.Cmd {
	if msg.err != nil {
		return m.showMinibuffer("Logout failed: " + msg.err.Error())
	}
	m.tasks = nil
	m.refreshTaskList()
	return tea.Batch(
		m.showMinibuffer("Logged out successfully!"),
		m.navigate(viewLogin),
	)
}

// Package tui implements the interactive terminal client: login and
// registration, the task dashboard with server-side filtering and paging, and
// the create/edit/delete flows.
package tui

import (
	"taskdeck/internal/api"
	"taskdeck/internal/session"
	"taskdeck/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the full-screen program and blocks until the user quits.
func Run(svc api.Service, sess *session.Session, st store.Store) error {
	applyColorProfilePreference()
	applyThemePreference()

	p := tea.NewProgram(newAppModel(svc, sess, st), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

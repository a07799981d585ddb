package tui

import (
	"taskdeck/internal/api"
	"taskdeck/internal/model"
)

type view int

const (
	viewLogin view = iota
	viewRegister
	viewDashboard
)

func viewToString(v view) string {
	switch v {
	case viewLogin:
		return "login"
	case viewRegister:
		return "register"
	case viewDashboard:
		return "dashboard"
	}
	return "?"
}

type modalKind int

const (
	modalNone modalKind = iota
	modalTaskForm
	modalConfirmDelete
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

// connProbeMsg reports the fire-and-forget startup connectivity check. It is
// diagnostic only and never changes authentication state.
type connProbeMsg struct{ err error }

// filterTickMsg fires when the filter debounce window elapses. Stale seqs
// (superseded by a newer keystroke, or by leaving the dashboard) are no-ops.
type filterTickMsg struct{ seq int }

// tasksMsg carries a GetTasks response. seq implements latest-response-wins:
// a response whose seq is not the newest issued fetch is discarded.
type tasksMsg struct {
	seq  int
	page api.TaskPage
	err  error
}

type loginDoneMsg struct{ err error }

type registerDoneMsg struct{ err error }

type logoutDoneMsg struct{ err error }

type createDoneMsg struct {
	task model.Task
	err  error
}

type updateDoneMsg struct {
	id   string
	task model.Task
	err  error
}

type deleteDoneMsg struct {
	id  string
	err error
}

// minibufferClearMsg expires a notification after its display window.
type minibufferClearMsg struct{ seq int }

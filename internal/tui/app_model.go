package tui

import (
	"context"
	"time"

	"taskdeck/internal/api"
	"taskdeck/internal/debuglog"
	"taskdeck/internal/model"
	"taskdeck/internal/session"
	"taskdeck/internal/store"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	// filterDebounce is the quiet window after the last filter keystroke
	// before a refetch fires. Pagination is deliberate and not debounced.
	filterDebounce = 500 * time.Millisecond

	// minibufferTTL is how long a notification stays visible.
	minibufferTTL = 4 * time.Second

	defaultPageLimit = 10
)

type dashFocus int

const (
	focusList dashFocus = iota
	focusFilterCategory
	focusFilterPriority
	focusFilterCompleted
	focusFilterDue
)

type appModel struct {
	svc  api.Service
	sess *session.Session
	st   store.Store

	width  int
	height int

	view  view
	modal modalKind

	// Login form.
	loginIdentifier textinput.Model
	loginPassword   textinput.Model
	loginFocus      int
	loginBusy       bool

	// Register form.
	regInputs []textinput.Model
	regFocus  int
	regBusy   bool

	// Dashboard: the task data controller. tasks always mirrors the last
	// successful server response for (filter, page), modulo the single
	// optimistic append on create.
	tasks    []model.Task
	filter   model.Filter
	page     model.Page
	taskList list.Model
	catInput textinput.Model
	priInput textinput.Model
	dueInput textinput.Model
	focus    dashFocus
	loading  bool
	spin     spinner.Model

	// fetchSeq implements latest-response-wins for GetTasks; debounceSeq
	// cancels superseded (or torn-down) debounce ticks.
	fetchSeq    int
	debounceSeq int

	form           *taskForm
	deleteTargetID string
	deleteTitle    string
	confirmFocus   confirmModalFocus

	minibufferText string
	minibufferSeq  int
}

var regFieldLabels = []string{"Username", "First name", "Last name", "Email", "Phone number", "Password"}

func newAppModel(svc api.Service, sess *session.Session, st store.Store) appModel {
	m := appModel{
		svc:  svc,
		sess: sess,
		st:   st,
		page: model.Page{Page: 1, Limit: defaultPageLimit},
	}

	m.loginIdentifier = textinput.New()
	m.loginIdentifier.Placeholder = "Email or username"
	m.loginIdentifier.CharLimit = 120
	m.loginIdentifier.Width = 36
	m.loginPassword = textinput.New()
	m.loginPassword.Placeholder = "Password"
	m.loginPassword.EchoMode = textinput.EchoPassword
	m.loginPassword.CharLimit = 120
	m.loginPassword.Width = 36

	for _, label := range regFieldLabels {
		in := textinput.New()
		in.Placeholder = label
		in.CharLimit = 120
		in.Width = 36
		if label == "Password" {
			in.EchoMode = textinput.EchoPassword
		}
		m.regInputs = append(m.regInputs, in)
	}

	m.catInput = textinput.New()
	m.catInput.Placeholder = "Category"
	m.catInput.CharLimit = 20
	m.catInput.Width = 12
	m.priInput = textinput.New()
	m.priInput.Placeholder = "Priority"
	m.priInput.CharLimit = 20
	m.priInput.Width = 12
	m.dueInput = textinput.New()
	m.dueInput.Placeholder = "YYYY-MM-DD"
	m.dueInput.CharLimit = 10
	m.dueInput.Width = 12

	m.taskList = newTaskList()
	m.spin = spinner.New(spinner.WithSpinner(spinner.Dot))

	// Route guard decides the initial view from hydrated session state.
	m.view = guardView(viewDashboard, sess.Authenticated())
	if m.view == viewDashboard {
		m.seedFromCache()
		// Reserve seq 1 for the initial fetch issued from Init.
		m.fetchSeq = 1
	}
	m.focusLoginField(0)
	return m
}

// guardView is the route guard: a pure function of session state. Protected
// views fall back to login when unauthenticated; login/register are always
// reachable; anything else resolves to the dashboard's own guard.
func guardView(target view, authenticated bool) view {
	switch target {
	case viewLogin, viewRegister:
		return target
	case viewDashboard:
		if !authenticated {
			return viewLogin
		}
		return viewDashboard
	default:
		return guardView(viewDashboard, authenticated)
	}
}

// navigate moves to target (through the guard) and resets transient state of
// the view being left. Pending debounce ticks are cancelled by bumping the
// seq so they cannot fire against a torn-down dashboard.
func (m *appModel) navigate(target view) tea.Cmd {
	next := guardView(target, m.sess.Authenticated())
	debuglog.Logger().WithField("view", viewToString(next)).Debug("tui: navigate")
	if m.view == viewDashboard && next != viewDashboard {
		m.debounceSeq++
		m.fetchSeq++
		m.loading = false
	}
	m.view = next
	m.modal = modalNone
	m.form = nil

	switch next {
	case viewLogin:
		m.loginBusy = false
		m.loginPassword.SetValue("")
		m.focusLoginField(0)
		return nil
	case viewRegister:
		m.regBusy = false
		m.focusRegisterField(0)
		return nil
	case viewDashboard:
		m.focus = focusList
		m.seedFromCache()
		return m.fetchTasksCmd()
	}
	return nil
}

// seedFromCache paints the last cached page for the current (filter, page)
// while the first fetch is in flight. Best-effort only.
func (m *appModel) seedFromCache() {
	cached, ok, err := m.st.LoadPage(context.Background(), m.filter, m.page.Page, m.page.Limit)
	if err != nil || !ok {
		return
	}
	m.tasks = cached.Tasks
	m.page.Total = cached.Total
	m.refreshTaskList()
}

func (m *appModel) showMinibuffer(text string) tea.Cmd {
	m.minibufferText = text
	m.minibufferSeq++
	seq := m.minibufferSeq
	return tea.Tick(minibufferTTL, func(time.Time) tea.Msg { return minibufferClearMsg{seq: seq} })
}

func (m appModel) Init() tea.Cmd {
	// The connectivity probe is fire-and-forget: it never gates rendering
	// or authentication.
	return tea.Batch(m.probeCmd(), m.spin.Tick, m.initialFetchCmd())
}

func (m appModel) initialFetchCmd() tea.Cmd {
	if m.view != viewDashboard {
		return nil
	}
	// Init cannot mutate the model, so the constructor reserved this seq.
	svc, st := m.svc, m.st
	filter := m.filter
	page, limit := m.page.Page, m.page.Limit
	seq := m.fetchSeq
	return func() tea.Msg {
		return runFetch(svc, st, filter, page, limit, seq)
	}
}

func (m appModel) probeCmd() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		err := svc.TestConnection(context.Background())
		if err != nil {
			debuglog.Logger().WithError(err).Warn("tui: backend probe failed")
		}
		return connProbeMsg{err: err}
	}
}

func runFetch(svc api.Service, st store.Store, filter model.Filter, page, limit, seq int) tea.Msg {
	tp, err := svc.GetTasks(context.Background(), filter, page, limit)
	if err == nil {
		// Write-through cache; failures are ignored.
		_ = st.SavePage(context.Background(), filter, page, limit, store.CachedPage{Tasks: tp.Tasks, Total: tp.Total})
	}
	return tasksMsg{seq: seq, page: tp, err: err}
}

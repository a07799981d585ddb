package tui

import (
	"errors"
	"testing"

	"taskdeck/internal/api"
	"taskdeck/internal/model"
	"taskdeck/internal/session"
	"taskdeck/internal/store"
	"taskdeck/internal/testutil"

	tea "github.com/charmbracelet/bubbletea"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// newDashboardModel builds an authenticated model sized for a visible list.
func newDashboardModel(t *testing.T) (appModel, *testutil.FakeService, store.Store) {
	t.Helper()
	st := store.Store{Dir: t.TempDir()}
	if err := st.SaveToken("tok-test"); err != nil {
		t.Fatalf("save token: %v", err)
	}
	sess := session.New(st)
	if err := sess.Hydrate(); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	svc := testutil.NewFakeService()

	m := newAppModel(svc, sess, st)
	if m.view != viewDashboard {
		t.Fatalf("view = %v, want dashboard for an authenticated session", m.view)
	}
	mAny, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return mAny.(appModel), svc, st
}

func seedTasks(m *appModel, tasks ...model.Task) {
	m.tasks = tasks
	m.page.Total = len(tasks)
	m.refreshTaskList()
}

func TestFilterTyping_DebouncesToSingleFetch(t *testing.T) {
	m, svc, _ := newDashboardModel(t)

	mAny, _ := m.Update(keyRune('f'))
	m = mAny.(appModel)
	if m.focus != focusFilterCategory {
		t.Fatalf("focus = %v, want category filter", m.focus)
	}

	// Three keystrokes inside the debounce window.
	for _, r := range "wor" {
		mAny, _ = m.Update(keyRune(r))
		m = mAny.(appModel)
	}
	if m.filter.Category != "wor" {
		t.Fatalf("filter.Category = %q", m.filter.Category)
	}
	if len(svc.GetTasksCalls) != 0 {
		t.Fatalf("fetched %d times before the debounce elapsed", len(svc.GetTasksCalls))
	}

	// The first two ticks were superseded and must not fetch.
	for seq := m.debounceSeq - 2; seq < m.debounceSeq; seq++ {
		mAny, cmd := m.Update(filterTickMsg{seq: seq})
		m = mAny.(appModel)
		if cmd != nil {
			t.Fatalf("stale tick seq=%d produced a command", seq)
		}
	}

	// Only the latest tick fetches, with the final filter state.
	mAny, cmd := m.Update(filterTickMsg{seq: m.debounceSeq})
	m = mAny.(appModel)
	if cmd == nil {
		t.Fatal("latest tick produced no fetch")
	}
	cmd()
	if len(svc.GetTasksCalls) != 1 {
		t.Fatalf("fetch count = %d, want 1", len(svc.GetTasksCalls))
	}
	call := svc.GetTasksCalls[0]
	if call.Filter.Category != "wor" || call.Page != 1 {
		t.Fatalf("fetch = %#v", call)
	}
}

func TestFilterChange_ResetsPageBeforeDebounce(t *testing.T) {
	m, svc, _ := newDashboardModel(t)
	m.page = model.Page{Page: 3, Limit: 10, Total: 50}

	mAny, _ := m.Update(keyRune('f'))
	m = mAny.(appModel)
	mAny, _ = m.Update(keyRune('w'))
	m = mAny.(appModel)

	// The reset is synchronous with the keystroke, not with the refetch.
	if m.page.Page != 1 {
		t.Fatalf("page = %d immediately after filter edit, want 1", m.page.Page)
	}
	if len(svc.GetTasksCalls) != 0 {
		t.Fatal("refetch fired before the debounce elapsed")
	}
}

func TestCompletedFilter_CyclesTriState(t *testing.T) {
	m, _, _ := newDashboardModel(t)
	m.setDashFocus(focusFilterCompleted)

	states := []string{"true", "false", ""}
	for _, want := range states {
		mAny, cmd := m.Update(keyRune(' '))
		m = mAny.(appModel)
		if m.filter.Completed != want {
			t.Fatalf("completed = %q, want %q", m.filter.Completed, want)
		}
		if cmd == nil {
			t.Fatal("cycling completed did not schedule a refetch")
		}
	}
}

func TestStaleFetchResponseDiscarded(t *testing.T) {
	m, _, _ := newDashboardModel(t)

	fresh := api.TaskPage{Tasks: []model.Task{{ID: "task-2", Title: "Fresh"}}, Total: 1}
	stale := api.TaskPage{Tasks: []model.Task{{ID: "task-1", Title: "Stale"}}, Total: 1}

	// Two fetches issued; only the second's seq is current.
	m.fetchTasksCmd()
	m.fetchTasksCmd()
	current := m.fetchSeq

	mAny, _ := m.Update(tasksMsg{seq: current, page: fresh})
	m = mAny.(appModel)
	if len(m.tasks) != 1 || m.tasks[0].ID != "task-2" {
		t.Fatalf("tasks = %#v", m.tasks)
	}

	// The older response arrives late and must not clobber the fresh one.
	mAny, _ = m.Update(tasksMsg{seq: current - 1, page: stale})
	m = mAny.(appModel)
	if m.tasks[0].ID != "task-2" {
		t.Fatalf("stale response overwrote fresh state: %#v", m.tasks)
	}
}

func TestFetchError_KeepsPreviousCollection(t *testing.T) {
	m, _, _ := newDashboardModel(t)
	seedTasks(&m, model.Task{ID: "task-1", Title: "Keep me"})

	m.fetchTasksCmd()
	mAny, _ := m.Update(tasksMsg{seq: m.fetchSeq, err: errors.New("boom")})
	m = mAny.(appModel)

	if len(m.tasks) != 1 || m.tasks[0].ID != "task-1" {
		t.Fatalf("tasks = %#v, want previous collection intact", m.tasks)
	}
	if m.loading {
		t.Fatal("still loading after an error response")
	}
	if m.minibufferText != "Failed to fetch tasks: boom" {
		t.Fatalf("minibuffer = %q", m.minibufferText)
	}
}

func TestCreateSuccess_AppendsAndRefetches(t *testing.T) {
	m, _, _ := newDashboardModel(t)
	seedTasks(&m, model.Task{ID: "task-1", Title: "Existing"})
	m.openTaskForm(nil)

	before := m.fetchSeq
	created := model.Task{ID: "task-2", Title: "New one", Category: model.CategoryWork, Priority: model.PriorityHigh}
	mAny, cmd := m.Update(createDoneMsg{task: created})
	m = mAny.(appModel)

	if len(m.tasks) != 2 || m.tasks[1] != created {
		t.Fatalf("tasks = %#v, want canonical record appended", m.tasks)
	}
	if m.modal != modalNone || m.form != nil {
		t.Fatal("form still open after successful create")
	}
	if m.fetchSeq != before+1 {
		t.Fatal("no reconciling refetch issued")
	}
	if cmd == nil {
		t.Fatal("no command returned")
	}
	if m.minibufferText != "Task created successfully!" {
		t.Fatalf("minibuffer = %q", m.minibufferText)
	}
}

func TestCreateFailure_KeepsFormAndCollection(t *testing.T) {
	m, _, _ := newDashboardModel(t)
	seedTasks(&m, model.Task{ID: "task-1", Title: "Existing"})
	m.openTaskForm(nil)
	m.form.busy = true

	mAny, _ := m.Update(createDoneMsg{err: errors.New("boom")})
	m = mAny.(appModel)

	if len(m.tasks) != 1 {
		t.Fatalf("tasks = %#v, want untouched on failure", m.tasks)
	}
	if m.modal != modalTaskForm || m.form == nil {
		t.Fatal("form closed on failure; the user's input is lost")
	}
	if m.form.busy {
		t.Fatal("form still busy after the call resolved")
	}
	if m.minibufferText != "Failed to create task: boom" {
		t.Fatalf("minibuffer = %q", m.minibufferText)
	}
}

func TestUpdateSuccess_AdoptsServerRecordVerbatim(t *testing.T) {
	m, _, _ := newDashboardModel(t)
	seedTasks(&m,
		model.Task{ID: "task-1", Title: "Old title", Priority: model.PriorityLow},
		model.Task{ID: "task-2", Title: "Other"},
	)

	// The server normalized fields the client did not send.
	server := model.Task{ID: "task-1", Title: "New title", Description: "server-added", Priority: model.PriorityHigh}
	mAny, _ := m.Update(updateDoneMsg{id: "task-1", task: server})
	m = mAny.(appModel)

	if m.tasks[0] != server {
		t.Fatalf("tasks[0] = %#v, want server record verbatim", m.tasks[0])
	}
	if m.tasks[1].ID != "task-2" {
		t.Fatalf("unrelated task changed: %#v", m.tasks[1])
	}
	if m.minibufferText != "Task updated successfully!" {
		t.Fatalf("minibuffer = %q", m.minibufferText)
	}
}

func TestUpdateFailure_LeavesRecordUnchanged(t *testing.T) {
	m, _, _ := newDashboardModel(t)
	orig := model.Task{ID: "task-1", Title: "Original"}
	seedTasks(&m, orig)

	mAny, _ := m.Update(updateDoneMsg{id: "task-1", err: errors.New("boom")})
	m = mAny.(appModel)

	if m.tasks[0] != orig {
		t.Fatalf("tasks[0] = %#v, want unchanged", m.tasks[0])
	}
}

func TestDeleteFlow_RemovesOnlyOnSuccess(t *testing.T) {
	m, svc, _ := newDashboardModel(t)
	target := svc.AddTask(model.TaskFields{Title: "Doomed", Category: model.CategoryPersonal, Priority: model.PriorityMedium})
	seedTasks(&m, target)

	// d opens the confirm modal with Cancel focused.
	mAny, _ := m.Update(keyRune('d'))
	m = mAny.(appModel)
	if m.modal != modalConfirmDelete || m.deleteTargetID != target.ID {
		t.Fatalf("modal = %v, target = %q", m.modal, m.deleteTargetID)
	}
	if m.confirmFocus != confirmFocusCancel {
		t.Fatal("confirm modal must open with Cancel focused")
	}

	// Enter on Cancel aborts without touching the server.
	mAny, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mAny.(appModel)
	if m.modal != modalNone || len(svc.DeleteCalls) != 0 {
		t.Fatalf("cancel deleted anyway: calls = %v", svc.DeleteCalls)
	}
	if len(m.tasks) != 1 {
		t.Fatal("task vanished without server confirmation")
	}

	// Reopen and confirm with y.
	mAny, _ = m.Update(keyRune('d'))
	m = mAny.(appModel)
	mAny, cmd := m.Update(keyRune('y'))
	m = mAny.(appModel)
	if cmd == nil {
		t.Fatal("confirm produced no delete command")
	}
	msg := cmd()
	done, ok := msg.(deleteDoneMsg)
	if !ok || done.err != nil {
		t.Fatalf("msg = %#v", msg)
	}
	if len(svc.DeleteCalls) != 1 || svc.DeleteCalls[0] != target.ID {
		t.Fatalf("delete calls = %v", svc.DeleteCalls)
	}

	mAny, _ = m.Update(done)
	m = mAny.(appModel)
	if len(m.tasks) != 0 {
		t.Fatalf("tasks = %#v after confirmed delete", m.tasks)
	}
	if m.minibufferText != "Task deleted successfully!" {
		t.Fatalf("minibuffer = %q", m.minibufferText)
	}
}

func TestDeleteFailure_RecordStays(t *testing.T) {
	m, _, _ := newDashboardModel(t)
	seedTasks(&m, model.Task{ID: "task-1", Title: "Survivor"})

	mAny, _ := m.Update(deleteDoneMsg{id: "task-1", err: errors.New("boom")})
	m = mAny.(appModel)

	if len(m.tasks) != 1 {
		t.Fatal("record removed despite server error")
	}
	if m.minibufferText != "Failed to delete task: boom" {
		t.Fatalf("minibuffer = %q", m.minibufferText)
	}
}

func TestToggleComplete_SendsFullRecordInverted(t *testing.T) {
	m, svc, _ := newDashboardModel(t)
	task := svc.AddTask(model.TaskFields{
		Title:       "Toggle me",
		Description: "keep this",
		Category:    model.CategoryHealth,
		Priority:    model.PriorityLow,
	})
	seedTasks(&m, task)

	mAny, cmd := m.Update(keyRune('x'))
	m = mAny.(appModel)
	if cmd == nil {
		t.Fatal("toggle produced no command")
	}
	cmd()

	if len(svc.UpdateCalls) != 1 {
		t.Fatalf("update calls = %d", len(svc.UpdateCalls))
	}
	call := svc.UpdateCalls[0]
	if call.ID != task.ID || !call.Fields.Completed {
		t.Fatalf("call = %#v", call)
	}
	if call.Fields.Title != "Toggle me" || call.Fields.Description != "keep this" {
		t.Fatalf("toggle dropped fields: %#v", call.Fields)
	}
}

func TestPagination_ImmediateFetchAndBounds(t *testing.T) {
	m, svc, _ := newDashboardModel(t)
	m.page = model.Page{Page: 1, Limit: 10, Total: 25}

	mAny, cmd := m.Update(keyRune('n'))
	m = mAny.(appModel)
	if m.page.Page != 2 || cmd == nil {
		t.Fatalf("page = %d, cmd nil = %v", m.page.Page, cmd == nil)
	}
	cmd()
	if len(svc.GetTasksCalls) != 1 || svc.GetTasksCalls[0].Page != 2 {
		t.Fatalf("fetch calls = %#v", svc.GetTasksCalls)
	}

	// Past the last page: 3*10 >= 25.
	m.page = model.Page{Page: 3, Limit: 10, Total: 25}
	mAny, cmd = m.Update(keyRune('n'))
	m = mAny.(appModel)
	if m.page.Page != 3 || cmd != nil {
		t.Fatalf("advanced past the last page: %d", m.page.Page)
	}

	// Before the first page.
	m.page = model.Page{Page: 1, Limit: 10, Total: 25}
	mAny, cmd = m.Update(keyRune('p'))
	m = mAny.(appModel)
	if m.page.Page != 1 || cmd != nil {
		t.Fatalf("went before page 1: %d", m.page.Page)
	}
}

func TestClearFilters_ResetsAndRefetches(t *testing.T) {
	m, svc, _ := newDashboardModel(t)
	m.filter = model.Filter{Category: "work", Completed: "true"}
	m.catInput.SetValue("work")
	m.page = model.Page{Page: 4, Limit: 10, Total: 100}

	mAny, cmd := m.Update(keyRune('C'))
	m = mAny.(appModel)
	if !m.filter.IsZero() {
		t.Fatalf("filter = %#v after clear", m.filter)
	}
	if m.page.Page != 1 {
		t.Fatalf("page = %d after clear", m.page.Page)
	}
	if cmd == nil {
		t.Fatal("clear did not refetch")
	}
	cmd()
	if len(svc.GetTasksCalls) != 1 || !svc.GetTasksCalls[0].Filter.IsZero() {
		t.Fatalf("fetch calls = %#v", svc.GetTasksCalls)
	}
}

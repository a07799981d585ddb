package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"taskdeck/internal/model"
	"taskdeck/internal/store"
	"taskdeck/internal/testutil"
)

func runCmd(t *testing.T, app *App, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd(app)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mustRun(t *testing.T, app *App, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCmd(t, app, args...)
	if err != nil {
		t.Fatalf("command failed: taskdeck %v\nerr: %v\nstderr:\n%s", args, err, stderr)
	}
	var env map[string]any
	if err := json.Unmarshal([]byte(stdout), &env); err != nil {
		t.Fatalf("unmarshal stdout: %v\nstdout:\n%s", err, stdout)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("no data key in envelope: %s", stdout)
	}
	return env
}

func testApp(t *testing.T) (*App, *testutil.FakeService, store.Store) {
	t.Helper()
	dir := t.TempDir()
	svc := testutil.NewFakeService()
	app := &App{ConfigDir: dir, Service: svc, APIURL: "http://fake"}
	return app, svc, store.Store{Dir: dir}
}

func TestLoginCommand_PersistsToken(t *testing.T) {
	app, _, st := testApp(t)

	mustRun(t, app, "login", "alice", "--password", "secret")
	if !st.HasToken() {
		t.Fatal("no token stored after login")
	}

	// Wrong credentials fail with the server's message and leave no token.
	app2, _, st2 := testApp(t)
	_, stderr, err := runCmd(t, app2, "login", "alice", "--password", "wrong")
	if err == nil {
		t.Fatal("login succeeded with wrong password")
	}
	if !strings.Contains(stderr, "Invalid credentials") {
		t.Fatalf("stderr = %q", stderr)
	}
	if st2.HasToken() {
		t.Fatal("token stored after failed login")
	}
}

func TestLogoutCommand_RemovesToken(t *testing.T) {
	app, _, st := testApp(t)
	mustRun(t, app, "login", "alice", "--password", "secret")

	mustRun(t, app, "logout")
	if st.HasToken() {
		t.Fatal("token survived logout")
	}

	// Logging out while logged out is fine.
	mustRun(t, app, "logout")
}

func TestRegisterCommand(t *testing.T) {
	app, svc, st := testApp(t)

	mustRun(t, app, "register",
		"--username", "bob",
		"--first-name", "Bob",
		"--last-name", "Jones",
		"--email", "bob@example.com",
		"--phone", "555-0100",
		"--password", "hunter2",
	)
	if len(svc.RegisterCalls) != 1 || svc.RegisterCalls[0].Username != "bob" {
		t.Fatalf("register calls = %#v", svc.RegisterCalls)
	}
	if st.HasToken() {
		t.Fatal("register must not log in")
	}

	// Missing fields are rejected client-side.
	_, stderr, err := runCmd(t, app, "register", "--username", "carol")
	if err == nil {
		t.Fatal("register without required fields succeeded")
	}
	if !strings.Contains(stderr, "required") {
		t.Fatalf("stderr = %q", stderr)
	}
	if len(svc.RegisterCalls) != 1 {
		t.Fatal("invalid register reached the service")
	}
}

func TestTasksCommands_RequireAuth(t *testing.T) {
	app, _, _ := testApp(t)

	_, stderr, err := runCmd(t, app, "tasks", "list")
	if err == nil {
		t.Fatal("tasks list without a token succeeded")
	}
	if !strings.Contains(stderr, "not logged in") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestTasksListCommand(t *testing.T) {
	app, svc, _ := testApp(t)
	mustRun(t, app, "login", "alice", "--password", "secret")
	svc.AddTask(model.TaskFields{Title: "Work thing", Category: model.CategoryWork, Priority: model.PriorityHigh})
	svc.AddTask(model.TaskFields{Title: "Errand", Category: model.CategoryPersonal, Priority: model.PriorityLow})

	env := mustRun(t, app, "tasks", "list", "--category", "work")
	data, ok := env["data"].([]any)
	if !ok || len(data) != 1 {
		t.Fatalf("data = %#v, want just the work task", env["data"])
	}
	pag, ok := env["pagination"].(map[string]any)
	if !ok || pag["total"].(float64) != 1 || pag["page"].(float64) != 1 {
		t.Fatalf("pagination = %#v", env["pagination"])
	}

	// An invalid filter value never reaches the server.
	calls := len(svc.GetTasksCalls)
	_, stderr, err := runCmd(t, app, "tasks", "list", "--completed", "maybe")
	if err == nil {
		t.Fatal("invalid completed value accepted")
	}
	if !strings.Contains(stderr, "invalid completed value") {
		t.Fatalf("stderr = %q", stderr)
	}
	if len(svc.GetTasksCalls) != calls {
		t.Fatal("invalid filter reached the service")
	}
}

func TestTasksCreateUpdateDelete(t *testing.T) {
	app, svc, _ := testApp(t)
	mustRun(t, app, "login", "alice", "--password", "secret")

	env := mustRun(t, app, "tasks", "create", "--title", "Buy milk", "--priority", "high", "--due", "2026-09-15")
	data := env["data"].(map[string]any)
	id, _ := data["id"].(string)
	if id == "" {
		t.Fatalf("create returned no id: %#v", data)
	}
	if len(svc.CreateCalls) != 1 || svc.CreateCalls[0].Priority != model.PriorityHigh {
		t.Fatalf("create calls = %#v", svc.CreateCalls)
	}

	env = mustRun(t, app, "tasks", "update", id, "--title", "Buy oat milk", "--completed")
	data = env["data"].(map[string]any)
	if data["title"] != "Buy oat milk" || data["completed"] != true {
		t.Fatalf("update response = %#v", data)
	}

	mustRun(t, app, "tasks", "delete", id, "--yes")
	if len(svc.DeleteCalls) != 1 || svc.DeleteCalls[0] != id {
		t.Fatalf("delete calls = %#v", svc.DeleteCalls)
	}
	if len(svc.Tasks()) != 0 {
		t.Fatalf("tasks = %#v after delete", svc.Tasks())
	}
}

func TestTasksDoneCommand(t *testing.T) {
	app, svc, _ := testApp(t)
	mustRun(t, app, "login", "alice", "--password", "secret")
	task := svc.AddTask(model.TaskFields{Title: "Finish report", Category: model.CategoryWork, Priority: model.PriorityMedium})

	env := mustRun(t, app, "tasks", "done", task.ID)
	data := env["data"].(map[string]any)
	if data["completed"] != true {
		t.Fatalf("done response = %#v", data)
	}
	// The full record went over the wire, not a partial patch.
	if len(svc.UpdateCalls) != 1 || svc.UpdateCalls[0].Fields.Title != "Finish report" {
		t.Fatalf("update calls = %#v", svc.UpdateCalls)
	}

	env = mustRun(t, app, "tasks", "done", task.ID, "--undo")
	data = env["data"].(map[string]any)
	if data["completed"] != false {
		t.Fatalf("undo response = %#v", data)
	}

	_, stderr, err := runCmd(t, app, "tasks", "done", "task-999")
	if err == nil {
		t.Fatal("done on a missing task succeeded")
	}
	if !strings.Contains(stderr, "task not found") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestStatusCommand(t *testing.T) {
	app, svc, _ := testApp(t)

	env := mustRun(t, app, "status")
	data := env["data"].(map[string]any)
	if data["loggedIn"] != false || data["reachable"] != true {
		t.Fatalf("status = %#v", data)
	}

	svc.TestConnectionErr = errors.New("probe failed")
	mustRun(t, app, "login", "alice", "--password", "secret")
	env = mustRun(t, app, "status")
	data = env["data"].(map[string]any)
	if data["loggedIn"] != true || data["reachable"] != false {
		t.Fatalf("status = %#v", data)
	}
}

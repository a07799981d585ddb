// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"taskdeck/internal/api"
	"taskdeck/internal/model"
)

// FakeService is an in-memory implementation of api.Service for testing. It
// applies filters and pagination the way the backend does, so tests exercise
// real query semantics without a server.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []model.Task
	nextID int

	users map[string]string // identifier -> password

	// Error injection for testing
	TestConnectionErr error
	LoginErr          error
	RegisterErr       error
	GetTasksErr       error
	CreateTaskErr     error
	UpdateTaskErr     error
	DeleteTaskErr     error

	// Call recording
	GetTasksCalls []GetTasksCall
	CreateCalls   []model.TaskFields
	UpdateCalls   []UpdateCall
	DeleteCalls   []string
	RegisterCalls []api.RegisterFields
}

// GetTasksCall records the arguments of one GetTasks invocation.
type GetTasksCall struct {
	Filter model.Filter
	Page   int
	Limit  int
}

// UpdateCall records the arguments of one UpdateTask invocation.
type UpdateCall struct {
	ID     string
	Fields model.TaskFields
}

// NewFakeService creates a FakeService with one known user.
func NewFakeService() *FakeService {
	return &FakeService{
		nextID: 1,
		users:  map[string]string{"alice": "secret"},
	}
}

// AddTask seeds a task directly, returning the assigned id.
func (f *FakeService) AddTask(fields model.TaskFields) model.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.appendLocked(fields)
}

func (f *FakeService) appendLocked(fields model.TaskFields) model.Task {
	t := model.Task{
		ID:          fmt.Sprintf("task-%d", f.nextID),
		Title:       fields.Title,
		Description: fields.Description,
		Category:    fields.Category,
		Priority:    fields.Priority,
		DueDate:     fields.DueDate,
		Completed:   fields.Completed,
	}
	f.nextID++
	f.tasks = append(f.tasks, t)
	return t
}

// Tasks returns a snapshot of the stored tasks.
func (f *FakeService) Tasks() []model.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]model.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// TestConnection implements api.Service.
func (f *FakeService) TestConnection(ctx context.Context) error {
	return f.TestConnectionErr
}

// Login implements api.Service.
func (f *FakeService) Login(ctx context.Context, identifier, password string) (string, error) {
	if f.LoginErr != nil {
		return "", f.LoginErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if pw, ok := f.users[identifier]; !ok || pw != password {
		return "", &api.Error{Message: "Invalid credentials", Status: 401}
	}
	return "token-" + identifier, nil
}

// Register implements api.Service.
func (f *FakeService) Register(ctx context.Context, fields api.RegisterFields) error {
	f.mu.Lock()
	f.RegisterCalls = append(f.RegisterCalls, fields)
	f.mu.Unlock()
	if f.RegisterErr != nil {
		return f.RegisterErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[fields.Username]; ok {
		return &api.Error{Message: "Username already taken", Status: 400}
	}
	f.users[fields.Username] = fields.Password
	return nil
}

// GetTasks implements api.Service.
func (f *FakeService) GetTasks(ctx context.Context, filter model.Filter, page, limit int) (api.TaskPage, error) {
	f.mu.Lock()
	f.GetTasksCalls = append(f.GetTasksCalls, GetTasksCall{Filter: filter, Page: page, Limit: limit})
	f.mu.Unlock()
	if f.GetTasksErr != nil {
		return api.TaskPage{}, f.GetTasksErr
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	matched := make([]model.Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		if filter.Category != "" && string(t.Category) != filter.Category {
			continue
		}
		if filter.Priority != "" && string(t.Priority) != filter.Priority {
			continue
		}
		if filter.Completed == "true" && !t.Completed {
			continue
		}
		if filter.Completed == "false" && t.Completed {
			continue
		}
		if filter.DueDate != "" {
			if t.DueDate == nil || !strings.HasPrefix(t.DueDate.UTC().Format("2006-01-02"), filter.DueDate) {
				continue
			}
		}
		matched = append(matched, t)
	}

	total := len(matched)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	out := make([]model.Task, end-start)
	copy(out, matched[start:end])
	return api.TaskPage{Tasks: out, Total: total}, nil
}

// CreateTask implements api.Service.
func (f *FakeService) CreateTask(ctx context.Context, fields model.TaskFields) (model.Task, error) {
	f.mu.Lock()
	f.CreateCalls = append(f.CreateCalls, fields)
	f.mu.Unlock()
	if f.CreateTaskErr != nil {
		return model.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.appendLocked(fields), nil
}

// UpdateTask implements api.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id string, fields model.TaskFields) (model.Task, error) {
	f.mu.Lock()
	f.UpdateCalls = append(f.UpdateCalls, UpdateCall{ID: id, Fields: fields})
	f.mu.Unlock()
	if f.UpdateTaskErr != nil {
		return model.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			updated := model.Task{
				ID:          id,
				Title:       fields.Title,
				Description: fields.Description,
				Category:    fields.Category,
				Priority:    fields.Priority,
				DueDate:     fields.DueDate,
				Completed:   fields.Completed,
			}
			f.tasks[i] = updated
			return updated, nil
		}
	}
	return model.Task{}, &api.Error{Message: "Task not found", Status: 404}
}

// DeleteTask implements api.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	f.DeleteCalls = append(f.DeleteCalls, id)
	f.mu.Unlock()
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return &api.Error{Message: "Task not found", Status: 404}
}

var _ api.Service = (*FakeService)(nil)

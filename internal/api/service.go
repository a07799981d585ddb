// Package api implements the HTTP client for the task backend.
package api

import (
	"context"

	"taskdeck/internal/model"
)

// TaskPage is one page of the server's task listing.
type TaskPage struct {
	Tasks []model.Task `json:"tasks"`
	Total int          `json:"total"`
}

// RegisterFields is the registration payload.
type RegisterFields struct {
	Username    string `json:"username"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// Service is the backend contract consumed by the TUI and CLI commands.
// The session store and data controller never build HTTP requests directly.
type Service interface {
	// TestConnection probes the backend. Diagnostic only; callers must not
	// gate authentication state on it.
	TestConnection(ctx context.Context) error

	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, identifier, password string) (string, error)

	// Register creates an account. It does not authenticate.
	Register(ctx context.Context, fields RegisterFields) error

	// GetTasks lists tasks for the given filter and page. Empty filter
	// fields are omitted from the query, never sent as empty constraints.
	GetTasks(ctx context.Context, filter model.Filter, page, limit int) (TaskPage, error)

	// CreateTask creates a task and returns the canonical server record.
	CreateTask(ctx context.Context, fields model.TaskFields) (model.Task, error)

	// UpdateTask replaces a task and returns the canonical server record.
	UpdateTask(ctx context.Context, id string, fields model.TaskFields) (model.Task, error)

	// DeleteTask deletes a task. Callers remove it locally only on success.
	DeleteTask(ctx context.Context, id string) error
}

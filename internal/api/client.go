package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"taskdeck/internal/model"
)

const (
	// DefaultBaseURL matches a locally running backend.
	DefaultBaseURL = "http://localhost:8000"

	// callTimeout bounds each API call.
	callTimeout = 10 * time.Second
)

// TokenSource supplies the current bearer token, or "" when unauthenticated.
// The session store owns the token; the client only reads it per request.
type TokenSource interface {
	Token() string
}

// Client implements Service against the REST backend. It issues exactly one
// HTTP request per operation and never retries; retry policy belongs to the
// caller.
type Client struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
}

// New creates a Client. baseURL is resolved once by the caller at startup.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{},
	}
}

func (c *Client) TestConnection(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/test", false, nil, nil)
}

func (c *Client) Login(ctx context.Context, identifier, password string) (string, error) {
	body := map[string]string{
		"emailOrUsername": identifier,
		"password":        password,
	}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", false, body, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

func (c *Client) Register(ctx context.Context, fields RegisterFields) error {
	return c.do(ctx, http.MethodPost, "/api/auth/register", false, fields, nil)
}

func (c *Client) GetTasks(ctx context.Context, filter model.Filter, page, limit int) (TaskPage, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("limit", fmt.Sprint(limit))
	// Empty filter fields are omitted: an empty string is "no constraint",
	// not a constraint on the empty string.
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Priority != "" {
		q.Set("priority", filter.Priority)
	}
	if filter.Completed != "" {
		q.Set("completed", filter.Completed)
	}
	if filter.DueDate != "" {
		q.Set("due_date", filter.DueDate)
	}

	var out TaskPage
	if err := c.do(ctx, http.MethodGet, "/api/tasks?"+q.Encode(), true, nil, &out); err != nil {
		return TaskPage{}, err
	}
	if out.Tasks == nil {
		out.Tasks = []model.Task{}
	}
	return out, nil
}

func (c *Client) CreateTask(ctx context.Context, fields model.TaskFields) (model.Task, error) {
	var out model.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", true, fields, &out); err != nil {
		return model.Task{}, err
	}
	return out, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, fields model.TaskFields) (model.Task, error) {
	var out model.Task
	if err := c.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id), true, fields, &out); err != nil {
		return model.Task{}, err
	}
	return out, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), true, nil, nil)
}

// do issues one request. Non-2xx responses become a *Error carrying the
// server's {detail} message when the body parses, or a generic status-coded
// message otherwise. Transport failures become a *Error with no status.
func (c *Client) do(ctx context.Context, method, path string, auth bool, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	var rd io.Reader
	if body != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return transportError(err)
		}
		rd = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return transportError(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth && c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return statusError(resp.StatusCode, strings.TrimSpace(e.Detail))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return transportError(err)
		}
	}
	return nil
}

var _ Service = (*Client)(nil)

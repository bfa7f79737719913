// Package client talks to the taskboard HTTP API.
//
// It is a thin JSON mirror of the /tasks surface. There are no retries and no
// built-in timeout: a call blocks until the server answers or ctx is done.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Gentleman-Programming/taskboard/internal/store"
)

// Task is the wire shape returned by the API.
type Task = store.Task

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("taskboard api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("taskboard api: status %d: %s", e.StatusCode, e.Message)
}

type DeleteResult struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

var newRequestID = func() string { return uuid.NewString() }

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListTasks(ctx context.Context) ([]Task, error) {
	var out []Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Task{}
	}
	return out, nil
}

func (c *Client) GetTask(ctx context.Context, id int64) (*Task, error) {
	var out Task
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTask(ctx context.Context, title, description string) (*Task, error) {
	body := map[string]string{"title": title, "description": description}
	var out Task
	if err := c.do(ctx, http.MethodPost, "/tasks", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTask is a full update; callers must send the current completed value
// when only the text changes.
func (c *Client) UpdateTask(ctx context.Context, id int64, title, description string, completed bool) (*Task, error) {
	body := map[string]any{"title": title, "description": description, "completed": completed}
	var out Task
	if err := c.do(ctx, http.MethodPut, taskPath(id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetCompleted(ctx context.Context, id int64, completed bool) (*Task, error) {
	body := map[string]bool{"completed": completed}
	var out Task
	if err := c.do(ctx, http.MethodPatch, taskPath(id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	var out DeleteResult
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, &out)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func taskPath(id int64) string {
	return "/tasks/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("taskboard api: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("taskboard api: build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", newRequestID())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("taskboard api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil {
			apiErr.Message = errBody.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("taskboard api: decode %s %s: %w", method, path, err)
	}
	return nil
}

package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/sourcegraph/conc/pool"
)

const (
	ConfirmDelete         = "Are you sure you want to delete this task?"
	ConfirmClearCompleted = "Are you sure you want to clear all completed tasks?"
)

const (
	NoticeLoad           = "Failed to load tasks"
	NoticeCreate         = "Failed to create task"
	NoticeUpdate         = "Failed to update task"
	NoticeToggle         = "Failed to update task status"
	NoticeDelete         = "Failed to delete task"
	NoticeClearCompleted = "Failed to clear completed tasks"
)

// API is the subset of the HTTP client the controller drives.
// *client.Client satisfies it.
type API interface {
	ListTasks(ctx context.Context) ([]Task, error)
	CreateTask(ctx context.Context, title, description string) (*Task, error)
	UpdateTask(ctx context.Context, id int64, title, description string, completed bool) (*Task, error)
	SetCompleted(ctx context.Context, id int64, completed bool) (*Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

// Confirmer gates destructive actions. Returning false cancels the action.
type Confirmer func(prompt string) bool

// Notifier receives user-facing failure messages.
type Notifier func(message string)

type Controller struct {
	api     API
	confirm Confirmer
	notify  Notifier
	logf    func(format string, args ...any)
}

type Option func(*Controller)

func WithConfirmer(fn Confirmer) Option {
	return func(c *Controller) {
		if fn != nil {
			c.confirm = fn
		}
	}
}

func WithNotifier(fn Notifier) Option {
	return func(c *Controller) {
		if fn != nil {
			c.notify = fn
		}
	}
}

func WithLogf(fn func(format string, args ...any)) Option {
	return func(c *Controller) {
		if fn != nil {
			c.logf = fn
		}
	}
}

// NewController builds a controller. Without WithConfirmer every destructive
// action is refused.
func NewController(api API, opts ...Option) *Controller {
	c := &Controller{
		api:     api,
		confirm: func(string) bool { return false },
		notify:  func(string) {},
		logf:    log.Printf,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load replaces the mirror with the server's list.
func (c *Controller) Load(ctx context.Context, s State) State {
	list, err := c.api.ListTasks(ctx)
	if err != nil {
		return c.fail(s, NoticeLoad, "loading tasks", err)
	}
	next := s
	next.Tasks = append([]Task(nil), list...)
	next.Notice = ""
	return next
}

// Submit creates a task, or updates the one being edited. A blank title is
// ignored without touching the network.
func (c *Controller) Submit(ctx context.Context, s State) State {
	title := strings.TrimSpace(s.Form.Title)
	description := strings.TrimSpace(s.Form.Description)
	if title == "" {
		return s
	}

	if s.IsEditing() {
		return c.update(ctx, s, s.Editing, title, description)
	}

	created, err := c.api.CreateTask(ctx, title, description)
	if err != nil {
		return c.fail(s, NoticeCreate, "creating task", err)
	}
	next := s.clone()
	next.Tasks = append([]Task{*created}, next.Tasks...)
	next.Notice = ""
	return next.resetForm()
}

func (c *Controller) update(ctx context.Context, s State, id int64, title, description string) State {
	current, ok := s.Find(id)
	if !ok {
		return c.fail(s, NoticeUpdate, "updating task", fmt.Errorf("task %d is not loaded", id))
	}
	updated, err := c.api.UpdateTask(ctx, id, title, description, current.Completed)
	if err != nil {
		return c.fail(s, NoticeUpdate, "updating task", err)
	}
	next := s.replace(*updated)
	next.Notice = ""
	return next.resetForm()
}

// Toggle sets the completed flag. The mirror only changes once the server
// confirms.
func (c *Controller) Toggle(ctx context.Context, s State, id int64, completed bool) State {
	updated, err := c.api.SetCompleted(ctx, id, completed)
	if err != nil {
		return c.fail(s, NoticeToggle, "updating task status", err)
	}
	next := s.replace(*updated)
	next.Notice = ""
	return next
}

// StartEdit loads a mirrored task into the form. Unknown ids are ignored.
func (c *Controller) StartEdit(s State, id int64) State {
	t, ok := s.Find(id)
	if !ok {
		return s
	}
	s.Editing = t.ID
	s.Form = Form{Title: t.Title, Description: t.Description}
	return s
}

func (c *Controller) CancelEdit(s State) State {
	return s.resetForm()
}

func (c *Controller) Delete(ctx context.Context, s State, id int64) State {
	if !c.confirm(ConfirmDelete) {
		return s
	}
	if err := c.api.DeleteTask(ctx, id); err != nil {
		return c.fail(s, NoticeDelete, "deleting task", err)
	}
	next := s.without(func(t Task) bool { return t.ID != id })
	next.Notice = ""
	return next
}

// ClearCompleted deletes every completed task concurrently and waits for all
// of them to settle. The mirror drops them only when every delete succeeded.
// Deletes that did succeed on a partial failure are not rolled back.
func (c *Controller) ClearCompleted(ctx context.Context, s State) State {
	var done []int64
	for _, t := range s.Tasks {
		if t.Completed {
			done = append(done, t.ID)
		}
	}
	if len(done) == 0 {
		return s
	}
	if !c.confirm(ConfirmClearCompleted) {
		return s
	}

	p := pool.New().WithErrors()
	for _, id := range done {
		p.Go(func() error {
			if err := c.api.DeleteTask(ctx, id); err != nil {
				return fmt.Errorf("task %d: %w", id, err)
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return c.fail(s, NoticeClearCompleted, "clearing completed tasks", err)
	}

	removed := make(map[int64]bool, len(done))
	for _, id := range done {
		removed[id] = true
	}
	next := s.without(func(t Task) bool { return !removed[t.ID] })
	next.Notice = ""
	return next
}

// SetFilter only changes what Render shows.
func (c *Controller) SetFilter(s State, f Filter) State {
	s.Filter = f
	return s
}

func (c *Controller) fail(s State, notice, action string, err error) State {
	c.logf("[taskboard] error %s: %v", action, err)
	c.notify(notice)
	s.Notice = notice
	return s
}

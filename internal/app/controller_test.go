package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	method    string
	id        int64
	title     string
	desc      string
	completed bool
}

type fakeAPI struct {
	mu    sync.Mutex
	calls []call

	list      []Task
	listErr   error
	createErr error
	updateErr error
	toggleErr error
	deleteErr map[int64]error

	nextID int64

	// barrier makes every delete wait until this many are in flight.
	barrier  int32
	inflight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeAPI) record(c call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeAPI) methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.method)
	}
	return out
}

func (f *fakeAPI) ListTasks(ctx context.Context) ([]Task, error) {
	f.record(call{method: "list"})
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.list, nil
}

func (f *fakeAPI) CreateTask(ctx context.Context, title, description string) (*Task, error) {
	f.record(call{method: "create", title: title, desc: description})
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	return &Task{ID: 100 + f.nextID, Title: title, Description: description}, nil
}

func (f *fakeAPI) UpdateTask(ctx context.Context, id int64, title, description string, completed bool) (*Task, error) {
	f.record(call{method: "update", id: id, title: title, desc: description, completed: completed})
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &Task{ID: id, Title: title, Description: description, Completed: completed}, nil
}

func (f *fakeAPI) SetCompleted(ctx context.Context, id int64, completed bool) (*Task, error) {
	f.record(call{method: "toggle", id: id, completed: completed})
	if f.toggleErr != nil {
		return nil, f.toggleErr
	}
	return &Task{ID: id, Title: fmt.Sprintf("task %d", id), Completed: completed}, nil
}

func (f *fakeAPI) DeleteTask(ctx context.Context, id int64) error {
	f.record(call{method: "delete", id: id})
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		peak := f.peak.Load()
		if n <= peak || f.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	if f.barrier > 0 {
		deadline := time.Now().Add(2 * time.Second)
		for f.peak.Load() < f.barrier && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
	}
	return f.deleteErr[id]
}

type harness struct {
	api      *fakeAPI
	ctrl     *Controller
	prompts  []string
	notices  []string
	logLines []string
	answer   bool
}

func newHarness(api *fakeAPI) *harness {
	h := &harness{api: api, answer: true}
	h.ctrl = NewController(api,
		WithConfirmer(func(prompt string) bool {
			h.prompts = append(h.prompts, prompt)
			return h.answer
		}),
		WithNotifier(func(msg string) { h.notices = append(h.notices, msg) }),
		WithLogf(func(format string, args ...any) {
			h.logLines = append(h.logLines, fmt.Sprintf(format, args...))
		}),
	)
	return h
}

func seeded() []Task {
	return []Task{
		{ID: 1, Title: "A", Completed: false},
		{ID: 2, Title: "B", Description: "second", Completed: true},
	}
}

func TestLoadReplacesMirror(t *testing.T) {
	api := &fakeAPI{list: seeded()}
	h := newHarness(api)

	s := h.ctrl.Load(context.Background(), State{Tasks: []Task{{ID: 9}}, Notice: "old"})
	assert.Equal(t, seeded(), s.Tasks)
	assert.Empty(t, s.Notice)
}

func TestLoadFailureKeepsStateAndNotifies(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("connection refused")}
	h := newHarness(api)
	prev := State{Tasks: seeded()}

	s := h.ctrl.Load(context.Background(), prev)
	assert.Equal(t, prev.Tasks, s.Tasks)
	assert.Equal(t, NoticeLoad, s.Notice)
	assert.Equal(t, []string{NoticeLoad}, h.notices)
	require.Len(t, h.logLines, 1)
	assert.Contains(t, h.logLines[0], "connection refused")
}

func TestSubmitBlankTitleMakesNoCall(t *testing.T) {
	api := &fakeAPI{}
	h := newHarness(api)
	prev := State{Tasks: seeded(), Form: Form{Title: "   ", Description: "x"}}

	s := h.ctrl.Submit(context.Background(), prev)
	assert.Equal(t, prev, s)
	assert.Empty(t, api.methods())
}

func TestSubmitCreatesAndPrepends(t *testing.T) {
	api := &fakeAPI{}
	h := newHarness(api)
	prev := State{Tasks: seeded(), Form: Form{Title: "  New  ", Description: " d "}}

	s := h.ctrl.Submit(context.Background(), prev)
	require.Len(t, s.Tasks, 3)
	assert.Equal(t, "New", s.Tasks[0].Title)
	assert.Equal(t, "d", s.Tasks[0].Description)
	assert.Equal(t, Form{}, s.Form)
	assert.False(t, s.IsEditing())

	require.Len(t, api.calls, 1)
	assert.Equal(t, call{method: "create", title: "New", desc: "d"}, api.calls[0])
	assert.Len(t, prev.Tasks, 2, "previous snapshot must not change")
}

func TestSubmitCreateFailureKeepsForm(t *testing.T) {
	api := &fakeAPI{createErr: errors.New("boom")}
	h := newHarness(api)
	prev := State{Form: Form{Title: "New"}}

	s := h.ctrl.Submit(context.Background(), prev)
	assert.Empty(t, s.Tasks)
	assert.Equal(t, "New", s.Form.Title)
	assert.Equal(t, []string{NoticeCreate}, h.notices)
}

func TestEditFlow(t *testing.T) {
	api := &fakeAPI{}
	h := newHarness(api)
	s := State{Tasks: seeded()}

	editing := h.ctrl.StartEdit(s, 2)
	assert.Equal(t, int64(2), editing.Editing)
	assert.Equal(t, Form{Title: "B", Description: "second"}, editing.Form)
	v := Render(editing)
	assert.Equal(t, LabelUpdate, v.SubmitLabel)
	assert.True(t, v.ShowCancel)

	cancelled := h.ctrl.CancelEdit(editing)
	assert.False(t, cancelled.IsEditing())
	assert.Equal(t, Form{}, cancelled.Form)
	v = Render(cancelled)
	assert.Equal(t, LabelAdd, v.SubmitLabel)
	assert.False(t, v.ShowCancel)

	assert.Equal(t, s, h.ctrl.StartEdit(s, 404), "unknown id leaves state alone")
	assert.Empty(t, api.methods())
}

func TestSubmitEditKeepsMirroredCompleted(t *testing.T) {
	api := &fakeAPI{}
	h := newHarness(api)
	s := h.ctrl.StartEdit(State{Tasks: seeded()}, 2)
	s.Form.Title = "B renamed"

	next := h.ctrl.Submit(context.Background(), s)
	require.Len(t, api.calls, 1)
	assert.Equal(t, call{method: "update", id: 2, title: "B renamed", desc: "second", completed: true}, api.calls[0])

	got, ok := next.Find(2)
	require.True(t, ok)
	assert.Equal(t, "B renamed", got.Title)
	assert.True(t, got.Completed)
	assert.Equal(t, int64(1), next.Tasks[0].ID, "mirror order is kept")
	assert.False(t, next.IsEditing())
}

func TestSubmitEditFailure(t *testing.T) {
	api := &fakeAPI{updateErr: errors.New("boom")}
	h := newHarness(api)
	s := h.ctrl.StartEdit(State{Tasks: seeded()}, 1)

	next := h.ctrl.Submit(context.Background(), s)
	assert.Equal(t, int64(1), next.Editing)
	assert.Equal(t, seeded(), next.Tasks)
	assert.Equal(t, NoticeUpdate, next.Notice)
}

func TestSubmitEditOfUnloadedTaskFails(t *testing.T) {
	api := &fakeAPI{}
	h := newHarness(api)
	s := State{Editing: 7, Form: Form{Title: "ghost"}}

	next := h.ctrl.Submit(context.Background(), s)
	assert.Equal(t, NoticeUpdate, next.Notice)
	assert.Empty(t, api.methods())
}

func TestToggle(t *testing.T) {
	api := &fakeAPI{}
	h := newHarness(api)

	next := h.ctrl.Toggle(context.Background(), State{Tasks: seeded()}, 1, true)
	got, _ := next.Find(1)
	assert.True(t, got.Completed)

	api.toggleErr = errors.New("boom")
	failed := h.ctrl.Toggle(context.Background(), State{Tasks: seeded()}, 1, true)
	got, _ = failed.Find(1)
	assert.False(t, got.Completed, "no optimistic change")
	assert.Equal(t, NoticeToggle, failed.Notice)
}

func TestDeleteRespectsConfirmation(t *testing.T) {
	api := &fakeAPI{}
	h := newHarness(api)
	h.answer = false

	s := h.ctrl.Delete(context.Background(), State{Tasks: seeded()}, 1)
	assert.Len(t, s.Tasks, 2)
	assert.Equal(t, []string{ConfirmDelete}, h.prompts)
	assert.Empty(t, api.methods())

	h.answer = true
	s = h.ctrl.Delete(context.Background(), s, 1)
	require.Len(t, s.Tasks, 1)
	assert.Equal(t, int64(2), s.Tasks[0].ID)
}

func TestDeleteFailure(t *testing.T) {
	api := &fakeAPI{deleteErr: map[int64]error{1: errors.New("gone")}}
	h := newHarness(api)

	s := h.ctrl.Delete(context.Background(), State{Tasks: seeded()}, 1)
	assert.Len(t, s.Tasks, 2)
	assert.Equal(t, NoticeDelete, s.Notice)
}

func TestDefaultConfirmerRefuses(t *testing.T) {
	api := &fakeAPI{}
	ctrl := NewController(api, WithLogf(func(string, ...any) {}))

	s := ctrl.Delete(context.Background(), State{Tasks: seeded()}, 1)
	assert.Len(t, s.Tasks, 2)
	assert.Empty(t, api.methods())
}

func TestClearCompletedNoopWithoutCompleted(t *testing.T) {
	api := &fakeAPI{}
	h := newHarness(api)
	s := State{Tasks: []Task{{ID: 1, Title: "A"}}}

	assert.Equal(t, s, h.ctrl.ClearCompleted(context.Background(), s))
	assert.Empty(t, h.prompts, "no prompt when nothing to clear")
	assert.Empty(t, api.methods())
}

func TestClearCompletedCancelled(t *testing.T) {
	api := &fakeAPI{}
	h := newHarness(api)
	h.answer = false

	s := h.ctrl.ClearCompleted(context.Background(), State{Tasks: seeded()})
	assert.Len(t, s.Tasks, 2)
	assert.Equal(t, []string{ConfirmClearCompleted}, h.prompts)
	assert.Empty(t, api.methods())
}

func TestClearCompletedDeletesConcurrently(t *testing.T) {
	api := &fakeAPI{barrier: 2}
	h := newHarness(api)
	s := State{Tasks: []Task{
		{ID: 1, Title: "A"},
		{ID: 2, Title: "B", Completed: true},
		{ID: 3, Title: "C", Completed: true},
	}}

	next := h.ctrl.ClearCompleted(context.Background(), s)
	require.Len(t, next.Tasks, 1)
	assert.Equal(t, int64(1), next.Tasks[0].ID)
	assert.Equal(t, int32(2), api.peak.Load(), "both deletes should be in flight together")
	assert.ElementsMatch(t, []string{"delete", "delete"}, api.methods())
}

func TestClearCompletedPartialFailureKeepsMirror(t *testing.T) {
	api := &fakeAPI{barrier: 2, deleteErr: map[int64]error{3: errors.New("locked")}}
	h := newHarness(api)
	s := State{Tasks: []Task{
		{ID: 2, Title: "B", Completed: true},
		{ID: 3, Title: "C", Completed: true},
	}}

	next := h.ctrl.ClearCompleted(context.Background(), s)
	assert.Len(t, next.Tasks, 2, "neither task leaves the mirror")
	assert.Equal(t, NoticeClearCompleted, next.Notice)
	assert.Len(t, api.methods(), 2, "every delete is attempted")
	require.Len(t, h.logLines, 1)
	assert.Contains(t, h.logLines[0], "task 3: locked")
}

func TestSetFilterIsViewOnly(t *testing.T) {
	api := &fakeAPI{}
	h := newHarness(api)
	s := State{Tasks: seeded()}

	next := h.ctrl.SetFilter(s, FilterActive)
	assert.Equal(t, FilterActive, next.Filter)
	assert.Equal(t, s.Tasks, next.Tasks)
	assert.Empty(t, api.methods())
}

func TestSuccessClearsNotice(t *testing.T) {
	api := &fakeAPI{}
	h := newHarness(api)
	s := State{Tasks: seeded(), Notice: NoticeToggle}

	next := h.ctrl.Toggle(context.Background(), s, 2, false)
	assert.Empty(t, next.Notice)
}

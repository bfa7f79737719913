// Package tui is the terminal front end for taskboard.
//
// The Model keeps one app.State snapshot and hands it to the app.Controller
// for every action. Controller calls run inside tea.Cmds and come back as a
// stateMsg, which is merged into the live model rather than replacing it.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Gentleman-Programming/taskboard/internal/app"
)

type Focus int

const (
	FocusList Focus = iota
	FocusTitle
	FocusDescription
)

// Confirmation is a destructive action waiting for y/n.
type Confirmation struct {
	Prompt string
	TaskID int64 // 0 for clear completed
}

type Model struct {
	ctrl *app.Controller

	State  app.State
	Cursor int
	Focus  Focus

	TitleInput       textinput.Model
	DescriptionInput textinput.Model
	Spinner          spinner.Model

	Busy    bool
	Pending *Confirmation

	Width  int
	Height int
}

// New builds the model. The controller's confirmation always passes because
// the model asks first.
func New(api app.API, opts ...app.Option) Model {
	opts = append(opts, app.WithConfirmer(func(string) bool { return true }))

	title := textinput.New()
	title.Placeholder = "What needs to be done?"
	title.CharLimit = 200
	title.Width = 50

	desc := textinput.New()
	desc.Placeholder = "Optional details"
	desc.CharLimit = 500
	desc.Width = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = cursorStyle

	return Model{
		ctrl:             app.NewController(api, opts...),
		TitleInput:       title,
		DescriptionInput: desc,
		Spinner:          sp,
		Busy:             true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.Spinner.Tick,
		m.load(),
	)
}

// ─── Controller commands ─────────────────────────────────────────────────────

// stateMsg is a controller reply. sent is the snapshot the action started
// from; submit marks replies that may own the form.
type stateMsg struct {
	state  app.State
	sent   app.State
	submit bool
}

func runAction(s app.State, submit bool, fn func(ctx context.Context, s app.State) app.State) tea.Cmd {
	return func() tea.Msg {
		return stateMsg{state: fn(context.Background(), s), sent: s, submit: submit}
	}
}

func (m Model) load() tea.Cmd {
	ctrl := m.ctrl
	return runAction(m.State, false, func(ctx context.Context, s app.State) app.State {
		return ctrl.Load(ctx, s)
	})
}

func (m Model) submit() tea.Cmd {
	ctrl := m.ctrl
	return runAction(m.formState(), true, func(ctx context.Context, s app.State) app.State {
		return ctrl.Submit(ctx, s)
	})
}

func (m Model) toggle(id int64, completed bool) tea.Cmd {
	ctrl := m.ctrl
	return runAction(m.formState(), false, func(ctx context.Context, s app.State) app.State {
		return ctrl.Toggle(ctx, s, id, completed)
	})
}

func (m Model) remove(id int64) tea.Cmd {
	ctrl := m.ctrl
	return runAction(m.formState(), false, func(ctx context.Context, s app.State) app.State {
		return ctrl.Delete(ctx, s, id)
	})
}

func (m Model) clearCompleted() tea.Cmd {
	ctrl := m.ctrl
	return runAction(m.formState(), false, func(ctx context.Context, s app.State) app.State {
		return ctrl.ClearCompleted(ctx, s)
	})
}

// applyReply folds a controller reply into the live model. Filter, focus and
// anything typed while the request was in flight are kept. A submit reply
// takes over the form only when the controller changed it.
func (m *Model) applyReply(msg stateMsg) {
	m.State.Tasks = msg.state.Tasks
	m.State.Notice = msg.state.Notice
	if !msg.submit {
		return
	}
	if msg.state.Editing == msg.sent.Editing && msg.state.Form == msg.sent.Form {
		return
	}
	m.State.Editing = msg.state.Editing
	m.State.Form = msg.state.Form
	m.syncInputs()
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// formState is the current snapshot with the text inputs copied in.
func (m Model) formState() app.State {
	s := m.State
	s.Form = app.Form{
		Title:       m.TitleInput.Value(),
		Description: m.DescriptionInput.Value(),
	}
	return s
}

// syncInputs pushes the snapshot's form into the text inputs.
func (m *Model) syncInputs() {
	m.TitleInput.SetValue(m.State.Form.Title)
	m.DescriptionInput.SetValue(m.State.Form.Description)
}

func (m Model) visibleRows() []app.Row {
	return app.Render(m.State).Rows
}

func (m Model) selectedRow() (app.Row, bool) {
	rows := m.visibleRows()
	if m.Cursor < 0 || m.Cursor >= len(rows) {
		return app.Row{}, false
	}
	return rows[m.Cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.visibleRows())
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m *Model) setFocus(f Focus) {
	m.Focus = f
	m.TitleInput.Blur()
	m.DescriptionInput.Blur()
	switch f {
	case FocusTitle:
		m.TitleInput.Focus()
	case FocusDescription:
		m.DescriptionInput.Focus()
	}
}

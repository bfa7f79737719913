package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Gentleman-Programming/taskboard/internal/app"
)

// ─── Update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		// Global quit, always works
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.Pending != nil {
			return m.handleConfirmKeys(msg.String())
		}
		if m.Focus != FocusList {
			return m.handleFormKeys(msg)
		}
		return m.handleListKeys(msg.String())

	case stateMsg:
		m.Busy = false
		m.applyReply(msg)
		m.clampCursor()
		return m, nil
	}

	return m, nil
}

// ─── Confirmation ────────────────────────────────────────────────────────────

func (m Model) handleConfirmKeys(key string) (tea.Model, tea.Cmd) {
	pending := m.Pending
	switch key {
	case "y", "Y":
		m.Pending = nil
		m.Busy = true
		if pending.TaskID != 0 {
			return m, m.remove(pending.TaskID)
		}
		return m, m.clearCompleted()
	case "n", "N", "esc", "q":
		m.Pending = nil
	}
	return m, nil
}

// ─── Form ────────────────────────────────────────────────────────────────────

func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.State.Notice = ""

	switch msg.String() {
	case "enter":
		if m.Busy {
			return m, nil
		}
		m.Busy = true
		return m, m.submit()
	case "tab":
		if m.Focus == FocusTitle {
			m.setFocus(FocusDescription)
		} else {
			m.setFocus(FocusList)
		}
		return m, nil
	case "shift+tab":
		if m.Focus == FocusDescription {
			m.setFocus(FocusTitle)
		} else {
			m.setFocus(FocusList)
		}
		return m, nil
	case "esc":
		if m.State.IsEditing() {
			m.State = m.ctrl.CancelEdit(m.formState())
			m.syncInputs()
		}
		m.setFocus(FocusList)
		return m, nil
	}

	// Let the text input component handle everything else
	var cmd tea.Cmd
	if m.Focus == FocusTitle {
		m.TitleInput, cmd = m.TitleInput.Update(msg)
	} else {
		m.DescriptionInput, cmd = m.DescriptionInput.Update(msg)
	}
	return m, cmd
}

// ─── List ────────────────────────────────────────────────────────────────────

func (m Model) handleListKeys(key string) (tea.Model, tea.Cmd) {
	// Clear notice on any keypress
	m.State.Notice = ""

	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil
	case "down", "j":
		if m.Cursor < len(m.visibleRows())-1 {
			m.Cursor++
		}
		return m, nil
	case "tab", "n", "a":
		m.setFocus(FocusTitle)
		return m, nil
	case "1":
		return m.withFilter(app.FilterAll), nil
	case "2":
		return m.withFilter(app.FilterActive), nil
	case "3":
		return m.withFilter(app.FilterCompleted), nil
	case "f":
		return m.withFilter(m.State.Filter.Next()), nil
	case "esc":
		if m.State.IsEditing() {
			m.State = m.ctrl.CancelEdit(m.State)
			m.syncInputs()
		}
		return m, nil
	case "q":
		return m, tea.Quit
	}

	if m.Busy {
		return m, nil
	}

	row, ok := m.selectedRow()
	switch key {
	case "r":
		m.Busy = true
		return m, m.load()
	case "e", "enter":
		if ok {
			m.State = m.ctrl.StartEdit(m.State, row.ID)
			m.syncInputs()
			m.setFocus(FocusTitle)
		}
	case " ", "x":
		if ok {
			m.Busy = true
			return m, m.toggle(row.ID, !row.Completed)
		}
	case "d":
		if ok {
			m.Pending = &Confirmation{Prompt: app.ConfirmDelete, TaskID: row.ID}
		}
	case "C":
		if m.State.HasCompleted() {
			m.Pending = &Confirmation{Prompt: app.ConfirmClearCompleted}
		}
	}
	return m, nil
}

func (m Model) withFilter(f app.Filter) Model {
	m.State = m.ctrl.SetFilter(m.State, f)
	m.Cursor = 0
	return m
}

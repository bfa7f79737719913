// Package app is the client-side controller for taskboard.
//
// All client state lives in a single State value. Every handler takes the
// current snapshot and returns the next one; nothing is kept in package or
// controller fields. The task mirror is only changed after the server has
// confirmed the mutation.
package app

import (
	"fmt"
	"strings"

	"github.com/Gentleman-Programming/taskboard/internal/client"
)

type Task = client.Task

// ─── Filter ──────────────────────────────────────────────────────────────────

type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

var filterNames = [...]string{"all", "active", "completed"}

func (f Filter) String() string {
	if f < FilterAll || f > FilterCompleted {
		return fmt.Sprintf("Filter(%d)", int(f))
	}
	return filterNames[f]
}

// Match reports whether t is visible under f.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Next cycles all → active → completed → all.
func (f Filter) Next() Filter {
	return (f + 1) % Filter(len(filterNames))
}

// FilterFromString parses the names produced by String.
func FilterFromString(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "active":
		return FilterActive, nil
	case "completed", "done":
		return FilterCompleted, nil
	}
	return FilterAll, fmt.Errorf("unknown filter %q (want all, active or completed)", s)
}

// ─── State ───────────────────────────────────────────────────────────────────

type Form struct {
	Title       string
	Description string
}

type State struct {
	Tasks   []Task
	Filter  Filter
	Editing int64 // 0 when creating
	Form    Form
	Notice  string
}

func (s State) IsEditing() bool {
	return s.Editing != 0
}

func (s State) Find(id int64) (Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

func (s State) HasCompleted() bool {
	for _, t := range s.Tasks {
		if t.Completed {
			return true
		}
	}
	return false
}

func (s State) clone() State {
	next := s
	next.Tasks = append([]Task(nil), s.Tasks...)
	return next
}

func (s State) replace(updated Task) State {
	next := s.clone()
	for i := range next.Tasks {
		if next.Tasks[i].ID == updated.ID {
			next.Tasks[i] = updated
		}
	}
	return next
}

func (s State) without(keep func(Task) bool) State {
	next := s
	next.Tasks = make([]Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if keep(t) {
			next.Tasks = append(next.Tasks, t)
		}
	}
	return next
}

func (s State) resetForm() State {
	s.Editing = 0
	s.Form = Form{}
	return s
}

// Package tasks holds the validation and error mapping that sits between
// the transport layers (HTTP, MCP) and the store.
//
// The service never retries. Store failures are wrapped in StoreError and
// returned immediately; missing rows become NotFoundError; bad input becomes
// ValidationError before anything reaches the store.
package tasks

import (
	"errors"
	"strings"

	"github.com/Gentleman-Programming/taskboard/internal/store"
)

// Repository is the persistence contract the service depends on.
// *store.Store satisfies it.
type Repository interface {
	CreateTask(title, description string) (*store.Task, error)
	GetTask(id int64) (*store.Task, error)
	ListTasks() ([]store.Task, error)
	UpdateTask(id int64, p store.UpdateTaskParams) (*store.Task, error)
	SetCompleted(id int64, completed bool) (*store.Task, error)
	DeleteTask(id int64) error
	Stats() (*store.Stats, error)
}

type CreateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateInput is the body of a full update. Pointers distinguish "absent"
// from zero values; Completed absent is written as false.
type UpdateInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

type PatchInput struct {
	Completed *bool `json:"completed"`
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List() ([]store.Task, error) {
	tasks, err := s.repo.ListTasks()
	if err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}
	return tasks, nil
}

func (s *Service) Get(id int64) (*store.Task, error) {
	t, err := s.repo.GetTask(id)
	if err != nil {
		return nil, mapStoreErr("get", id, err)
	}
	return t, nil
}

func (s *Service) Create(in CreateInput) (*store.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, validation("title", "Title is required")
	}

	t, err := s.repo.CreateTask(title, in.Description)
	if err != nil {
		return nil, &StoreError{Op: "create", Err: err}
	}
	return t, nil
}

func (s *Service) Update(id int64, in UpdateInput) (*store.Task, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, validation("title", "Title is required")
	}

	p := store.UpdateTaskParams{Title: strings.TrimSpace(*in.Title)}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Completed != nil {
		p.Completed = *in.Completed
	}

	t, err := s.repo.UpdateTask(id, p)
	if err != nil {
		return nil, mapStoreErr("update", id, err)
	}
	return t, nil
}

func (s *Service) SetCompleted(id int64, in PatchInput) (*store.Task, error) {
	if in.Completed == nil {
		return nil, validation("completed", "Completed status is required")
	}

	t, err := s.repo.SetCompleted(id, *in.Completed)
	if err != nil {
		return nil, mapStoreErr("patch", id, err)
	}
	return t, nil
}

// Delete removes the row and reports which id was removed.
func (s *Service) Delete(id int64) (int64, error) {
	if err := s.repo.DeleteTask(id); err != nil {
		return 0, mapStoreErr("delete", id, err)
	}
	return id, nil
}

func (s *Service) Stats() (*store.Stats, error) {
	stats, err := s.repo.Stats()
	if err != nil {
		return nil, &StoreError{Op: "stats", Err: err}
	}
	return stats, nil
}

func mapStoreErr(op string, id int64, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{ID: id}
	}
	return &StoreError{Op: op, Err: err}
}

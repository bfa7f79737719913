package tasks

import (
	"errors"
	"fmt"
)

// ValidationError reports a missing or empty required field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports that no task exists with the given id.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return "Task not found"
}

// StoreError wraps a persistence failure. The underlying message is passed
// through unchanged so callers can surface it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

func validation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

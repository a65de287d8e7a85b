package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no todo has the requested id.
	ErrNotFound = errors.New("not found")

	// ErrEmptyText is returned when a todo text is empty after trimming.
	ErrEmptyText = errors.New("todo text required")

	// ErrTextTooLong is returned when a todo text exceeds MaxTextLength.
	ErrTextTooLong = errors.New("todo text too long")
)

// StorageError wraps a failure from a storage backend.
type StorageError struct {
	Op  string // "get", "add", "toggle", "delete" or "clear"
	ID  string // todo id, if the operation addressed one
	Err error
}

func (e *StorageError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Wrap returns err wrapped in a StorageError, or nil if err is nil.
func Wrap(op, id string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, ID: id, Err: err}
}

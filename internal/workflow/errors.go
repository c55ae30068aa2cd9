package workflow

import (
	"fmt"

	"github.com/google/uuid"
)

// NotFoundError is returned when the referenced event does not exist. Fatal
// to the call, never retried.
type NotFoundError struct {
	EventID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("event %s not found", e.EventID)
}

// StorageError wraps a failure at the persistence boundary. It is the only
// error kind callers may retry.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

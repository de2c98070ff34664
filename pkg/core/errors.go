package core

import (
	"errors"
	"fmt"
)

// Common errors. Every operation failure is one of these (possibly wrapped);
// none of them is fatal — callers surface them and carry on.
var (
	// ErrInvalidID rejects malformed identifiers before they reach the Store.
	ErrInvalidID = errors.New("invalid note id")

	// ErrNotFound means the id did not resolve to a stored note.
	ErrNotFound = errors.New("note not found")

	// ErrNoSelection means an operation required a currently edited note and none was set.
	ErrNoSelection = errors.New("no note selected")

	// ErrInvalidFormat means an import payload failed schema validation.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrSaveTimeout means an in-flight save exceeded its guard window.
	// The editor's live content is untouched; the user may retry manually.
	ErrSaveTimeout = errors.New("save timed out")

	// ErrUndoEmpty means undo was requested with nothing in the undo buffer.
	ErrUndoEmpty = errors.New("nothing to undo")
)

// StorageError wraps a failure of the underlying persistence substrate.
// Op names the store verb that failed ("insert", "replace", "remove", "fetch").
type StorageError struct {
	Op    string
	Cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError builds a StorageError for the given store verb.
func NewStorageError(op string, cause error) *StorageError {
	return &StorageError{Op: op, Cause: cause}
}

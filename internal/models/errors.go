package models

import (
	"errors"
	"fmt"
)

// ErrorType identifies the category of error that occurred.
type ErrorType string

const (
	// Recipe loading (fatal, aborts the run)
	ErrConfig ErrorType = "config_error"

	// Task shape problems (task fails, run continues)
	ErrValidation ErrorType = "validation_error"

	// Fetch engine
	ErrFetchTimeout    ErrorType = "fetch_timeout"
	ErrCheckoutFailed  ErrorType = "checkout_failed"
	ErrSubpathNotFound ErrorType = "subpath_not_found"
	ErrHTTP            ErrorType = "http_error"

	// Filesystem handlers
	ErrFilesystemConflict ErrorType = "filesystem_conflict"

	// Catch-all
	ErrInternal ErrorType = "internal_error"
)

// TaskError carries the error category alongside the message so the
// orchestrator can log failures uniformly and callers can branch on
// the category with errors.As.
type TaskError struct {
	Type    ErrorType
	Message string
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// NewTaskError builds a TaskError with a formatted message.
func NewTaskError(t ErrorType, format string, args ...any) *TaskError {
	return &TaskError{Type: t, Message: fmt.Sprintf(format, args...)}
}

// ErrorTypeOf extracts the taxonomy category from err, or ErrInternal
// when err is not a TaskError.
func ErrorTypeOf(err error) ErrorType {
	var te *TaskError
	if errors.As(err, &te) {
		return te.Type
	}
	return ErrInternal
}

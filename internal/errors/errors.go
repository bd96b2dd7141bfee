// Package errors provides centralized error definitions and error handling utilities
// for taskboard. It defines sentinel errors for board and storage failures,
// semantic error types with context, and classification helpers used by the CLI
// to decide what to show to users.
//
// # Error Types
//
// Domain-specific errors represent errors from a subsystem:
//   - StoreError: errors from a persistence backend (file, redis, mysql)
//
// Semantic errors represent common error conditions:
//   - NotFoundError: a task or column could not be found
//   - ValidationError: invalid input (empty title, bad priority, bad index)
//
// The board manager itself never returns these: its mutations decline
// silently and report a bool. The command layer turns a declined mutation
// into one of these errors so the user gets a reason.
//
// # Usage
//
//	err := errors.NewNotFoundError("task", "42")
//	if errors.Is(err, errors.ErrTaskNotFound) { ... }
//
//	var storeErr *errors.StoreError
//	if errors.As(err, &storeErr) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are only interesting while debugging.
	SeverityDebug Severity = iota
	// SeverityWarning is for declined operations and bad input.
	SeverityWarning
	// SeverityError is for failures that lose or corrupt data.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Board sentinel errors
var (
	// ErrTaskNotFound indicates that no task has the requested id.
	ErrTaskNotFound = New("task not found")
	// ErrColumnNotFound indicates that no column has the requested id.
	ErrColumnNotFound = New("column not found")
	// ErrColumnProtected indicates an attempt to remove a default column
	// or the last remaining column.
	ErrColumnProtected = New("column cannot be removed")
	// ErrEmptyTitle indicates a title that is empty after trimming.
	ErrEmptyTitle = New("title must not be empty")
	// ErrInvalidPriority indicates a priority outside Low, Medium, High.
	ErrInvalidPriority = New("invalid priority")
	// ErrIndexOutOfRange indicates a position outside the current list.
	ErrIndexOutOfRange = New("index out of range")
)

// Storage sentinel errors
var (
	// ErrStoreUnavailable indicates the backend could not be reached.
	ErrStoreUnavailable = New("store unavailable")
	// ErrCorruptState indicates persisted data that could not be decoded.
	ErrCorruptState = New("persisted state corrupted")
	// ErrUnknownBackend indicates a store backend name that is not supported.
	ErrUnknownBackend = New("unknown store backend")
)

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// classified is implemented by every error type in this package.
type classified interface {
	error
	Severity() Severity
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// StoreError represents a failure in a persistence backend.
//
// Example:
//
//	err := errors.NewStoreError("write failed", ioErr).WithBackend("file").WithKey("kanban-tasks")
//	fmt.Println(err) // "store error [backend=file, key=kanban-tasks]: write failed: ..."
type StoreError struct {
	baseError
	Backend string
	Key     string
}

// NewStoreError creates a new StoreError.
func NewStoreError(message string, cause error) *StoreError {
	return &StoreError{
		baseError: baseError{
			message:  message,
			cause:    cause,
			severity: SeverityError,
		},
	}
}

// WithBackend records which backend failed.
func (e *StoreError) WithBackend(backend string) *StoreError {
	e.Backend = backend
	return e
}

// WithKey records the key being read or written.
func (e *StoreError) WithKey(key string) *StoreError {
	e.Key = key
	return e
}

// Error returns the formatted error message.
func (e *StoreError) Error() string {
	var parts []string
	if e.Backend != "" {
		parts = append(parts, "backend="+e.Backend)
	}
	if e.Key != "" {
		parts = append(parts, "key="+e.Key)
	}

	prefix := "store error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("store error [%s]", strings.Join(parts, ", "))
	}
	return fmt.Sprintf("%s: %s", prefix, e.baseError.Error())
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a task or column that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("column", "col7")
//	fmt.Println(err) // "column 'col7' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError. The resource types "task"
// and "column" match ErrTaskNotFound and ErrColumnNotFound with errors.Is.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	switch target {
	case ErrTaskNotFound:
		return e.ResourceType == "task"
	case ErrColumnNotFound:
		return e.ResourceType == "column"
	}
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return false
}

// ValidationError represents invalid input.
//
// Example:
//
//	err := errors.NewValidationError("title must not be empty").WithField("title")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// -----------------------------------------------------------------------------
// Classification
// -----------------------------------------------------------------------------

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	var c classified
	if As(err, &c) {
		return c.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that are not from this package.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}
	var c classified
	if As(err, &c) {
		return c.Severity()
	}
	return SeverityError
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

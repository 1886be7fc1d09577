package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound signals that the target of an operation does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrAuthFailure is returned for every failed authentication attempt,
	// whatever the underlying reason. Callers must not be able to tell a
	// missing account from a wrong password or a pending approval.
	ErrAuthFailure = errors.New("invalid credentials or account not allowed to sign in")

	// ErrPermissionDenied signals an authorization failure on an
	// administrative action.
	ErrPermissionDenied = errors.New("permission denied")
)

// ValidationError carries field-tagged structural errors. All problems found
// during a validation pass are collected so the caller can present them in
// one round trip.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e.Fields[field], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// UniqueViolationError wraps a Postgres unique-constraint failure (23505).
// The Field names the column whose constraint fired (serial, email, name) so
// handlers can map it back to a specific input.
type UniqueViolationError struct {
	Field   string
	message string
	code    string
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", e.message, e.code)
}

// ForeignKeyViolationError wraps a Postgres FK failure (23503): deleting a
// catalog entry still referenced by inventory items, or writing an item
// that points at a catalog entry that does not exist.
type ForeignKeyViolationError struct {
	message string
	code    string
}

func (e *ForeignKeyViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", e.message, e.code)
}

// WrapDBError categorizes a database error by its Postgres error code.
// Constraint violations are only detectable at commit time, so they surface
// as distinct types rather than being folded into ValidationError.
func WrapDBError(message, field, code string) error {
	switch code {
	case "23505":
		return &UniqueViolationError{
			Field:   field,
			message: message,
			code:    code,
		}
	case "23503":
		return &ForeignKeyViolationError{
			message: message,
			code:    code,
		}
	default:
		return fmt.Errorf("uncategorized database error with code %s: %s", code, message)
	}
}

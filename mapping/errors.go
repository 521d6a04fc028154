package mapping

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidMapping indicates a mapping definition error.
	ErrInvalidMapping = errors.New("mapping: invalid mapping")
)

// Error represents a mapping definition error.
type Error struct {
	Entity    string // Entity name
	Attribute string // Attribute name (if applicable)
	Message   string
	Cause     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("mapping: invalid mapping")
	if e.Entity != "" {
		b.WriteString(" for entity ")
		b.WriteString(e.Entity)
	}
	if e.Attribute != "" {
		b.WriteString(" attribute ")
		b.WriteString(e.Attribute)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for Error.
func (e *Error) Is(target error) bool {
	return target == ErrInvalidMapping
}

// NewError creates a new mapping Error.
func NewError(entity, attribute, message string, cause error) *Error {
	return &Error{
		Entity:    entity,
		Attribute: attribute,
		Message:   message,
		Cause:     cause,
	}
}

// IsInvalidMapping reports whether the error is a mapping Error.
func IsInvalidMapping(err error) bool {
	if err == nil {
		return false
	}
	var e *Error
	return errors.As(err, &e) || errors.Is(err, ErrInvalidMapping)
}

// errorf is a shorthand used by validation.
func errorf(entity, attribute, format string, args ...any) *Error {
	return NewError(entity, attribute, fmt.Sprintf(format, args...), nil)
}

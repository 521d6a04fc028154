package lazyload

import (
	"errors"
	"fmt"
	"reflect"
)

// Standard sentinel errors for common operations.
var (
	// ErrNotEnhanced is returned when a lazy-loading operation is invoked
	// on an entity type that does not carry an interception slot.
	ErrNotEnhanced = errors.New("lazyload: entity type not enhanced for lazy loading")

	// ErrTypeMismatch is returned when an instance passed to a descriptor
	// is not of the descriptor's runtime type.
	ErrTypeMismatch = errors.New("lazyload: instance type mismatch")
)

// NotEnhancedError represents an error when a lazy-loading operation is
// called against an entity type whose descriptor determined at build time
// that instances cannot carry an interceptor.
type NotEnhancedError struct {
	entity string
	typ    reflect.Type
}

// Error returns the error string.
func (e *NotEnhancedError) Error() string {
	if e.typ != nil {
		return fmt.Sprintf("lazyload: entity type %s [%s] is not enhanced for lazy loading", e.entity, e.typ)
	}
	return fmt.Sprintf("lazyload: entity type %s is not enhanced for lazy loading", e.entity)
}

// Is reports whether the target error matches NotEnhancedError.
// This allows errors.Is(notEnhancedErr, ErrNotEnhanced) to return true.
func (e *NotEnhancedError) Is(err error) bool {
	return err == ErrNotEnhanced
}

// Entity returns the mapped entity name.
func (e *NotEnhancedError) Entity() string {
	return e.entity
}

// NewNotEnhancedError returns a new NotEnhancedError for the given entity type.
func NewNotEnhancedError(entity string, typ reflect.Type) *NotEnhancedError {
	return &NotEnhancedError{entity: entity, typ: typ}
}

// IsNotEnhanced returns true if the error is a NotEnhancedError.
func IsNotEnhanced(err error) bool {
	if err == nil {
		return false
	}
	var e *NotEnhancedError
	return errors.As(err, &e) || errors.Is(err, ErrNotEnhanced)
}

// TypeMismatchError represents an error when the instance handed to a
// descriptor operation is not of the descriptor's expected runtime type.
type TypeMismatchError struct {
	entity   string
	expected reflect.Type
	instance any
}

// Error returns the error string.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("lazyload: passed instance [%v] is not of expected type [%s] for entity %s", e.instance, e.expected, e.entity)
}

// Is reports whether the target error matches TypeMismatchError.
// This allows errors.Is(mismatchErr, ErrTypeMismatch) to return true.
func (e *TypeMismatchError) Is(err error) bool {
	return err == ErrTypeMismatch
}

// Entity returns the mapped entity name.
func (e *TypeMismatchError) Entity() string {
	return e.entity
}

// Expected returns the runtime type the descriptor expects.
func (e *TypeMismatchError) Expected() reflect.Type {
	return e.expected
}

// Instance returns the offending instance.
func (e *TypeMismatchError) Instance() any {
	return e.instance
}

// NewTypeMismatchError returns a new TypeMismatchError for the given instance.
func NewTypeMismatchError(entity string, expected reflect.Type, instance any) *TypeMismatchError {
	return &TypeMismatchError{entity: entity, expected: expected, instance: instance}
}

// IsTypeMismatch returns true if the error is a TypeMismatchError.
func IsTypeMismatch(err error) bool {
	if err == nil {
		return false
	}
	var e *TypeMismatchError
	return errors.As(err, &e) || errors.Is(err, ErrTypeMismatch)
}

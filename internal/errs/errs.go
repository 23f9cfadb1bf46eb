// Package errs holds the error taxonomy shared by the storage layer, the
// order services and the command-line surface.
//
// Every typed error unwraps to a sentinel, so callers classify failures with
// errors.Is and read details with errors.As:
//
//	var verr *errs.ValidationError
//	if errors.As(err, &verr) { ... verr.Field ... }
//	if errors.Is(err, errs.ErrDuplicate) { ... }
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrDuplicate      = errors.New("duplicate value")
	ErrReferential    = errors.New("referenced by existing rows")
	ErrEmptySelection = errors.New("no workers selected")
	ErrPersistence    = errors.New("persistence failure")
	ErrNotFound       = errors.New("object not found")
	ErrRateNotFound   = errors.New("rate not found")
	ErrRender         = errors.New("render failure")
)

type ValidationError struct {
	Field  string
	Reason string
	Cause  error
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func NewValidationErrorWithCause(field, reason string, cause error) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, Cause: cause}
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Reason)
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// DuplicateError reports a unique-constraint violation on an entity name.
type DuplicateError struct {
	Entity string
	Name   string
}

func NewDuplicateError(entity, name string) *DuplicateError {
	return &DuplicateError{Entity: entity, Name: name}
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s: %s %q already exists", ErrDuplicate, e.Entity, e.Name)
}

func (e *DuplicateError) Unwrap() error {
	return ErrDuplicate
}

// ReferentialError reports a delete blocked by rows that still reference the entity.
type ReferentialError struct {
	Entity string
	ID     int64
	Cause  error
}

func NewReferentialError(entity string, id int64, cause error) *ReferentialError {
	return &ReferentialError{Entity: entity, ID: id, Cause: cause}
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("%s id=%d is %s", e.Entity, e.ID, ErrReferential)
}

func (e *ReferentialError) Unwrap() error {
	return ErrReferential
}

// PersistenceError wraps a failed transaction. It matches both ErrPersistence
// and the underlying driver error.
type PersistenceError struct {
	Op    string
	Cause error
}

func NewPersistenceError(op string, cause error) *PersistenceError {
	return &PersistenceError{Op: op, Cause: cause}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrPersistence, e.Cause)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Cause}
}

// RenderFailure describes a report field that could not be drawn as shaped.
// It is logged and never returned from a render call.
type RenderFailure struct {
	Field string
	Text  string
	Cause error
}

func (e *RenderFailure) Error() string {
	return fmt.Sprintf("%s: field %s: %v", ErrRender, e.Field, e.Cause)
}

func (e *RenderFailure) Unwrap() error {
	return ErrRender
}

// IsOperatorError reports whether err should be shown to the operator as a
// correctable input problem rather than a system failure.
func IsOperatorError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrDuplicate) ||
		errors.Is(err, ErrReferential) ||
		errors.Is(err, ErrEmptySelection) ||
		errors.Is(err, ErrNotFound)
}

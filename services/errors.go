package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a client-facing failure
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindConflict
)

// Error is a business-rule failure reported to the caller; nothing was mutated
// unless the operation documents a side effect.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func validationError(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func notFoundError(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func forbiddenError(format string, args ...any) error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func conflictError(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// ErrUnauthorized is returned when the admin secret does not match
var ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "Unauthorized"}

// KindOf returns the kind of a service error, or 0 for anything else
// (storage faults and unexpected errors).
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure so handlers can pick a status code
// without inspecting error strings.
type Kind int

const (
	Unknown Kind = iota
	Validation
	NotFound
	Forbidden
	Conflict
)

// Error is a classified application error.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// Validationf creates a Validation error.
func Validationf(format string, args ...interface{}) error {
	return &Error{Kind: Validation, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundf creates a NotFound error.
func NotFoundf(format string, args ...interface{}) error {
	return &Error{Kind: NotFound, Msg: fmt.Sprintf(format, args...)}
}

// Forbiddenf creates a Forbidden error.
func Forbiddenf(format string, args ...interface{}) error {
	return &Error{Kind: Forbidden, Msg: fmt.Sprintf(format, args...)}
}

// Conflictf creates a Conflict error.
func Conflictf(format string, args ...interface{}) error {
	return &Error{Kind: Conflict, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of err, or Unknown for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

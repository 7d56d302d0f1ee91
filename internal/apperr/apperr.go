// Package apperr defines the application error taxonomy. Every error
// surfaced to a caller carries a stable machine-readable kind plus a
// human message; internal causes stay wrapped and are never exposed.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the machine-readable error category
type Kind string

const (
	KindNotFound       Kind = "not_found"
	KindInvalidInput   Kind = "invalid_input"
	KindInvalidState   Kind = "invalid_state"
	KindAuthentication Kind = "authentication_error"
	KindUpload         Kind = "upload_error"
)

// Error is an application error with a kind, a caller-safe message and
// an optional wrapped cause
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func InvalidInput(message string) *Error {
	return New(KindInvalidInput, message)
}

func InvalidState(message string) *Error {
	return New(KindInvalidState, message)
}

func Authentication(message string) *Error {
	return New(KindAuthentication, message)
}

func Upload(message string, err error) *Error {
	return Wrap(KindUpload, message, err)
}

// KindOf returns the kind of err, or "" if err is not an application error
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind reports whether err is an application error of the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Package apperror carries the error taxonomy that the HTTP layer maps to
// status codes: not found, validation failure and store failure.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindValidation
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation_failed"
	case KindStore:
		return "store_failed"
	default:
		return "unknown"
	}
}

// StatusCode returns the HTTP status a kind is answered with.
func (k Kind) StatusCode() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is safe to show to clients through Message and Fields only; the cause
// stays server side.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string

	cause error
}

var _ error = (*Error)(nil)

func (e *Error) Error() string {
	str := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.cause != nil {
		str += fmt.Sprintf(": %s", e.cause)
	}
	return str
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// Store wraps a driver error. The message is for logs; handlers answer with
// their own static text.
func Store(message string, cause error) *Error {
	return &Error{Kind: KindStore, Message: message, cause: cause}
}

// Wrap attaches cause to a validation or not-found error.
func (e *Error) Wrap(cause error) *Error {
	err := *e
	err.cause = cause
	return &err
}

// KindOf returns the kind of the first *Error in err's chain. Untyped errors
// count as store failures.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStore
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	ok := errors.As(err, &appErr)
	return appErr, ok
}

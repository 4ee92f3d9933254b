// Package apperr holds the error taxonomy shared by the store, the contest engine and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation       Code = "VALIDATION_ERROR"
	CodeNotFound         Code = "RESOURCE_NOT_FOUND"
	CodeDuplicate        Code = "DUPLICATE_RESOURCE"
	CodeAuthorization    Code = "AUTHORIZATION_ERROR"
	CodeAuthentication   Code = "AUTHENTICATION_ERROR"
	CodeInvalidState     Code = "INVALID_STATE"
	CodeCapacityExceeded Code = "CAPACITY_EXCEEDED"
	CodeInternal         Code = "INTERNAL_ERROR"
)

// Error is a classified failure. Message is safe to show to clients; Err is kept for logs only.
type Error struct {
	Code    Code
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same code, so errors.Is(err, apperr.ErrNotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && t.Message == ""
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidation       = &Error{Code: CodeValidation}
	ErrNotFound         = &Error{Code: CodeNotFound}
	ErrDuplicate        = &Error{Code: CodeDuplicate}
	ErrAuthorization    = &Error{Code: CodeAuthorization}
	ErrAuthentication   = &Error{Code: CodeAuthentication}
	ErrInvalidState     = &Error{Code: CodeInvalidState}
	ErrCapacityExceeded = &Error{Code: CodeCapacityExceeded}
	ErrInternal         = &Error{Code: CodeInternal}
)

func newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error { return newf(CodeValidation, format, args...) }
func NotFound(format string, args ...any) *Error   { return newf(CodeNotFound, format, args...) }
func Duplicate(format string, args ...any) *Error  { return newf(CodeDuplicate, format, args...) }
func Forbidden(format string, args ...any) *Error  { return newf(CodeAuthorization, format, args...) }
func Unauthenticated(format string, args ...any) *Error {
	return newf(CodeAuthentication, format, args...)
}
func InvalidState(format string, args ...any) *Error { return newf(CodeInvalidState, format, args...) }
func CapacityExceeded(format string, args ...any) *Error {
	return newf(CodeCapacityExceeded, format, args...)
}

// Internal wraps an unexpected failure. The cause never reaches the client.
func Internal(err error, format string, args ...any) *Error {
	e := newf(CodeInternal, format, args...)
	e.Err = err
	return e
}

// WithDetails returns a copy of e carrying structured details.
func (e *Error) WithDetails(details any) *Error {
	c := *e
	c.Details = details
	return &c
}

// As extracts the *Error from err, classifying unknown errors as internal.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err, "internal server error")
}

func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	return As(err).Code
}

func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeDuplicate, CodeInvalidState, CodeCapacityExceeded:
		return http.StatusConflict
	case CodeAuthorization:
		return http.StatusForbidden
	case CodeAuthentication:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

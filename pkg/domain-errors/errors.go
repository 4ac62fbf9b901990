// Package domainerrors carries the user-visible error taxonomy. Services return
// these codes; the HTTP layer maps each code to a fixed status and never
// exposes the wrapped cause of an internal error.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code is a stable, machine-readable error identifier.
type Code string

const (
	CodeInvalidMethod       Code = "invalid_method"
	CodeBadRequest          Code = "bad_request"
	CodeNoFaceFound         Code = "no_face_found"
	CodeTooManyPeople       Code = "too_many_people"
	CodeAccountDoesNotExist Code = "account_does_not_exist"
	CodeRateLimited         Code = "rate_limited"
	CodeInternal            Code = "internal_error"
)

// Error is a coded domain error with an optional underlying cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// Is reports whether err is a domain error and returns it.
func Is(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether err (or anything it wraps) carries code.
func HasCode(err error, code Code) bool {
	de, ok := Is(err)
	return ok && de.Code == code
}

// CodeOf returns the code of err, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	if de, ok := Is(err); ok {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its fixed HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidMethod:
		return http.StatusMethodNotAllowed
	case CodeBadRequest, CodeNoFaceFound, CodeTooManyPeople:
		return http.StatusBadRequest
	case CodeAccountDoesNotExist:
		return http.StatusNotFound
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

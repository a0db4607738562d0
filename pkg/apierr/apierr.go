// Package apierr defines the error taxonomy shared by every Agent Docs
// component. A single Error type carries enough structure for the API
// façade to render the {error:{code,message}} envelope without inspecting
// strings.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is one of the six taxonomy members. Unlike an HTTP status, it is
// stable across transports.
type Code string

const (
	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeRateLimited  Code = "rate_limited"
	CodeInternal     Code = "internal"
)

// httpStatus maps each Code onto its HTTP status.
var httpStatus = map[Code]int{
	CodeBadRequest:   http.StatusBadRequest,
	CodeUnauthorized: http.StatusUnauthorized,
	CodeNotFound:     http.StatusNotFound,
	CodeConflict:     http.StatusConflict,
	CodeRateLimited:  http.StatusTooManyRequests,
	CodeInternal:     http.StatusInternalServerError,
}

// Error is the concrete error type returned by Store, LockManager,
// RateLimiter, and AuthGuard. Details carries extra structured fields for
// the HTTP envelope, e.g. a lock conflict's {holder, expires_at}.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Status returns the HTTP status this error maps to.
func (e *Error) Status() int {
	if s, ok := httpStatus[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func newErr(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...any) *Error   { return newErr(CodeBadRequest, format, args...) }
func Unauthorized(format string, args ...any) *Error { return newErr(CodeUnauthorized, format, args...) }
func NotFound(format string, args ...any) *Error     { return newErr(CodeNotFound, format, args...) }
func Conflict(format string, args ...any) *Error     { return newErr(CodeConflict, format, args...) }
func RateLimited(format string, args ...any) *Error  { return newErr(CodeRateLimited, format, args...) }

// Internal wraps a lower-level error (e.g. a bbolt or json failure) with
// a Code the façade can render without leaking storage internals.
func Internal(cause error, format string, args ...any) *Error {
	e := newErr(CodeInternal, format, args...)
	e.cause = cause
	return e
}

// WithDetails attaches structured fields (e.g. lock holder/expiry) and
// returns the same error for chaining at the call site.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// As reports whether err is (or wraps) an *Error, in the errors.As idiom.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns the Code of err if it is an *Error, or CodeInternal
// otherwise — the safe default for an error this package didn't produce.
func CodeOf(err error) Code {
	if e, ok := As(err); ok {
		return e.Code
	}
	return CodeInternal
}

package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents a unique application error code.
type ErrorCode int

const (
	ErrBadRequest ErrorCode = iota + 1000
	ErrNotFound
	ErrInternal
)

// AppError is an application error that knows how to render itself as an
// HTTP status. The ingestion pipeline uses it for the two request-level
// failures it distinguishes: unreadable payloads (client side) and
// unexpected orchestration faults (server side).
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error code onto an HTTP status; the error
// middleware uses it to pick the response status.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrBadRequest:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{Code: ErrBadRequest, Message: message, Err: err}
}

func NewNotFound(resource string, err error) *AppError {
	return &AppError{Code: ErrNotFound, Message: fmt.Sprintf("%s not found", resource), Err: err}
}

func NewInternal(err error) *AppError {
	return &AppError{Code: ErrInternal, Message: "internal server error", Err: err}
}

package httperror

import (
	"fmt"
	"net/http"
)

// Error is a handler error carrying the HTTP status and a stable machine code.
type Error struct {
	Status  int
	Code    string
	Message string
	Details any

	// Compact errors render only {"error": Message}.
	Compact bool

	// Cause is logged by the transport but never sent to clients.
	Cause error
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Wrap records the underlying failure and returns e.
func (e *Error) Wrap(cause error) *Error {
	e.Cause = cause
	return e
}

// Payload returns the JSON body written for the error.
func (e *Error) Payload() map[string]any {
	if e.Compact {
		return map[string]any{"error": e.Message}
	}

	payload := map[string]any{
		"code":    e.Code,
		"message": e.Message,
	}
	if e.Details != nil {
		payload["details"] = e.Details
	}
	return payload
}

func New(status int, code, message string, details any) *Error {
	return &Error{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Compact builds an error rendered as {"error": message}, the shape the
// storefront client expects from catalog endpoints.
func Compact(status int, message string) *Error {
	return &Error{
		Status:  status,
		Message: message,
		Compact: true,
	}
}

func BadRequest(code, message string, details any) *Error {
	return New(http.StatusBadRequest, code, message, details)
}

func Unauthorized(code, message string, details any) *Error {
	return New(http.StatusUnauthorized, code, message, details)
}

func Forbidden(code, message string, details any) *Error {
	return New(http.StatusForbidden, code, message, details)
}

func NotFound(code, message string, details any) *Error {
	return New(http.StatusNotFound, code, message, details)
}

func Conflict(code, message string, details any) *Error {
	return New(http.StatusConflict, code, message, details)
}

func InternalServerError(code, message string, details any) *Error {
	return New(http.StatusInternalServerError, code, message, details)
}

// NoContent signals a successful operation with an empty 204 response.
func NoContent(code, message string, details any) *Error {
	return New(http.StatusNoContent, code, message, details)
}

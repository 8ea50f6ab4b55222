// Package errs defines the error taxonomy shared by all clinic services.
// Every failure a caller can correct is represented here; handlers map each
// kind to a stable HTTP status.
package errs

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Kind classifies an error for transport mapping and logging.
type Kind string

const (
	KindValidation    Kind = "validation_error"
	KindConflict      Kind = "conflict_error"
	KindState         Kind = "state_error"
	KindAuthorization Kind = "authorization_error"
	KindNotFound      Kind = "not_found_error"
)

// FieldViolation describes a single out-of-range or missing field.
type FieldViolation struct {
	Field string  `json:"field"`
	Value float64 `json:"value"`
	Bound string  `json:"violated_bound"`
}

// Error is the concrete error type carried across service boundaries.
type Error struct {
	Kind       Kind             `json:"kind"`
	Message    string           `json:"message"`
	Violations []FieldViolation `json:"violations,omitempty"`
}

func (e *Error) Error() string {
	if len(e.Violations) > 0 {
		return fmt.Sprintf("%s: %s (%d field violations)", e.Kind, e.Message, len(e.Violations))
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func Validation(msg string, violations ...FieldViolation) *Error {
	return &Error{Kind: KindValidation, Message: msg, Violations: violations}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func State(format string, args ...interface{}) *Error {
	return &Error{Kind: KindState, Message: fmt.Sprintf(format, args...)}
}

func Authorization(format string, args ...interface{}) *Error {
	return &Error{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err (or anything it wraps) is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func IsValidation(err error) bool    { return IsKind(err, KindValidation) }
func IsConflict(err error) bool      { return IsKind(err, KindConflict) }
func IsState(err error) bool         { return IsKind(err, KindState) }
func IsAuthorization(err error) bool { return IsKind(err, KindAuthorization) }
func IsNotFound(err error) bool      { return IsKind(err, KindNotFound) }

// HTTPStatus returns the response status for an error kind.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindState:
		return http.StatusUnprocessableEntity
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// JSON writes err as a structured JSON response on the echo context.
// Unclassified errors are reported as a bare 500 without leaking detail.
func JSON(c echo.Context, err error) error {
	var e *Error
	if !errors.As(err, &e) {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
	return c.JSON(HTTPStatus(e), e)
}

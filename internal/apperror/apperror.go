package apperror

import (
	"errors"
	"net/http"
)

type Error struct {
	Code       string
	Message    string
	StatusCode int
	Internal   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Internal
}

var (
	ErrNotFound = &Error{
		Code:       "not_found",
		Message:    "The requested resource was not found",
		StatusCode: http.StatusNotFound,
	}

	ErrUnauthorized = &Error{
		Code:       "unauthorized",
		Message:    "Authentication required",
		StatusCode: http.StatusUnauthorized,
	}

	ErrForbidden = &Error{
		Code:       "forbidden",
		Message:    "You don't have permission to access this resource",
		StatusCode: http.StatusForbidden,
	}

	ErrBadRequest = &Error{
		Code:       "bad_request",
		Message:    "Invalid request",
		StatusCode: http.StatusBadRequest,
	}

	// ErrInvalidRange rejects a custom reporting period whose bounds are
	// missing or inverted.
	ErrInvalidRange = &Error{
		Code:       "invalid_range",
		Message:    "Custom ranges need both a start and an end, with start before end",
		StatusCode: http.StatusBadRequest,
	}

	// ErrInvalidWindow rejects an aggregation window with inverted bounds.
	ErrInvalidWindow = &Error{
		Code:       "invalid_window",
		Message:    "The aggregation window bounds are inverted",
		StatusCode: http.StatusBadRequest,
	}

	ErrUnknownMetric = &Error{
		Code:       "unknown_metric",
		Message:    "This metric kind is not supported",
		StatusCode: http.StatusBadRequest,
	}

	// ErrInvalidTransition rejects a status change that leaves a terminal
	// state or targets an unknown status.
	ErrInvalidTransition = &Error{
		Code:       "invalid_transition",
		Message:    "This status change is not allowed",
		StatusCode: http.StatusUnprocessableEntity,
	}

	// ErrStaleState means the application's status changed under the
	// caller. Safe to retry with the refreshed state.
	ErrStaleState = &Error{
		Code:       "stale_state",
		Message:    "The application status changed concurrently. Refresh and retry",
		StatusCode: http.StatusConflict,
	}

	// ErrTimeout propagates a store deadline. Safe to retry with backoff.
	ErrTimeout = &Error{
		Code:       "timeout",
		Message:    "The operation timed out. Please try again",
		StatusCode: http.StatusGatewayTimeout,
	}

	ErrRateLimited = &Error{
		Code:       "rate_limited",
		Message:    "Too many requests. Please try again later",
		StatusCode: http.StatusTooManyRequests,
	}

	ErrInternal = &Error{
		Code:       "internal_error",
		Message:    "An unexpected error occurred. Please try again later",
		StatusCode: http.StatusInternalServerError,
	}
)

func New(code, message string, statusCode int) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func Wrap(err error, appErr *Error) *Error {
	return &Error{
		Code:       appErr.Code,
		Message:    appErr.Message,
		StatusCode: appErr.StatusCode,
		Internal:   err,
	}
}

func WrapWithMessage(err error, code, message string, statusCode int) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Internal:   err,
	}
}

func Is(err error, target *Error) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == target.Code
	}
	return false
}

// Retryable reports whether the error is transient (stale CAS write or
// store timeout). The core never retries internally; callers may.
func Retryable(err error) bool {
	return Is(err, ErrStaleState) || Is(err, ErrTimeout)
}

func StatusCode(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

func SafeMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ErrInternal.Message
}

func Code(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal.Code
}

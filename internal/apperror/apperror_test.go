package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := &Error{
		Code:       "test_error",
		Message:    "Test error message",
		StatusCode: http.StatusBadRequest,
	}

	if got := err.Error(); got != "Test error message" {
		t.Errorf("Error() = %q, want %q", got, "Test error message")
	}
}

func TestError_Unwrap(t *testing.T) {
	innerErr := errors.New("inner error")
	err := &Error{
		Code:     "wrapped_error",
		Message:  "Wrapped error",
		Internal: innerErr,
	}

	if got := err.Unwrap(); got != innerErr {
		t.Errorf("Unwrap() = %v, want %v", got, innerErr)
	}
}

func TestNew(t *testing.T) {
	err := New("custom_code", "Custom message", http.StatusTeapot)

	if err.Code != "custom_code" {
		t.Errorf("Code = %q, want %q", err.Code, "custom_code")
	}
	if err.Message != "Custom message" {
		t.Errorf("Message = %q, want %q", err.Message, "Custom message")
	}
	if err.StatusCode != http.StatusTeapot {
		t.Errorf("StatusCode = %d, want %d", err.StatusCode, http.StatusTeapot)
	}
}

func TestWrap(t *testing.T) {
	innerErr := errors.New("database error")
	wrapped := Wrap(innerErr, ErrStaleState)

	if wrapped.Code != ErrStaleState.Code {
		t.Errorf("Code = %q, want %q", wrapped.Code, ErrStaleState.Code)
	}
	if wrapped.Internal != innerErr {
		t.Errorf("Internal = %v, want %v", wrapped.Internal, innerErr)
	}
	if !errors.Is(wrapped, innerErr) {
		t.Error("errors.Is should return true for wrapped inner error")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target *Error
		want   bool
	}{
		{"direct sentinel", ErrInvalidTransition, ErrInvalidTransition, true},
		{"wrapped sentinel", Wrap(errors.New("row changed"), ErrStaleState), ErrStaleState, true},
		{"fmt wrapped", fmt.Errorf("transition: %w", ErrInvalidTransition), ErrInvalidTransition, true},
		{"different sentinel", ErrInvalidRange, ErrInvalidWindow, false},
		{"plain error", errors.New("boom"), ErrInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.target); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"stale state", ErrStaleState, true},
		{"timeout", ErrTimeout, true},
		{"wrapped timeout", fmt.Errorf("store: %w", ErrTimeout), true},
		{"invalid transition", ErrInvalidTransition, false},
		{"invalid range", ErrInvalidRange, false},
		{"unknown metric", ErrUnknownMetric, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Retryable(tt.err); got != tt.want {
				t.Errorf("Retryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid range", ErrInvalidRange, http.StatusBadRequest},
		{"invalid window", ErrInvalidWindow, http.StatusBadRequest},
		{"unknown metric", ErrUnknownMetric, http.StatusBadRequest},
		{"invalid transition", ErrInvalidTransition, http.StatusUnprocessableEntity},
		{"stale state", ErrStaleState, http.StatusConflict},
		{"timeout", ErrTimeout, http.StatusGatewayTimeout},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusCode(tt.err); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSafeMessage(t *testing.T) {
	if got := SafeMessage(ErrStaleState); got != ErrStaleState.Message {
		t.Errorf("SafeMessage() = %q, want %q", got, ErrStaleState.Message)
	}
	if got := SafeMessage(errors.New("secret db details")); got != ErrInternal.Message {
		t.Errorf("SafeMessage() = %q, want the generic internal message", got)
	}
}

func TestCode(t *testing.T) {
	if got := Code(ErrUnknownMetric); got != "unknown_metric" {
		t.Errorf("Code() = %q, want %q", got, "unknown_metric")
	}
	if got := Code(errors.New("boom")); got != ErrInternal.Code {
		t.Errorf("Code() = %q, want %q", got, ErrInternal.Code)
	}
}

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "error without cause",
			err:      &Error{Code: ErrCodeValidation, Message: "name is required"},
			expected: "[VALIDATION_ERROR] name is required",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeStorage, "failed to persist contacts", errors.New("permission denied")),
			expected: "[STORAGE_ERROR] failed to persist contacts: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, "wrapper", cause)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestError_Is(t *testing.T) {
	err1 := &Error{Code: ErrCodeConflict, Message: "duplicate email"}
	err2 := &Error{Code: ErrCodeConflict, Message: "another conflict"}
	err3 := &Error{Code: ErrCodeNotFound, Message: "contact not found"}

	if !err1.Is(err2) {
		t.Errorf("Expected errors with same code to match")
	}

	if err1.Is(err3) {
		t.Errorf("Expected errors with different codes to not match")
	}
}

func TestNewStorageError(t *testing.T) {
	cause := errors.New("file not found")
	err := NewStorageError("failed to load store", cause)

	if err.Code != ErrCodeStorage {
		t.Errorf("Expected code %v, got %v", ErrCodeStorage, err.Code)
	}

	if err.Message != "failed to load store" {
		t.Errorf("Expected message 'failed to load store', got %v", err.Message)
	}

	if err.Cause != cause {
		t.Errorf("Expected cause to be preserved")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{
			name:     "domain error",
			err:      NewNotFoundError("contact not found"),
			expected: ErrCodeNotFound,
		},
		{
			name:     "wrapped domain error",
			err:      fmt.Errorf("handler: %w", NewConflictError("duplicate email")),
			expected: ErrCodeConflict,
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			expected: ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.expected {
				t.Errorf("CodeOf() = %v, want %v", got, tt.expected)
			}
		})
	}
}

package internal

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestStorageError(t *testing.T) {
	originalErr := errors.New("permission denied")
	err := &StorageError{
		Key: EntriesKey,
		Op:  "set",
		Err: originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "storage error") {
		t.Errorf("StorageError.Error() should contain 'storage error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, EntriesKey) {
		t.Errorf("StorageError.Error() should contain key, got: %q", errorMsg)
	}

	if !errors.Is(err, originalErr) {
		t.Error("StorageError.Unwrap() should return original error")
	}
}

func TestStorageError_Quota(t *testing.T) {
	var err error = &StorageError{Key: EntriesKey, Op: "set", Err: ErrQuotaExceeded}
	wrapped := fmt.Errorf("failed to save entry: %w", err)

	if !errors.Is(wrapped, ErrQuotaExceeded) {
		t.Error("wrapped StorageError should match ErrQuotaExceeded")
	}
	var se *StorageError
	if !errors.As(wrapped, &se) || se.Op != "set" {
		t.Errorf("errors.As() = %v, want StorageError with op set", se)
	}
}

func TestParseError(t *testing.T) {
	originalErr := errors.New("invalid JSON")
	err := &ParseError{
		Source: "kv",
		Key:    EmotionLogsKey,
		Err:    originalErr,
	}

	errorMsg := err.Error()
	for _, want := range []string{"parse error", "kv", EmotionLogsKey} {
		if !strings.Contains(errorMsg, want) {
			t.Errorf("ParseError.Error() should contain %q, got: %q", want, errorMsg)
		}
	}
	if !errors.Is(err, originalErr) {
		t.Error("ParseError.Unwrap() should return original error")
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{"with field", &ValidationError{Field: "videoMood", Message: "must be between 1 and 5"}, "videoMood: must be between 1 and 5"},
		{"message only", &ValidationError{Message: "Please fill in all fields"}, "Please fill in all fields"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsValidationError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"direct", &ValidationError{Message: "bad"}, true},
		{"wrapped", fmt.Errorf("entry: %w", &ValidationError{Message: "bad"}), true},
		{"storage", &StorageError{Op: "get", Err: errors.New("io")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidationError(tt.err); got != tt.want {
				t.Errorf("IsValidationError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCaptureError(t *testing.T) {
	originalErr := errors.New("permission denied")
	err := &CaptureError{Device: "camera/microphone", Err: originalErr}

	if !strings.Contains(err.Error(), "camera/microphone") {
		t.Errorf("CaptureError.Error() should contain device, got: %q", err.Error())
	}
	if !errors.Is(err, originalErr) {
		t.Error("CaptureError.Unwrap() should return original error")
	}
}

func TestExportError(t *testing.T) {
	originalErr := errors.New("disk full")
	err := &ExportError{Format: "csv", Path: "/tmp/out.csv", Err: originalErr}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "export error") || !strings.Contains(errorMsg, "csv") {
		t.Errorf("ExportError.Error() = %q", errorMsg)
	}
	if !errors.Is(err, originalErr) {
		t.Error("ExportError.Unwrap() should return original error")
	}
}

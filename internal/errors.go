package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrEntryNotFound is returned when deleting an entry id that is not stored
	ErrEntryNotFound = errors.New("entry not found")

	// ErrSessionNotFound is returned when a session id has no records
	ErrSessionNotFound = errors.New("session not found")

	// ErrTrackerRunning is returned by Start while a detection session is active
	ErrTrackerRunning = errors.New("detection already running")

	// ErrTrackerStopped is returned by Start when Stop won the race against capture setup
	ErrTrackerStopped = errors.New("detection stopped before capture was ready")

	// ErrQuotaExceeded mirrors the browser storage quota failure
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// StorageError represents errors reading or writing the key-value store
type StorageError struct {
	Key string
	Op  string // "open", "get", "set", "delete", "list"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError represents errors decoding a stored blob or an imported file
type ParseError struct {
	Source string // "kv", "csv"
	Key    string // storage key or file path
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError is a user input problem. It is shown to the user and never fatal.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CaptureError represents a failure acquiring or reading a capture device
type CaptureError struct {
	Device string
	Err    error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture error [%s]: %v", e.Device, e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err carries a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

/*
errors.go - Centralized error types for the wage engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Adapters (api, store/sqlite, factory) wrap or match these with errors.Is.

ERROR CATEGORIES:
  1. Config errors     - Malformed HH:MM values (degrade, never halt)
  2. Validation errors - Start with bad salary, malformed imports
  3. Storage errors    - Blob read/write failures (logged, never fatal)

RECOVERY:
  Every error is recovered locally. ErrInvalidTimeFormat is only logged;
  the resolver falls back to a zero-length shift. Validation errors reject
  the action and leave state untouched. Storage errors are logged and the
  engine continues with its in-memory state.

SEE ALSO:
  - shift.go:  Returns TimeFormatError
  - engine.go: Logs StorageError, returns ConfigError
  - factory/settings.go: Returns ImportError
*/
package wage

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidTimeFormat is returned when a time-of-day is not HH:MM.
	ErrInvalidTimeFormat = errors.New("invalid time format")

	// ErrInvalidConfig is returned when tracking cannot start because salary
	// or work days are not positive.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrMalformedImport is returned when imported settings are missing
	// fields or carry out-of-range values.
	ErrMalformedImport = errors.New("malformed import")

	// ErrStorage is returned when the persistence adapter fails.
	ErrStorage = errors.New("storage error")

	// ErrCorruptBlob is returned by a BlobStore when the persisted record
	// cannot be decoded.
	ErrCorruptBlob = errors.New("corrupt persisted state")

	// ErrUnknownField is returned by OnInputChange for unknown setting names.
	ErrUnknownField = errors.New("unknown field")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// TimeFormatError reports a time-of-day that could not be parsed.
type TimeFormatError struct {
	Value string
}

func (e *TimeFormatError) Error() string {
	return fmt.Sprintf("invalid time format %q (want HH:MM)", e.Value)
}

func (e *TimeFormatError) Unwrap() error {
	return ErrInvalidTimeFormat
}

// ConfigError reports a setting that blocks starting a session.
type ConfigError struct {
	Field  Field
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// ImportError reports why an imported settings document was rejected.
type ImportError struct {
	Field  Field
	Reason string
}

func (e *ImportError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed import: %s", e.Reason)
	}
	return fmt.Sprintf("malformed import: %s: %s", e.Field, e.Reason)
}

func (e *ImportError) Unwrap() error {
	return ErrMalformedImport
}

// StorageError wraps a persistence failure with the failing operation.
type StorageError struct {
	Op  string // "load", "save", "clear"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid user input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrMalformedImport) ||
		errors.Is(err, ErrUnknownField) ||
		errors.Is(err, ErrInvalidTimeFormat)
}

// IsStorageError returns true if the error came from the persistence adapter.
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorage) || errors.Is(err, ErrCorruptBlob)
}

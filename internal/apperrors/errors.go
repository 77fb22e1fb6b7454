// Package apperrors defines the error taxonomy for the check engine.
//
// Configuration errors (not found, invalid) are non-retryable and abort the
// run before any compiler subprocess is spawned. Filesystem and system errors
// abort only the affected group. Type-check findings are never errors: they
// travel as diagnostics inside the result.
package apperrors

import (
	"errors"
	"fmt"
)

// Exit codes consumed by the CLI layer.
const (
	ExitOK          = 0 // no diagnostics, no faults
	ExitDiagnostics = 1 // at least one error-severity diagnostic
	ExitConfig      = 2 // configuration not found or invalid
	ExitSystem      = 3 // binary missing, spawn failure, temp I/O failure
)

// ConfigNotFoundError indicates no project configuration governs a file.
type ConfigNotFoundError struct {
	File       string // file whose configuration was requested
	SearchRoot string // directory the upward walk started from, if any
}

func (e *ConfigNotFoundError) Error() string {
	if e.SearchRoot != "" {
		return fmt.Sprintf("no tsconfig.json found for %s (searched upward from %s)", e.File, e.SearchRoot)
	}
	return fmt.Sprintf("tsconfig.json not found: %s", e.File)
}

// NewConfigNotFoundError creates a new config-not-found error.
func NewConfigNotFoundError(file, searchRoot string) *ConfigNotFoundError {
	return &ConfigNotFoundError{File: file, SearchRoot: searchRoot}
}

// ConfigInvalidError indicates a configuration exists but cannot be used:
// malformed JSON, an unreadable extends target, or a circular extends chain.
type ConfigInvalidError struct {
	Cause  error
	Path   string // config file that failed
	Reason string
}

func (e *ConfigInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid tsconfig %s: %s: %v", e.Path, e.Reason, e.Cause)
	}
	return fmt.Sprintf("invalid tsconfig %s: %s", e.Path, e.Reason)
}

func (e *ConfigInvalidError) Unwrap() error {
	return e.Cause
}

// NewConfigInvalidError creates a new invalid-config error.
func NewConfigInvalidError(path, reason string, cause error) *ConfigInvalidError {
	return &ConfigInvalidError{Path: path, Reason: reason, Cause: cause}
}

// FileSystemError indicates temp-file I/O failed while synthesizing or
// disposing ephemeral configurations.
type FileSystemError struct {
	Cause error
	Path  string
	Op    string // "create", "write", "remove"
}

func (e *FileSystemError) Error() string {
	return fmt.Sprintf("filesystem error: %s %s: %v", e.Op, e.Path, e.Cause)
}

func (e *FileSystemError) Unwrap() error {
	return e.Cause
}

// NewFileSystemError creates a new filesystem error.
func NewFileSystemError(op, path string, cause error) *FileSystemError {
	return &FileSystemError{Op: op, Path: path, Cause: cause}
}

// SystemError indicates the compiler could not be run at all: no binary in
// any search location, a spawn failure, a subprocess crash, or a timeout.
// Distinct from a well-formed non-zero exit carrying diagnostics.
type SystemError struct {
	Cause   error
	Message string
	Timeout bool // true when a caller-supplied timeout cancelled the group
}

func (e *SystemError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("system error: %s: %v", e.Message, e.Cause)
	}
	return "system error: " + e.Message
}

func (e *SystemError) Unwrap() error {
	return e.Cause
}

// NewSystemError creates a new system error.
func NewSystemError(message string, cause error) *SystemError {
	return &SystemError{Message: message, Cause: cause}
}

// NewTimeoutError creates a system error marking a group timeout.
func NewTimeoutError(message string, cause error) *SystemError {
	return &SystemError{Message: message, Cause: cause, Timeout: true}
}

// ExitCodeFor maps an error to the CLI exit-code contract. Nil maps to
// ExitOK; unclassified errors are treated as system faults.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	var notFound *ConfigNotFoundError
	var invalid *ConfigInvalidError
	if errors.As(err, &notFound) || errors.As(err, &invalid) {
		return ExitConfig
	}
	return ExitSystem
}

// IsConfigError reports whether err belongs to the configuration class.
func IsConfigError(err error) bool {
	var notFound *ConfigNotFoundError
	var invalid *ConfigInvalidError
	return errors.As(err, &notFound) || errors.As(err, &invalid)
}

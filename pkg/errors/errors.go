// Package errors provides the error types used across pdbmerge and the
// single mapping from errors to process exit codes. The merge keeps two
// severities apart: recoverable conditions are logged where they are
// detected and never surface as errors, while fatal conditions propagate
// to main as one of the types below.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is is an alias for the standard library errors.Is.
var Is = errors.Is

// As is an alias for the standard library errors.As.
var As = errors.As

// Sentinel errors for the pdbmerge system.
var (
	// ErrUnresolvedConflicts indicates the merge completed but at least one
	// key kept a real conflict under the off policy.
	ErrUnresolvedConflicts = errors.New("unresolved merge conflicts")

	// ErrUsage indicates a malformed command line.
	ErrUsage = errors.New("usage error")

	// ErrInvalidKey indicates a tuning key that does not follow the
	// positional grammar.
	ErrInvalidKey = errors.New("invalid db key")
)

// Exit codes returned by the pdbmerge process.
const (
	ExitOK        = 0 // clean merge, no unresolved conflicts
	ExitConflicts = 1 // merge completed with unresolved conflicts
	ExitFatal     = 2 // usage error, I/O failure, or key decoding failure
)

// ExitCode maps an error returned from the top of the program to the
// process exit code. Every fatal condition (I/O, usage, key grammar) maps
// to ExitFatal; only ErrUnresolvedConflicts maps to ExitConflicts.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUnresolvedConflicts):
		return ExitConflicts
	default:
		return ExitFatal
	}
}

// UsageError represents a malformed command-line invocation.
type UsageError struct {
	Argument string
	Message  string
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	if e.Argument != "" {
		return fmt.Sprintf("%s: %s", e.Argument, e.Message)
	}
	return e.Message
}

// Is implements errors.Is support.
func (e *UsageError) Is(target error) bool {
	return target == ErrUsage
}

// NewUsageError creates a new UsageError.
func NewUsageError(argument, message string) *UsageError {
	return &UsageError{Argument: argument, Message: message}
}

// KeyError represents a tuning key that failed positional decoding.
type KeyError struct {
	Key     string
	Field   int
	Message string
}

// Error implements the error interface.
func (e *KeyError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("invalid db key %q: field %d: %s", e.Key, e.Field, e.Message)
	}
	return fmt.Sprintf("invalid db key %q", e.Key)
}

// Is implements errors.Is support.
func (e *KeyError) Is(target error) bool {
	return target == ErrInvalidKey
}

// NewKeyError creates a new KeyError.
func NewKeyError(key string, field int, message string) *KeyError {
	return &KeyError{Key: key, Field: field, Message: message}
}

// IOError represents a failure to read an input or write an output artifact.
type IOError struct {
	Operation string // "read", "write", "create", "append"
	Path      string
	Err       error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("can not %s file %s: %v", e.Operation, e.Path, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *IOError) Unwrap() error {
	return e.Err
}

// WrapIO wraps an error as an IOError.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// IsUsage checks if an error is a usage error.
func IsUsage(err error) bool {
	return errors.Is(err, ErrUsage)
}

// IsInvalidKey checks if an error is a key decoding error.
func IsInvalidKey(err error) bool {
	return errors.Is(err, ErrInvalidKey)
}

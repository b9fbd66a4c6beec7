// Package errors provides structured error types and exit codes for forkcheck.
package errors

import (
	"errors"
	"fmt"
)

// Exit codes returned by the forkcheck CLI.
const (
	ExitSuccess        = 0 // Success
	ExitFailure        = 1 // Build failure (failing or too flaky tests)
	ExitConfigError    = 2 // Configuration error (invalid config, etc.)
	ExitExecutionError = 3 // Execution error (fork failed to boot, harness defect, etc.)
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	// KindFailure is a test-level build failure.
	KindFailure ErrorKind = iota
	KindConfig
	KindNotFound
	KindValidation
	// KindExecution is a harness-level failure. The measurement itself is
	// untrustworthy, so it is never downgraded by test_failure_ignore.
	KindExecution
)

// String returns the string representation of ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case KindFailure:
		return "failure"
	case KindConfig:
		return "config"
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation"
	case KindExecution:
		return "execution"
	default:
		return "unknown"
	}
}

// ForkcheckError is an error that decides the process exit code.
type ForkcheckError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *ForkcheckError) Error() string {
	return e.Message
}

func (e *ForkcheckError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *ForkcheckError) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindValidation:
		return ExitConfigError
	case KindExecution:
		return ExitExecutionError
	default:
		return ExitFailure
	}
}

// Failure creates a new build failure.
func Failure(message string, cause error) *ForkcheckError {
	return &ForkcheckError{
		Kind:    KindFailure,
		Message: message,
		Cause:   cause,
	}
}

// Execution creates a new execution error.
func Execution(message string, cause error) *ForkcheckError {
	return &ForkcheckError{
		Kind:    KindExecution,
		Message: message,
		Cause:   cause,
	}
}

// Configf creates a usage or configuration error.
func Configf(format string, args ...interface{}) *ForkcheckError {
	return &ForkcheckError{
		Kind:    KindConfig,
		Message: fmt.Sprintf(format, args...),
	}
}

// Validation creates a configuration validation error. The cause's text is
// appended to message so that it reaches the user.
func Validation(message string, cause error) *ForkcheckError {
	if cause != nil {
		message = fmt.Sprintf("%s: %v", message, cause)
	}
	return &ForkcheckError{
		Kind:    KindValidation,
		Message: message,
		Cause:   cause,
	}
}

// NotFound creates a not found error.
func NotFound(what, name string) *ForkcheckError {
	return &ForkcheckError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found: %s", what, name),
	}
}

// KindOf returns the kind of the first ForkcheckError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var fe *ForkcheckError
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}

// IsExecution reports whether err is or wraps a harness-level execution error.
func IsExecution(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindExecution
}

// IsFailure reports whether err is or wraps a test-level build failure.
func IsFailure(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindFailure
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var fe *ForkcheckError
	if errors.As(err, &fe) {
		return fe.ExitCode()
	}
	return ExitFailure
}

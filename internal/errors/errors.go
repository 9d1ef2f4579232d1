package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorMismatch = 3   // Indicates a sum mismatch between strategies or against the expected value.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorWorker   = 5   // Indicates that a summation worker failed.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// WorkerError reports that one worker of a parallel reduction did not
// produce its partial sum. The whole reduction is abandoned when this
// happens; the error identifies the worker and the chunk it owned.
type WorkerError struct {
	// Worker is the zero-based index of the failed worker.
	Worker int
	// Start and End delimit the half-open chunk [Start, End) assigned to it.
	Start, End int
	// Cause is the underlying failure (returned error or recovered panic).
	Cause error
}

// Error returns a formatted message describing the worker failure.
func (e WorkerError) Error() string {
	return fmt.Sprintf("worker %d failed on chunk [%d, %d): %v", e.Worker, e.Start, e.End, e.Cause)
}

// Unwrap returns the original cause so errors.Is and errors.As can inspect it.
func (e WorkerError) Unwrap() error { return e.Cause }

// MismatchError reports a computed sum that differs from the reference value.
type MismatchError struct {
	// Strategy is the name of the strategy whose result disagreed.
	Strategy string
	// Got is the sum computed by Strategy.
	Got int64
	// Want is the reference sum.
	Want int64
}

// Error returns a formatted message describing the mismatch.
func (e MismatchError) Error() string {
	return fmt.Sprintf("strategy %q computed %d, expected %d", e.Strategy, e.Got, e.Want)
}

// MemoryError reports that the dataset cannot be allocated because the
// system does not have enough available memory.
type MemoryError struct {
	// Requested is the number of bytes the operation needed.
	Requested uint64
	// Available is the number of bytes currently available.
	Available uint64
}

// Error returns a formatted message describing the memory error.
func (e MemoryError) Error() string {
	return fmt.Sprintf("memory error: dataset needs %d bytes, only %d bytes available", e.Requested, e.Available)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error to the exit code the process should terminate with.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var (
		workerErr   WorkerError
		mismatchErr MismatchError
		configErr   ConfigError
		validErr    ValidationError
	)
	switch {
	case IsContextError(err):
		return ExitErrorCanceled
	case errors.As(err, &workerErr):
		return ExitErrorWorker
	case errors.As(err, &mismatchErr):
		return ExitErrorMismatch
	case errors.As(err, &configErr), errors.As(err, &validErr):
		return ExitErrorConfig
	default:
		return ExitErrorGeneric
	}
}

// HandleBenchmarkError prints a one-line diagnostic for err and returns the
// matching exit code. A nil error prints nothing and returns ExitSuccess.
func HandleBenchmarkError(err error, out io.Writer) int {
	code := ExitCodeFor(err)
	switch code {
	case ExitSuccess:
	case ExitErrorCanceled:
		fmt.Fprintf(out, "Benchmark canceled: %v\n", err)
	case ExitErrorWorker:
		fmt.Fprintf(out, "Benchmark aborted, a summation worker failed: %v\n", err)
	default:
		fmt.Fprintf(out, "Error: %v\n", err)
	}
	return code
}

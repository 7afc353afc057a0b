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
	ExitSuccess        = 0   // Indicates successful execution.
	ExitErrorGeneric   = 1   // Indicates a generic error.
	ExitErrorConfig    = 4   // Indicates a configuration error.
	ExitErrorInvariant = 5   // Indicates a simulation invariant was violated.
	ExitErrorCanceled  = 130 // Indicates the operation was canceled (e.g., SIGINT).
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

// InvariantViolation reports a broken simulation invariant. It is a logic
// error, never a transient one: the run that produced it must be aborted.
type InvariantViolation struct {
	// Invariant names the rule that failed (e.g. "reveal-not-winning").
	Invariant string
	// Index is the trial index being evaluated, 0 if not tied to a trial.
	Index uint64
	// Detail carries the offending values.
	Detail string
}

// Error returns a message naming the invariant and the offending trial.
func (e InvariantViolation) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("invariant %q violated at trial %d", e.Invariant, e.Index)
	}
	return fmt.Sprintf("invariant %q violated at trial %d: %s", e.Invariant, e.Index, e.Detail)
}

// SimulationError encapsulates a failed simulation run while preserving the
// original cause, along with the worker that observed it.
type SimulationError struct {
	// Worker is the label of the worker that failed.
	Worker string
	// Cause is the underlying error that aborted the run.
	Cause error
}

// Error returns the worker label followed by the cause message.
func (e SimulationError) Error() string {
	return fmt.Sprintf("worker %s: %v", e.Worker, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e SimulationError) Unwrap() error { return e.Cause }

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Returns nil if err is nil.
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

// ColorProvider supplies the escape sequences used when rendering errors.
// The CLI passes its theme-backed implementation; tests pass a no-op.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

// ExitCodeFor maps an error to the process exit status.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var iv InvariantViolation
	var ce ConfigError
	var ve ValidationError
	switch {
	case errors.As(err, &iv):
		return ExitErrorInvariant
	case errors.As(err, &ce), errors.As(err, &ve):
		return ExitErrorConfig
	case IsContextError(err):
		return ExitErrorCanceled
	default:
		return ExitErrorGeneric
	}
}

// HandleRunError writes a diagnostic for a failed run and returns the exit
// code the process should terminate with.
func HandleRunError(err error, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	code := ExitCodeFor(err)
	var iv InvariantViolation
	switch {
	case errors.As(err, &iv):
		fmt.Fprintf(out, "%sFatal: invariant %q failed at trial %d.%s\n",
			colors.Red(), iv.Invariant, iv.Index, colors.Reset())
		if iv.Detail != "" {
			fmt.Fprintf(out, "  %s\n", iv.Detail)
		}
	case code == ExitErrorConfig:
		fmt.Fprintf(out, "%sConfiguration error: %v%s\n", colors.Yellow(), err, colors.Reset())
	case code == ExitErrorCanceled:
		fmt.Fprintf(out, "%sRun canceled: %v%s\n", colors.Yellow(), err, colors.Reset())
	default:
		fmt.Fprintf(out, "%sError: %v%s\n", colors.Red(), err, colors.Reset())
	}
	return code
}

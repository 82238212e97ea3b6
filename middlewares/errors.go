package middlewares

import (
	"errors"
	"fmt"
	"time"
)

// PanicError is a panic recovered while serving an editor request.
type PanicError struct {
	Value  any    // The panic value
	Method string // Request method
	Path   string // Request path
	Stack  []byte // Stack trace (nil if disabled)
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("panic: %v", e.Value)
	}
	return fmt.Sprintf("panic in %s %s: %v", e.Method, e.Path, e.Value)
}

// TimeoutError is a request that ran past its budget without answering.
type TimeoutError struct {
	Err      error         // What the handler returned, if anything
	Path     string        // Request path
	Duration time.Duration // The budget that was exceeded
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: request timeout after %s", e.Path, e.Duration)
}

// Unwrap returns the handler error.
func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// IsPanicError reports whether err wraps a *PanicError.
func IsPanicError(err error) bool {
	_, ok := AsPanicError(err)
	return ok
}

// IsTimeoutError reports whether err wraps a *TimeoutError.
func IsTimeoutError(err error) bool {
	_, ok := AsTimeoutError(err)
	return ok
}

// AsPanicError extracts the *PanicError from err.
func AsPanicError(err error) (*PanicError, bool) {
	return as[*PanicError](err)
}

// AsTimeoutError extracts the *TimeoutError from err.
func AsTimeoutError(err error) (*TimeoutError, bool) {
	return as[*TimeoutError](err)
}

func as[T error](err error) (T, bool) {
	var target T
	ok := errors.As(err, &target)
	return target, ok
}

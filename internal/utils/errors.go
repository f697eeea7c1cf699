// Package utils provides small, dependency-free helpers shared by the
// kbin codec packages: error wrapping, multiplication-overflow checks and
// payload-size bounds.
package utils

import "fmt"

// KbinError is a structured, wrapped error carrying the field or
// operation that failed alongside the underlying cause.
type KbinError struct {
	Context string
	Cause   error
}

// Error implements the error interface.
func (e *KbinError) Error() string {
	if e.Cause == nil {
		return e.Context
	}
	return fmt.Sprintf("%s: %v", e.Context, e.Cause)
}

// Unwrap provides compatibility with errors.Is/errors.As.
func (e *KbinError) Unwrap() error {
	return e.Cause
}

// Wrap attaches context to cause. Returns nil if cause is nil.
func Wrap(context string, cause error) error {
	if cause == nil {
		return nil
	}
	return &KbinError{Context: context, Cause: cause}
}

package errors

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ValidationError represents caller-contract violations such as an unknown
// file or a position outside the document's bounds.
type ValidationError struct {
	Parameter string `json:"parameter"`
	Message   string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for parameter '%s': %s", e.Parameter, e.Message)
}

// BuildError represents a failed snapshot build for one file.
type BuildError struct {
	Path  string `json:"path"`
	Cause error  `json:"cause,omitempty"`
}

func (e *BuildError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("build error for %s: %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("build error for %s", e.Path)
}

func (e *BuildError) Unwrap() error {
	return e.Cause
}

// SupersededError reports that a build was discarded because a newer edit
// for the same file arrived before it could publish.
type SupersededError struct {
	Path string `json:"path"`
}

func (e *SupersededError) Error() string {
	return fmt.Sprintf("build superseded by a newer edit of %s", e.Path)
}

// ConsumedError reports a second value retrieval from a single-use handle.
type ConsumedError struct {
	Operation string `json:"operation"`
}

func (e *ConsumedError) Error() string {
	return fmt.Sprintf("result of %s already retrieved", e.Operation)
}

// TimeoutError represents operation timeout errors
type TimeoutError struct {
	Operation string        `json:"operation"`
	Timeout   time.Duration `json:"timeout,omitempty"`
	Cause     error         `json:"cause,omitempty"`
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout error for %s operation (timeout: %v)", e.Operation, e.Timeout)
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// Error constructors

// NewValidationError creates a new validation error for the specified parameter
func NewValidationError(parameter, message string) *ValidationError {
	return &ValidationError{
		Parameter: parameter,
		Message:   message,
	}
}

// NewBuildError creates a new build error for the specified file
func NewBuildError(path string, cause error) *BuildError {
	return &BuildError{
		Path:  path,
		Cause: cause,
	}
}

// NewSupersededError creates a new superseded-build error for the specified file
func NewSupersededError(path string) *SupersededError {
	return &SupersededError{Path: path}
}

// NewConsumedError creates a new consumed-handle error for the specified operation
func NewConsumedError(operation string) *ConsumedError {
	return &ConsumedError{Operation: operation}
}

// NewTimeoutError creates a new timeout error for the specified operation
func NewTimeoutError(operation string, timeout time.Duration, cause error) *TimeoutError {
	return &TimeoutError{
		Operation: operation,
		Timeout:   timeout,
		Cause:     cause,
	}
}

// Error classification functions

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}

	if _, ok := err.(*ValidationError); ok {
		return true
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "validation") ||
		strings.Contains(errMsg, "parameter") ||
		strings.Contains(errMsg, "invalid params")
}

// IsBuildError checks if the error is a snapshot build failure
func IsBuildError(err error) bool {
	if err == nil {
		return false
	}

	if _, ok := err.(*BuildError); ok {
		return true
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "build error") ||
		strings.Contains(errMsg, "analysis failed")
}

// IsSupersededError checks if the error reports a discarded superseded build
func IsSupersededError(err error) bool {
	if err == nil {
		return false
	}

	if _, ok := err.(*SupersededError); ok {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "superseded")
}

// IsConsumedError checks if the error reports a reused single-use handle
func IsConsumedError(err error) bool {
	if err == nil {
		return false
	}

	if _, ok := err.(*ConsumedError); ok {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "already retrieved")
}

// IsTimeoutError checks if the error is a timeout error
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	if _, ok := err.(*TimeoutError); ok {
		return true
	}

	if err == context.DeadlineExceeded {
		return true
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "deadline exceeded")
}

// IsCancellationError checks if the error is a cancellation error
func IsCancellationError(err error) bool {
	if err == nil {
		return false
	}

	if err == context.Canceled {
		return true
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "canceled") ||
		strings.Contains(errMsg, "cancelled") ||
		strings.Contains(errMsg, "context canceled")
}

// Error wrapping utilities

// WrapWithContext wraps an error with operation context
func WrapWithContext(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", operation, err)
}

// WrapValidationError wraps an error as a validation error
func WrapValidationError(parameter string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{
		Parameter: parameter,
		Message:   err.Error(),
	}
}

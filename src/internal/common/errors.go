package common

import (
	"lsp-core/src/internal/errors"
)

// Thin wrappers over the unified error system so callers only import common.

// WrapProcessingError wraps an error with operation context for better error messages
func WrapProcessingError(operation string, err error) error {
	return errors.WrapWithContext(operation, err)
}

// ParameterValidationError creates a formatted parameter validation error
func ParameterValidationError(msg string) error {
	return errors.NewValidationError("parameter", msg)
}

// CreateValidationErrorForPosition creates a validation error for position-related issues
func CreateValidationErrorForPosition(msg string) error {
	return errors.NewValidationError("position", msg)
}

// CreateValidationErrorForPath creates a validation error for file-path-related issues
func CreateValidationErrorForPath(msg string) error {
	return errors.NewValidationError("path", msg)
}

// GetErrorCategory returns a category string for error classification
func GetErrorCategory(err error) string {
	if err == nil {
		return "none"
	}

	switch {
	case errors.IsSupersededError(err):
		return "superseded"
	case errors.IsBuildError(err):
		return "build"
	case errors.IsValidationError(err):
		return "validation"
	case errors.IsTimeoutError(err):
		return "timeout"
	case errors.IsCancellationError(err):
		return "cancellation"
	default:
		return "general"
	}
}

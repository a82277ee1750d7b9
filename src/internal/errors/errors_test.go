package errors

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("position", "line 99 outside document bounds")

	if err.Parameter != "position" {
		t.Errorf("Expected parameter 'position', got %s", err.Parameter)
	}

	expectedError := "validation error for parameter 'position': line 99 outside document bounds"
	if err.Error() != expectedError {
		t.Errorf("Expected error string %s, got %s", expectedError, err.Error())
	}

	if !IsValidationError(err) {
		t.Error("Expected IsValidationError to return true")
	}
}

func TestBuildError(t *testing.T) {
	cause := fmt.Errorf("unexpected token")
	err := NewBuildError("main.go", cause)

	if err.Path != "main.go" {
		t.Errorf("Expected path 'main.go', got %s", err.Path)
	}

	if err.Unwrap() != cause {
		t.Errorf("Expected cause to be preserved")
	}

	if !strings.Contains(err.Error(), "build error for main.go") {
		t.Errorf("Expected error string to contain path, got %s", err.Error())
	}

	if !IsBuildError(err) {
		t.Error("Expected IsBuildError to return true")
	}
}

func TestSupersededError(t *testing.T) {
	err := NewSupersededError("main.go")

	if !IsSupersededError(err) {
		t.Error("Expected IsSupersededError to return true")
	}

	if IsSupersededError(fmt.Errorf("unrelated")) {
		t.Error("Expected IsSupersededError to return false for unrelated errors")
	}

	if !strings.Contains(err.Error(), "main.go") {
		t.Errorf("Expected error string to contain path, got %s", err.Error())
	}
}

func TestConsumedError(t *testing.T) {
	err := NewConsumedError("completion")

	if !IsConsumedError(err) {
		t.Error("Expected IsConsumedError to return true")
	}

	expectedError := "result of completion already retrieved"
	if err.Error() != expectedError {
		t.Errorf("Expected error string %s, got %s", expectedError, err.Error())
	}
}

func TestTimeoutError(t *testing.T) {
	timeout := 30 * time.Second
	err := NewTimeoutError("index load", timeout, nil)

	if err.Operation != "index load" {
		t.Errorf("Expected operation 'index load', got %s", err.Operation)
	}

	if err.Timeout != timeout {
		t.Errorf("Expected timeout %v, got %v", timeout, err.Timeout)
	}

	if !IsTimeoutError(err) {
		t.Error("Expected IsTimeoutError to return true")
	}

	if !IsTimeoutError(context.DeadlineExceeded) {
		t.Error("Expected context.DeadlineExceeded to classify as timeout")
	}
}

func TestIsCancellationError(t *testing.T) {
	if !IsCancellationError(context.Canceled) {
		t.Error("Expected context.Canceled to classify as cancellation")
	}

	if IsCancellationError(nil) {
		t.Error("Expected nil to not classify as cancellation")
	}

	wrapped := WrapWithContext("complete", context.Canceled)
	if !IsCancellationError(wrapped) {
		t.Error("Expected wrapped cancellation to classify as cancellation")
	}
}

func TestWrapWithContext(t *testing.T) {
	if WrapWithContext("op", nil) != nil {
		t.Error("Expected nil wrap to stay nil")
	}

	base := fmt.Errorf("boom")
	wrapped := WrapWithContext("analyze", base)
	if wrapped.Error() != "analyze: boom" {
		t.Errorf("Expected 'analyze: boom', got %s", wrapped.Error())
	}
}

func TestWrapValidationError(t *testing.T) {
	if WrapValidationError("path", nil) != nil {
		t.Error("Expected nil wrap to stay nil")
	}

	wrapped := WrapValidationError("path", fmt.Errorf("empty"))
	if !IsValidationError(wrapped) {
		t.Error("Expected wrapped error to classify as validation")
	}
}

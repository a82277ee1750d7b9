package common

import (
	"os"
	"strings"
	"testing"
)

func TestNewSafeLoggerLevels(t *testing.T) {
	old := os.Getenv("LSP_CORE_DEBUG")
	defer os.Setenv("LSP_CORE_DEBUG", old)
	os.Unsetenv("LSP_CORE_DEBUG")
	l := NewSafeLogger("TEST")
	if l.level != LogInfo {
		t.Fatalf("expected info level")
	}
	os.Setenv("LSP_CORE_DEBUG", "true")
	l2 := NewSafeLogger("TEST")
	if l2.level != LogDebug {
		t.Fatalf("expected debug level")
	}
}

func TestLoggerWritesToStderr(t *testing.T) {
	r, w, _ := os.Pipe()
	oldErr := os.Stderr
	oldOut := os.Stdout
	os.Stderr = w
	os.Stdout = w
	defer func() { os.Stderr = oldErr; os.Stdout = oldOut }()

	l := NewSafeLogger("TEST")
	l.Info("hello")
	w.Close()
	buf := make([]byte, 1024)
	n, _ := r.Read(buf)
	s := string(buf[:n])
	if !strings.Contains(s, "TEST:") {
		t.Fatalf("missing prefix: %q", s)
	}
}

func TestSanitizeErrorForLogging(t *testing.T) {
	if SanitizeErrorForLogging(nil) != "" {
		t.Fatalf("nil should be empty")
	}
	long := strings.Repeat("x", 250)
	if got := SanitizeErrorForLogging(long); !strings.HasSuffix(got, "...") {
		t.Fatalf("expected truncation")
	}
	multi := "analysis failed: unexpected token\n  at line 3\n  at line 9"
	if got := SanitizeErrorForLogging(multi); strings.Contains(got, "\n") {
		t.Fatalf("expected single line, got %q", got)
	}
}

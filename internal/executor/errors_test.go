package executor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"testing"
	"time"
)

func TestExecError_Error(t *testing.T) {
	tests := []struct {
		name     string
		execErr  *ExecError
		expected string
	}{
		{
			name:     "command not found",
			execErr:  &ExecError{Type: ErrorTypeCommandNotFound, Command: "rustc", Args: []string{"hello.rs"}},
			expected: "command not found: rustc",
		},
		{
			name:     "permission denied with args",
			execErr:  &ExecError{Type: ErrorTypePermissionDenied, Command: "./build.sh", Args: []string{"-v"}},
			expected: "permission denied: ./build.sh -v",
		},
		{
			name:     "timeout",
			execErr:  &ExecError{Type: ErrorTypeTimeout, Command: "sleep", Args: []string{"100"}},
			expected: "command timed out: sleep 100",
		},
		{
			name:     "timeout with limit",
			execErr:  &ExecError{Type: ErrorTypeTimeout, Command: "sleep", Args: []string{"5"}, Timeout: 100 * time.Millisecond},
			expected: "command timed out after 100ms: sleep 5",
		},
		{
			name:     "working directory error",
			execErr:  &ExecError{Type: ErrorTypeWorkingDirectory, Command: "gcc", Details: "/missing: no such file"},
			expected: "working directory error: /missing: no such file",
		},
		{
			name:     "execution error",
			execErr:  &ExecError{Type: ErrorTypeExecution, Command: "javac", Err: errors.New("broken pipe")},
			expected: "execution error for javac: broken pipe",
		},
		{
			name:     "unknown error",
			execErr:  &ExecError{Type: ErrorTypeUnknown, Command: "mystery", Err: errors.New("something went wrong")},
			expected: "unknown error for mystery: something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.execErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestExecError_Is(t *testing.T) {
	err := fmt.Errorf("benchmark C: %w", &ExecError{Type: ErrorTypeCommandNotFound, Command: "gcc"})
	if !errors.Is(err, ErrCommandNotFound) {
		t.Error("expected wrapped error to match ErrCommandNotFound")
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("did not expect wrapped error to match ErrTimeout")
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"deadline", context.DeadlineExceeded, ErrorTypeTimeout},
		{"lookpath", &exec.Error{Name: "rustc", Err: exec.ErrNotFound}, ErrorTypeCommandNotFound},
		{"missing path", &fs.PathError{Op: "fork/exec", Path: "/opt/bin/zig", Err: fs.ErrNotExist}, ErrorTypeCommandNotFound},
		{"permission", &fs.PathError{Op: "fork/exec", Path: "./build.sh", Err: fs.ErrPermission}, ErrorTypePermissionDenied},
		{"chdir", &fs.PathError{Op: "chdir", Path: "/missing", Err: fs.ErrNotExist}, ErrorTypeWorkingDirectory},
		{"message", errors.New("operation not permitted"), ErrorTypePermissionDenied},
		{"other", errors.New("text file busy"), ErrorTypeExecution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err, "cmd", nil)
			if tt.err == nil {
				if got != nil {
					t.Errorf("ClassifyError(nil) = %v, want nil", got)
				}
				return
			}
			if got.Type != tt.want {
				t.Errorf("ClassifyError(%v).Type = %v, want %v", tt.err, got.Type, tt.want)
			}
			if !errors.Is(got, tt.err) && got.Err != tt.err {
				t.Error("expected classified error to wrap the original")
			}
		})
	}
}

func TestErrorType_String(t *testing.T) {
	if ErrorTypeTimeout.String() != "timeout" {
		t.Errorf("unexpected label %q", ErrorTypeTimeout.String())
	}
	if ErrorType(42).String() != "unknown" {
		t.Errorf("unexpected label %q", ErrorType(42).String())
	}
}

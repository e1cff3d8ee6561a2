// Package executor runs benchmark invocations and external probes for devbench.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
	"time"
)

// Sentinel errors usable with errors.Is against an *ExecError
var (
	// ErrCommandNotFound indicates the executable could not be located
	ErrCommandNotFound = errors.New("command not found")

	// ErrPermissionDenied indicates the executable cannot be run due to permissions
	ErrPermissionDenied = errors.New("permission denied")

	// ErrTimeout indicates the invocation exceeded its timeout
	ErrTimeout = errors.New("command timed out")

	// ErrInvalidWorkingDirectory indicates the working directory is unusable
	ErrInvalidWorkingDirectory = errors.New("invalid working directory")
)

// ErrorType represents the type of execution error
type ErrorType int

const (
	// ErrorTypeUnknown indicates an unknown error
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeCommandNotFound indicates the command was not found
	ErrorTypeCommandNotFound
	// ErrorTypePermissionDenied indicates permission was denied
	ErrorTypePermissionDenied
	// ErrorTypeTimeout indicates the command timed out
	ErrorTypeTimeout
	// ErrorTypeWorkingDirectory indicates working directory error
	ErrorTypeWorkingDirectory
	// ErrorTypeExecution indicates the process started but could not be waited on
	ErrorTypeExecution
)

var typeLabels = map[ErrorType]string{
	ErrorTypeCommandNotFound:  "command not found",
	ErrorTypePermissionDenied: "permission denied",
	ErrorTypeTimeout:          "timeout",
	ErrorTypeWorkingDirectory: "working directory",
	ErrorTypeExecution:        "execution",
}

// String returns a short label for the error type
func (t ErrorType) String() string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return "unknown"
}

// sentinels pairs each sentinel error with the type it matches
var sentinels = []struct {
	err error
	typ ErrorType
}{
	{ErrCommandNotFound, ErrorTypeCommandNotFound},
	{ErrPermissionDenied, ErrorTypePermissionDenied},
	{ErrTimeout, ErrorTypeTimeout},
	{ErrInvalidWorkingDirectory, ErrorTypeWorkingDirectory},
}

// ExecError describes why an invocation could not be measured
type ExecError struct {
	Type    ErrorType
	Command string
	Args    []string
	Err     error
	Details string
	// Timeout is the limit that was exceeded, for ErrorTypeTimeout
	Timeout time.Duration
}

func (e *ExecError) commandLine() string {
	if len(e.Args) == 0 {
		return e.Command
	}
	return e.Command + " " + strings.Join(e.Args, " ")
}

// Error implements the error interface
func (e *ExecError) Error() string {
	switch e.Type {
	case ErrorTypeCommandNotFound:
		return "command not found: " + e.Command
	case ErrorTypeWorkingDirectory:
		return "working directory error: " + e.Details
	case ErrorTypePermissionDenied:
		return "permission denied: " + e.commandLine()
	case ErrorTypeTimeout:
		if e.Timeout > 0 {
			return fmt.Sprintf("command timed out after %s: %s", e.Timeout, e.commandLine())
		}
		return "command timed out: " + e.commandLine()
	case ErrorTypeExecution:
		return fmt.Sprintf("execution error for %s: %v", e.commandLine(), e.Err)
	default:
		return fmt.Sprintf("unknown error for %s: %v", e.commandLine(), e.Err)
	}
}

// Unwrap returns the underlying error
func (e *ExecError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's type
func (e *ExecError) Is(target error) bool {
	for _, s := range sentinels {
		if target == s.err {
			return e.Type == s.typ
		}
	}
	return false
}

// ClassifyError turns a spawn or wait failure into a typed ExecError
func ClassifyError(err error, command string, args []string) *ExecError {
	if err == nil {
		return nil
	}

	execErr := &ExecError{
		Type:    ErrorTypeUnknown,
		Command: command,
		Args:    args,
		Err:     err,
	}

	var pathErr *fs.PathError
	switch {
	case errors.As(err, &pathErr) && pathErr.Op == "chdir":
		execErr.Type = ErrorTypeWorkingDirectory
		execErr.Details = err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		execErr.Type = ErrorTypeTimeout
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		execErr.Type = ErrorTypeCommandNotFound
	case errors.Is(err, fs.ErrPermission):
		execErr.Type = ErrorTypePermissionDenied
	default:
		execErr.Type = classifyByErrorMessage(err.Error())
		if execErr.Type == ErrorTypeWorkingDirectory {
			execErr.Details = err.Error()
		}
	}

	return execErr
}

// workingDirError builds the error reported when a working directory is unusable
func workingDirError(command string, args []string, dir string, err error) *ExecError {
	return &ExecError{
		Type:    ErrorTypeWorkingDirectory,
		Command: command,
		Args:    args,
		Err:     err,
		Details: fmt.Sprintf("%s: %v", dir, err),
	}
}

// classifyByErrorMessage classifies errors by their message content
func classifyByErrorMessage(errorMessage string) ErrorType {
	errStr := strings.ToLower(errorMessage)

	switch {
	case strings.Contains(errStr, "permission denied"), strings.Contains(errStr, "operation not permitted"):
		return ErrorTypePermissionDenied
	case strings.Contains(errStr, "executable file not found"), strings.Contains(errStr, "no such file or directory"):
		return ErrorTypeCommandNotFound
	case strings.Contains(errStr, "chdir"), strings.Contains(errStr, "working directory"):
		return ErrorTypeWorkingDirectory
	default:
		return ErrorTypeExecution
	}
}

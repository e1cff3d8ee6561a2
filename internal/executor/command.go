package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/devbench/devbench/internal/debug"
)

// ExecOptions defines options for a captured command execution
type ExecOptions struct {
	// Working directory for the command
	WorkingDir string
	// Base environment handed to the child (in KEY=VALUE format)
	Environment []string
	// Overrides layered over Environment
	Overrides []string
	// Timeout for command execution
	Timeout time.Duration
}

// ExecResult contains the result of command execution
type ExecResult struct {
	// Standard output from the command
	Stdout string
	// Standard error from the command
	Stderr string
	// Exit code of the command
	ExitCode int
	// Whether the command timed out
	TimedOut bool
}

// CommandExecutor runs short-lived probe commands and captures their output.
// Benchmark invocations go through TimedInvoker instead, which discards output.
type CommandExecutor struct {
	// Default timeout for commands if not specified
	defaultTimeout time.Duration
}

// NewCommandExecutor creates a new command executor
func NewCommandExecutor(defaultTimeout time.Duration) *CommandExecutor {
	if defaultTimeout <= 0 {
		defaultTimeout = 10 * time.Second
	}
	return &CommandExecutor{
		defaultTimeout: defaultTimeout,
	}
}

// Execute runs a command with the given options and captures its output.
// A non-zero exit is reported through ExecResult.ExitCode, not as an error.
func (e *CommandExecutor) Execute(ctx context.Context, command string, args []string, options ExecOptions) (*ExecResult, error) {
	if command == "" {
		return nil, fmt.Errorf("command cannot be empty")
	}

	timeout := options.Timeout
	if timeout <= 0 {
		timeout = e.defaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dir, err := resolveWorkingDir(options.WorkingDir)
	if err != nil {
		return nil, workingDirError(command, args, options.WorkingDir, err)
	}

	debug.LogCommand(command, args, dir)

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = dir
	cmd.Env = MergeEnvironment(options.Environment, options.Overrides)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if err := cmd.Start(); err != nil {
		return nil, ClassifyError(err, command, args)
	}

	waitErr := cmd.Wait()
	result := &ExecResult{
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		TimedOut: errors.Is(ctx.Err(), context.DeadlineExceeded),
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return nil, &ExecError{Type: ErrorTypeExecution, Command: command, Args: args, Err: waitErr}
		}
		result.ExitCode = exitErr.ExitCode()
	}

	return result, nil
}

// resolveWorkingDir returns the absolute form of dir after checking it is a
// directory. An empty dir resolves to the current directory.
func resolveWorkingDir(dir string) (string, error) {
	if dir == "" {
		return "", nil
	}

	absPath, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", absPath)
	}
	return absPath, nil
}

// MergeEnvironment layers overrides over base, keeping the order of base and
// appending new keys in the order they appear. The result is never nil so a
// child never silently falls back to the parent process environment.
func MergeEnvironment(base, overrides []string) []string {
	env := make([]string, 0, len(base)+len(overrides))
	position := make(map[string]int, len(base)+len(overrides))

	add := func(kv string) {
		key, _, ok := strings.Cut(kv, "=")
		if !ok {
			return
		}
		if i, seen := position[key]; seen {
			env[i] = kv
			return
		}
		position[key] = len(env)
		env = append(env, kv)
	}

	for _, kv := range base {
		add(kv)
	}
	for _, kv := range overrides {
		add(kv)
	}
	return env
}

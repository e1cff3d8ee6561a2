package executor

import (
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/devbench/devbench/internal/debug"
	"github.com/devbench/devbench/pkg/catalog"
)

// Sample is the outcome of a single timed invocation
type Sample struct {
	// Elapsed wall-clock time from just before spawn to just after exit
	Elapsed time.Duration
	// ExitCode observed for the child; -1 if it was terminated by a signal
	ExitCode int
}

// Seconds returns Elapsed in seconds without rounding
func (s Sample) Seconds() float64 {
	return s.Elapsed.Seconds()
}

// TimedInvoker executes one invocation at a time and measures how long it takes.
// Standard output and standard error of the child are discarded, and the exit
// status never turns into an error; only a failure to spawn does.
type TimedInvoker struct {
	environment []string
	timeout     time.Duration
}

// NewTimedInvoker creates an invoker whose children receive environment
// (typically os.Environ()) plus each invocation's own overrides. A zero
// timeout disables the per-invocation limit.
func NewTimedInvoker(environment []string, timeout time.Duration) *TimedInvoker {
	env := make([]string, len(environment))
	copy(env, environment)
	return &TimedInvoker{
		environment: env,
		timeout:     timeout,
	}
}

// Invoke runs inv to completion and returns its elapsed time.
// Cancelling ctx kills the child and returns the context's error.
func (i *TimedInvoker) Invoke(ctx context.Context, inv catalog.Invocation) (Sample, error) {
	if err := inv.Validate(); err != nil {
		return Sample{}, err
	}

	dir, err := resolveWorkingDir(inv.Dir)
	if err != nil {
		return Sample{}, workingDirError(inv.Command, inv.Args, inv.Dir, err)
	}

	runCtx := ctx
	if i.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, inv.Command, inv.Args...)
	cmd.Dir = dir
	cmd.Env = MergeEnvironment(i.environment, inv.Env)
	// nil Stdout/Stderr connect the child to the null device

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Sample{}, ClassifyError(err, inv.Command, inv.Args)
	}
	waitErr := cmd.Wait()
	elapsed := time.Since(start)

	if ctx.Err() != nil {
		return Sample{}, ctx.Err()
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return Sample{}, &ExecError{
			Type:    ErrorTypeTimeout,
			Command: inv.Command,
			Args:    inv.Args,
			Err:     context.DeadlineExceeded,
			Timeout: i.timeout,
		}
	}

	sample := Sample{Elapsed: elapsed}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return Sample{}, &ExecError{Type: ErrorTypeExecution, Command: inv.Command, Args: inv.Args, Err: waitErr}
		}
		sample.ExitCode = exitErr.ExitCode()
	}

	debug.LogTiming(inv.String(), elapsed)
	return sample, nil
}

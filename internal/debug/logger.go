// Package debug provides the --debug trace log for devbench.
//
// The log is process wide and off by default. Every line carries the time
// elapsed since logging was enabled, which makes it easy to see where a
// benchmark session spends its time outside the measured invocations.
package debug

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger writes elapsed-time prefixed trace lines
type Logger struct {
	mu      sync.Mutex
	enabled bool
	writer  io.Writer
	start   time.Time
}

var globalLogger = &Logger{writer: os.Stderr}

// Enable turns tracing on and restarts the elapsed clock
func Enable() {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.enabled = true
	globalLogger.start = time.Now()
}

// Disable turns tracing off
func Disable() {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.enabled = false
}

// IsEnabled reports whether tracing is on
func IsEnabled() bool {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	return globalLogger.enabled
}

// SetWriter redirects trace output, stderr by default
func SetWriter(w io.Writer) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.writer = w
}

func (l *Logger) printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[DEBUG %s] ", formatDuration(time.Since(l.start)))
	fmt.Fprintf(&b, format, args...)
	if !strings.HasSuffix(b.String(), "\n") {
		b.WriteByte('\n')
	}
	_, _ = io.WriteString(l.writer, b.String())
}

// Log writes one trace line
func Log(format string, args ...interface{}) {
	globalLogger.printf(format, args...)
}

// LogSection marks the start of a phase of the session
func LogSection(title string) {
	Log("=== %s ===", title)
}

// LogCommand traces an invocation about to be spawned
func LogCommand(command string, args []string, workingDir string) {
	if !IsEnabled() {
		return
	}

	Log("Command: %s", command)
	if len(args) > 0 {
		Log("Arguments: %v", args)
	}
	if workingDir != "" {
		Log("Working Directory: %s", workingDir)
	}
}

// LogTiming traces how long an operation took
func LogTiming(operation string, duration time.Duration) {
	Log("Timing: %s took %s", operation, formatDuration(duration))
}

// LogSample traces one warm-up or measured iteration
func LogSample(target, phase string, iteration, total int, seconds float64, exitCode int) {
	Log("Sample: %s %s %d/%d %.6fs (exit %d)", target, phase, iteration, total, seconds, exitCode)
}

// LogCleanup traces an emptied output directory
func LogCleanup(dir string, removed int) {
	if removed == 0 {
		return
	}
	Log("Cleanup: removed %d entries from %s", removed, dir)
}

// LogError traces an error together with where it happened
func LogError(err error, context string) {
	Log("Error in %s: %v", context, err)
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}

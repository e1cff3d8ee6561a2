package testutil

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/devbench/devbench/pkg/catalog"
)

const windowsOS = "windows"

// ShellTarget returns a target that runs script through sh -c
func ShellTarget(name, script string) catalog.Target {
	return catalog.Target{
		Name: name,
		Invocation: catalog.Invocation{
			Command: "sh",
			Args:    []string{"-c", script},
		},
	}
}

// ShellCatalog builds a catalog of shell targets from name/script pairs
func ShellCatalog(t testing.TB, pairs ...string) *catalog.Catalog {
	t.Helper()
	if len(pairs)%2 != 0 {
		t.Fatalf("ShellCatalog needs name/script pairs, got %d values", len(pairs))
	}

	targets := make([]catalog.Target, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		targets = append(targets, ShellTarget(pairs[i], pairs[i+1]))
	}

	c, err := catalog.New(targets...)
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	return c
}

// IsWindows returns true if running on Windows.
func IsWindows() bool {
	return runtime.GOOS == windowsOS
}

// SkipOnWindows skips the test if running on Windows.
func SkipOnWindows(t testing.TB, reason string) {
	t.Helper()
	if IsWindows() {
		t.Skip("Skipping on Windows: " + reason)
	}
}

// TestContext creates a context with a timeout suitable for tests.
// The context is automatically canceled when the test completes.
func TestContext(t testing.TB) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// Package testutil provides common test utilities and helpers for the devbench test suite.
//
// SettingsBuilder: A fluent interface for building test settings files
//   - Create settings with NewSettingsBuilder()
//   - Add targets with WithTarget() or WithShellTarget()
//   - Write JSON or YAML files with WriteJSON() and WriteYAML()
//
// Targets: POSIX shell targets for subprocess tests
//   - ShellTarget() runs a script through sh -c
//   - SkipOnWindows() skips tests that need a POSIX shell
//   - TestContext() returns a context bounded by the test
//
// TestWriter provides a thread-safe io.Writer for command output.
//
// Example usage:
//
//	path := testutil.NewSettingsBuilder().
//		WithIterations(2).
//		WithShellTarget("ok", "true").
//		WriteJSON(t, dir)
package testutil

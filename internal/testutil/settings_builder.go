package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/devbench/devbench/internal/config"
	"github.com/devbench/devbench/pkg/catalog"
)

// SettingsBuilder provides a fluent interface for building test settings.
type SettingsBuilder struct {
	settings *config.Settings
}

// NewSettingsBuilder creates a new SettingsBuilder starting from the defaults.
func NewSettingsBuilder() *SettingsBuilder {
	return &SettingsBuilder{settings: config.Defaults()}
}

// WithWorkDir sets the work directory.
func (b *SettingsBuilder) WithWorkDir(dir string) *SettingsBuilder {
	b.settings.WorkDir = dir
	return b
}

// WithOutputDir sets the output directory.
func (b *SettingsBuilder) WithOutputDir(dir string) *SettingsBuilder {
	b.settings.OutputDir = dir
	return b
}

// WithIterations sets the measured run count.
func (b *SettingsBuilder) WithIterations(n int) *SettingsBuilder {
	b.settings.Iterations = n
	return b
}

// WithWarmup sets the warm-up run count.
func (b *SettingsBuilder) WithWarmup(n int) *SettingsBuilder {
	b.settings.Warmup = n
	return b
}

// WithEnv adds environment entries.
func (b *SettingsBuilder) WithEnv(env ...string) *SettingsBuilder {
	b.settings.Environment = append(b.settings.Environment, env...)
	return b
}

// WithTarget adds a target.
func (b *SettingsBuilder) WithTarget(t catalog.Target) *SettingsBuilder {
	b.settings.Targets = append(b.settings.Targets, t)
	return b
}

// WithShellTarget adds a target that runs script through sh -c.
func (b *SettingsBuilder) WithShellTarget(name, script string) *SettingsBuilder {
	return b.WithTarget(ShellTarget(name, script))
}

// Build returns the constructed settings.
func (b *SettingsBuilder) Build() *config.Settings {
	return b.settings
}

// WriteJSON writes the settings to .devbench.json in dir and returns its path.
func (b *SettingsBuilder) WriteJSON(t testing.TB, dir string) string {
	t.Helper()
	data, err := json.MarshalIndent(b.settings, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal settings: %v", err)
	}
	return writeSettings(t, filepath.Join(dir, config.JSONFileName), data)
}

// WriteYAML writes the settings to .devbench.yaml in dir and returns its path.
func (b *SettingsBuilder) WriteYAML(t testing.TB, dir string) string {
	t.Helper()
	data, err := yaml.Marshal(b.settings)
	if err != nil {
		t.Fatalf("failed to marshal settings: %v", err)
	}
	return writeSettings(t, filepath.Join(dir, config.YAMLFileName), data)
}

func writeSettings(t testing.TB, path string, data []byte) string {
	t.Helper()
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}
	return path
}

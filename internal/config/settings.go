// Package config provides settings loading and the built-in target catalogs for devbench.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/devbench/devbench/internal/bench"
	"github.com/devbench/devbench/pkg/catalog"
)

const (
	// DefaultWorkDir is where the compile fixtures are written
	DefaultWorkDir = ".devbench/compile"

	// DefaultOutputDir holds build artifacts, relative to the work directory
	DefaultOutputDir = "out"

	// DefaultIterations is the number of measured runs per target
	DefaultIterations = bench.DefaultIterations

	// DefaultWarmup is the number of discarded runs per target
	DefaultWarmup = bench.DefaultWarmup
)

// ErrInvalidSettings is wrapped by every validation failure
var ErrInvalidSettings = errors.New("invalid settings")

// Settings is the merged devbench configuration
type Settings struct {
	WorkDir     string   `json:"workDir,omitempty" yaml:"workDir,omitempty" toml:"workDir,omitempty"`
	OutputDir   string   `json:"outputDir,omitempty" yaml:"outputDir,omitempty" toml:"outputDir,omitempty"`
	Iterations  int      `json:"iterations" yaml:"iterations" toml:"iterations"`
	Warmup      int      `json:"warmup" yaml:"warmup" toml:"warmup"`
	Environment []string `json:"environment,omitempty" yaml:"environment,omitempty" toml:"environment,omitempty"`

	// Timeout is the per-invocation limit in milliseconds, 0 disables it
	Timeout int64 `json:"timeout,omitempty" yaml:"timeout,omitempty" toml:"timeout,omitempty"`

	// Targets replaces the default compile catalog when non-empty
	Targets []catalog.Target `json:"targets,omitempty" yaml:"targets,omitempty" toml:"targets,omitempty"`
}

// Defaults returns the settings used when no file overrides them
func Defaults() *Settings {
	return &Settings{
		WorkDir:    DefaultWorkDir,
		OutputDir:  DefaultOutputDir,
		Iterations: DefaultIterations,
		Warmup:     DefaultWarmup,
	}
}

// Validate performs validation on the Settings
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.WorkDir) == "" {
		return fmt.Errorf("%w: workDir is required", ErrInvalidSettings)
	}
	if strings.TrimSpace(s.OutputDir) == "" {
		return fmt.Errorf("%w: outputDir is required", ErrInvalidSettings)
	}
	if s.Iterations < 0 {
		return fmt.Errorf("%w: iterations must be non-negative, got %d", ErrInvalidSettings, s.Iterations)
	}
	if s.Warmup < 0 {
		return fmt.Errorf("%w: warmup must be non-negative, got %d", ErrInvalidSettings, s.Warmup)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("%w: timeout must be non-negative, got %d", ErrInvalidSettings, s.Timeout)
	}
	for _, kv := range s.Environment {
		if !strings.Contains(kv, "=") {
			return fmt.Errorf("%w: invalid environment entry %q: expected KEY=VALUE", ErrInvalidSettings, kv)
		}
	}
	for i := range s.Targets {
		if err := s.Targets[i].Validate(); err != nil {
			return fmt.Errorf("%w: target %d: %v", ErrInvalidSettings, i, err)
		}
	}
	return nil
}

// OutputPath returns the output directory as seen from the current directory
func (s *Settings) OutputPath() string {
	if filepath.IsAbs(s.OutputDir) {
		return s.OutputDir
	}
	return filepath.Join(s.WorkDir, s.OutputDir)
}

// TimeoutDuration converts the millisecond timeout
func (s *Settings) TimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Millisecond
}

// BenchOptions returns the run counts for the orchestrator
func (s *Settings) BenchOptions() bench.Options {
	return bench.Options{Warmup: s.Warmup, Iterations: s.Iterations}
}

// Catalog builds the target catalog. Configured targets replace the default
// compile catalog entirely. Targets without a working directory run in WorkDir
// and ${out} expands to the absolute output path.
func (s *Settings) Catalog() (*catalog.Catalog, error) {
	// ${out} must name the directory the janitor cleans whatever the
	// target's own working directory is
	out, err := filepath.Abs(s.OutputPath())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}

	var c *catalog.Catalog
	if len(s.Targets) == 0 {
		c, err = DefaultCompileCatalog(out)
	} else {
		c, err = catalog.New(s.Targets...)
		if err == nil {
			c, err = ExpandOutput(c, out)
		}
	}
	if err != nil {
		return nil, err
	}
	return c.WithDefaultDir(s.WorkDir), nil
}

// Clone creates a deep copy of the Settings
func (s *Settings) Clone() *Settings {
	clone := *s
	if s.Environment != nil {
		clone.Environment = make([]string, len(s.Environment))
		copy(clone.Environment, s.Environment)
	}
	if s.Targets != nil {
		clone.Targets = make([]catalog.Target, len(s.Targets))
		for i, t := range s.Targets {
			clone.Targets[i] = t.Clone()
		}
	}
	return &clone
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devbench/devbench/pkg/catalog"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoader_LoadDefaults(t *testing.T) {
	t.Setenv(ConfigEnvVar, "")

	loader := &Loader{SearchPaths: []string{t.TempDir()}}
	s, path, err := loader.Load()
	require.NoError(t, err)

	assert.Empty(t, path)
	assert.Equal(t, Defaults(), s)
}

func TestLoader_LoadJSONFromSearchPath(t *testing.T) {
	t.Setenv(ConfigEnvVar, "")

	dir := t.TempDir()
	want := writeFile(t, dir, JSONFileName, `{"iterations": 5, "warmup": 0, "timeout": 2500}`)

	loader := &Loader{SearchPaths: []string{t.TempDir(), dir}}
	s, path, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, want, path)
	assert.Equal(t, 5, s.Iterations)
	assert.Equal(t, 0, s.Warmup)
	assert.Equal(t, int64(2500), s.Timeout)
	// untouched fields keep their defaults
	assert.Equal(t, DefaultWorkDir, s.WorkDir)
	assert.Equal(t, DefaultOutputDir, s.OutputDir)
}

func TestLoader_JSONPreferredOverYAML(t *testing.T) {
	t.Setenv(ConfigEnvVar, "")

	dir := t.TempDir()
	writeFile(t, dir, JSONFileName, `{"iterations": 7}`)
	writeFile(t, dir, YAMLFileName, "iterations: 9\n")

	s, _, err := (&Loader{SearchPaths: []string{dir}}).Load()
	require.NoError(t, err)
	assert.Equal(t, 7, s.Iterations)
}

func TestLoader_LoadYAMLWithTargets(t *testing.T) {
	t.Setenv(ConfigEnvVar, "")

	dir := t.TempDir()
	writeFile(t, dir, YAMLFileName, `
workDir: bench
environment:
  - CFLAGS=-O2
targets:
  - name: Zig
    command: zig
    args: [build-exe, hello.zig]
  - name: C
    command: cc
    args: [hello.c, -o, "${out}/hello"]
`)

	s, _, err := (&Loader{SearchPaths: []string{dir}}).Load()
	require.NoError(t, err)

	assert.Equal(t, "bench", s.WorkDir)
	assert.Equal(t, []string{"CFLAGS=-O2"}, s.Environment)
	require.Len(t, s.Targets, 2)
	assert.Equal(t, "Zig", s.Targets[0].Name)
	assert.Equal(t, "zig", s.Targets[0].Command)
	assert.Equal(t, []string{"build-exe", "hello.zig"}, s.Targets[0].Args)
}

func TestLoader_LoadTOML(t *testing.T) {
	t.Setenv(ConfigEnvVar, "")

	dir := t.TempDir()
	writeFile(t, dir, TOMLFileName, `
iterations = 4
workDir = "bench"
timeout = 30000

[[targets]]
name = "C"
command = "cc"
args = ["hello.c", "-o", "${out}/hello"]

[[targets]]
name = "Go"
run = "go build -o ${out}/hello_go hello.go"
`)

	s, _, err := (&Loader{SearchPaths: []string{dir}}).Load()
	require.NoError(t, err)

	assert.Equal(t, 4, s.Iterations)
	assert.Equal(t, DefaultWarmup, s.Warmup)
	assert.Equal(t, int64(30000), s.Timeout)
	require.Len(t, s.Targets, 2)
	assert.Equal(t, "cc", s.Targets[0].Command)
	assert.Equal(t, "go build -o ${out}/hello_go hello.go", s.Targets[1].Run)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, catalog.FormatJSON, FormatFor("a/.devbench.json"))
	assert.Equal(t, catalog.FormatYAML, FormatFor("settings.YML"))
	assert.Equal(t, catalog.FormatYAML, FormatFor(".devbench.yaml"))
	assert.Equal(t, catalog.FormatTOML, FormatFor(".devbench.toml"))
	assert.Equal(t, catalog.FormatJSON, FormatFor("settings"))
}

func TestLoader_EnvironmentOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, JSONFileName, `{"iterations": 3}`)

	custom := writeFile(t, t.TempDir(), "custom.yml", "iterations: 11\n")
	t.Setenv(ConfigEnvVar, custom)

	s, path, err := (&Loader{SearchPaths: []string{dir}}).Load()
	require.NoError(t, err)
	assert.Equal(t, custom, path)
	assert.Equal(t, 11, s.Iterations)
}

func TestLoader_EnvironmentOverrideMissingFile(t *testing.T) {
	t.Setenv(ConfigEnvVar, filepath.Join(t.TempDir(), "missing.json"))

	_, _, err := (&Loader{}).Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), ConfigEnvVar)
}

func TestLoader_InvalidFiles(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		invalid bool
	}{
		{name: "malformed json", file: "a.json", content: `{"iterations": `},
		{name: "malformed yaml", file: "a.yaml", content: "iterations: [\n"},
		{name: "malformed toml", file: "a.toml", content: "iterations = \n"},
		{name: "negative iterations", file: "a.json", content: `{"iterations": -1}`, invalid: true},
		{name: "negative warmup", file: "a.yaml", content: "warmup: -2\n", invalid: true},
		{name: "negative timeout", file: "a.json", content: `{"timeout": -5}`, invalid: true},
		{name: "empty output dir", file: "a.json", content: `{"outputDir": " "}`, invalid: true},
		{name: "target without command", file: "a.json", content: `{"targets": [{"name": "C"}]}`, invalid: true},
		{name: "bad environment", file: "a.yaml", content: "environment: [NOVALUE]\n", invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)

			_, err := NewLoader().LoadFromPath(path)
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalidSettings)
			} else {
				assert.Contains(t, err.Error(), "failed to parse settings")
			}
		})
	}
}

func TestGetDefaultSearchPaths(t *testing.T) {
	paths := getDefaultSearchPaths()
	require.NotEmpty(t, paths)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, cwd, paths[0])
}

package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/devbench/devbench/internal/debug"
	"github.com/devbench/devbench/pkg/catalog"
)

const (
	// JSONFileName is the JSON settings file name
	JSONFileName = ".devbench.json"

	// YAMLFileName is the YAML settings file name
	YAMLFileName = ".devbench.yaml"

	// TOMLFileName is the TOML settings file name
	TOMLFileName = ".devbench.toml"

	// ConfigEnvVar is the environment variable to specify a custom settings path
	ConfigEnvVar = "DEVBENCH_CONFIG"
)

// FileNames lists the settings file names checked in every search path, in order
var FileNames = []string{JSONFileName, YAMLFileName, TOMLFileName}

// Loader handles locating and decoding settings files
type Loader struct {
	// SearchPaths contains the directories to search for settings files
	SearchPaths []string
}

// NewLoader creates a new settings loader
func NewLoader() *Loader {
	return &Loader{
		SearchPaths: getDefaultSearchPaths(),
	}
}

// Load returns the settings from the first file found, or the defaults when
// there is none. The returned path is empty when the defaults are used.
func (l *Loader) Load() (*Settings, string, error) {
	debug.LogSection("Configuration Loading")

	if envPath := os.Getenv(ConfigEnvVar); envPath != "" {
		debug.Log("Loading settings from environment variable %s: %s", ConfigEnvVar, envPath)
		s, err := l.LoadFromPath(envPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load settings from %s: %w", ConfigEnvVar, err)
		}
		return s, envPath, nil
	}

	debug.Log("Searching for settings in: %v", l.SearchPaths)
	for _, searchPath := range l.SearchPaths {
		for _, name := range FileNames {
			path := filepath.Join(searchPath, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			debug.Log("Found settings at: %s", path)
			s, err := l.LoadFromPath(path)
			if err != nil {
				return nil, "", fmt.Errorf("failed to load settings from %s: %w", path, err)
			}
			return s, path, nil
		}
	}

	debug.Log("No settings file found, using defaults")
	return Defaults(), "", nil
}

// LoadFromPath decodes the settings file at path over the defaults
func (l *Loader) LoadFromPath(path string) (*Settings, error) {
	debug.Log("Loading settings from file: %s", path)

	// #nosec G304 - path comes from the command line, the environment or the search paths
	file, err := os.Open(path)
	if err != nil {
		debug.LogError(err, "opening settings file")
		return nil, fmt.Errorf("failed to open settings file: %w", err)
	}
	defer func() { _ = file.Close() }() //nolint:errcheck // Best effort cleanup

	data, err := io.ReadAll(file)
	if err != nil {
		debug.LogError(err, "reading settings file")
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	s, err := Parse(data, FormatFor(path))
	if err != nil {
		debug.LogError(err, "parsing settings")
		return nil, err
	}

	debug.Log("Loaded settings: workDir=%s, iterations=%d, warmup=%d, targets=%d",
		s.WorkDir, s.Iterations, s.Warmup, len(s.Targets))
	return s, nil
}

// Parse decodes settings over the defaults and validates the result. Fields
// missing from data keep their default values.
func Parse(data []byte, format catalog.Format) (*Settings, error) {
	s := Defaults()

	var err error
	switch format {
	case catalog.FormatYAML:
		err = yaml.Unmarshal(data, s)
	case catalog.FormatTOML:
		err = toml.Unmarshal(data, s)
	default:
		err = json.Unmarshal(data, s)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// FormatFor picks the decoder from the file extension. Unknown extensions
// are read as JSON.
func FormatFor(path string) catalog.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return catalog.FormatYAML
	case ".toml":
		return catalog.FormatTOML
	default:
		return catalog.FormatJSON
	}
}

// getDefaultSearchPaths returns the current directory followed by the user
// config directory
func getDefaultSearchPaths() []string {
	paths := []string{}

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, cwd)
	}

	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "devbench"))
	}

	return paths
}

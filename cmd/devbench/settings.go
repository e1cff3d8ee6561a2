package main

import (
	"fmt"

	"github.com/devbench/devbench/internal/config"
	"github.com/devbench/devbench/internal/debug"
)

// loadSettings reads the settings named by --config, or searches for them
func loadSettings() (*config.Settings, error) {
	loader := config.NewLoader()
	if configPath != "" {
		s, err := loader.LoadFromPath(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
		return s, nil
	}

	s, path, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if path != "" {
		debug.Log("Using settings from %s", path)
	}
	return s, nil
}

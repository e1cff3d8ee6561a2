// Package workspace prepares the directory the compile benchmarks run in.
package workspace

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/devbench/devbench/internal/debug"
)

//go:embed fixtures/*
var fixtures embed.FS

// storedSuffix keeps Go sources out of the package build
const storedSuffix = ".txt"

// Fixtures returns the names of the source files written by Ensure, sorted
func Fixtures() []string {
	entries, err := fs.ReadDir(fixtures, "fixtures")
	if err != nil {
		// the directory is embedded at build time
		panic(err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, fixtureName(e.Name()))
	}
	sort.Strings(names)
	return names
}

// Ensure writes every missing fixture into workDir and creates outputDir.
// A relative outputDir is resolved against workDir. Existing files are never
// overwritten so local edits to the programs survive.
func Ensure(workDir, outputDir string) error {
	if err := os.MkdirAll(workDir, 0750); err != nil {
		return fmt.Errorf("failed to create work directory: %w", err)
	}

	entries, err := fs.ReadDir(fixtures, "fixtures")
	if err != nil {
		return fmt.Errorf("failed to read fixtures: %w", err)
	}

	for _, e := range entries {
		if err := writeFixture(workDir, e.Name()); err != nil {
			return err
		}
	}

	out := outputDir
	if !filepath.IsAbs(out) {
		out = filepath.Join(workDir, out)
	}
	if err := os.MkdirAll(out, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

func writeFixture(workDir, stored string) error {
	path := filepath.Join(workDir, fixtureName(stored))

	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat fixture %s: %w", path, err)
	}

	data, err := fixtures.ReadFile("fixtures/" + stored)
	if err != nil {
		return fmt.Errorf("failed to read fixture %s: %w", stored, err)
	}

	debug.Log("Writing fixture: %s", path)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write fixture %s: %w", path, err)
	}
	return nil
}

func fixtureName(stored string) string {
	return strings.TrimSuffix(stored, storedSuffix)
}

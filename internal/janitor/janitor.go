// Package janitor empties the shared build-output directory between benchmark runs.
package janitor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/devbench/devbench/internal/debug"
)

// ErrCleanup marks a failure to remove build artifacts. It is fatal for a
// benchmark run because leftover files would leak into later measurements.
var ErrCleanup = errors.New("artifact cleanup failed")

// Janitor removes every entry inside one output directory
type Janitor struct {
	dir string
}

// New creates a janitor for dir
func New(dir string) *Janitor {
	return &Janitor{dir: dir}
}

// Clean removes files and subdirectories directly inside the output
// directory, leaving the directory itself in place. A missing directory
// is not an error.
func (j *Janitor) Clean() error {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: reading %s: %v", ErrCleanup, j.dir, err)
	}

	for _, entry := range entries {
		path := filepath.Join(j.dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			debug.LogError(err, "artifact cleanup")
			return fmt.Errorf("%w: removing %s: %v", ErrCleanup, path, err)
		}
	}

	debug.LogCleanup(j.dir, len(entries))
	return nil
}

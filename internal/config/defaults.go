package config

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/devbench/devbench/pkg/catalog"
)

// OutputPlaceholder is expanded to the output directory in target arguments
const OutputPlaceholder = "${out}"

//go:embed defaults/compile.json
var defaultCompileCatalog []byte

// DefaultCompileCatalog returns the built-in compile catalog with ${out}
// expanded to outputDir
func DefaultCompileCatalog(outputDir string) (*catalog.Catalog, error) {
	c, err := catalog.Load(defaultCompileCatalog, catalog.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to load default compile catalog: %w", err)
	}
	return ExpandOutput(c, outputDir)
}

// ExpandOutput replaces ${out} in every target's arguments with outputDir.
func ExpandOutput(c *catalog.Catalog, outputDir string) (*catalog.Catalog, error) {
	targets := c.Targets()
	for i := range targets {
		for j, arg := range targets[i].Args {
			targets[i].Args[j] = strings.ReplaceAll(arg, OutputPlaceholder, outputDir)
		}
	}
	return catalog.New(targets...)
}

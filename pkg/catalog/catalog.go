// Package catalog provides the immutable registry of benchmark targets for devbench.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnknownTarget is returned when a name is not part of the catalog
var ErrUnknownTarget = errors.New("unknown target")

// Format identifies the encoding of a catalog document
type Format string

const (
	// FormatJSON is a JSON encoded catalog
	FormatJSON Format = "json"
	// FormatYAML is a YAML encoded catalog
	FormatYAML Format = "yaml"
	// FormatTOML is a TOML encoded catalog
	FormatTOML Format = "toml"
)

// Invocation describes how to run a target's executable
type Invocation struct {
	Command string   `json:"command" yaml:"command" toml:"command"`
	Args    []string `json:"args,omitempty" yaml:"args,omitempty" toml:"args,omitempty"`
	Dir     string   `json:"dir,omitempty" yaml:"dir,omitempty" toml:"dir,omitempty"`
	// Env holds KEY=VALUE entries layered over the inherited environment
	Env []string `json:"env,omitempty" yaml:"env,omitempty" toml:"env,omitempty"`
	// Run is a shell-style command line used instead of Command and Args.
	// It is split, never passed to a shell.
	Run string `json:"run,omitempty" yaml:"run,omitempty" toml:"run,omitempty"`
}

// Target is a named invocation that can be benchmarked
type Target struct {
	Name       string `json:"name" yaml:"name" toml:"name"`
	Invocation `yaml:",inline"`
}

// Document is the on-disk representation of a catalog
type Document struct {
	Targets []Target `json:"targets" yaml:"targets" toml:"targets"`
}

// Catalog is an ordered, read-only mapping from target name to invocation.
// The zero value is an empty catalog.
type Catalog struct {
	targets []Target
	index   map[string]int
}

// New builds a catalog preserving the order of targets
func New(targets ...Target) (*Catalog, error) {
	c := &Catalog{
		targets: make([]Target, 0, len(targets)),
		index:   make(map[string]int, len(targets)),
	}

	for i, t := range targets {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("target %d: %w", i, err)
		}
		resolved, err := t.Invocation.Resolve()
		if err != nil {
			return nil, fmt.Errorf("target %d: %w", i, err)
		}
		if _, dup := c.index[t.Name]; dup {
			return nil, fmt.Errorf("duplicate target name %q", t.Name)
		}
		t.Invocation = resolved
		c.index[t.Name] = len(c.targets)
		c.targets = append(c.targets, t.Clone())
	}

	return c, nil
}

// MustNew is like New but panics on invalid input. Intended for static tables.
func MustNew(targets ...Target) *Catalog {
	c, err := New(targets...)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of targets
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.targets)
}

// Names returns target names in insertion order
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.targets))
	for i, t := range c.targets {
		names[i] = t.Name
	}
	return names
}

// Targets returns a copy of every target in insertion order
func (c *Catalog) Targets() []Target {
	if c == nil {
		return nil
	}
	out := make([]Target, len(c.targets))
	for i, t := range c.targets {
		out[i] = t.Clone()
	}
	return out
}

// Has reports whether name is part of the catalog
func (c *Catalog) Has(name string) bool {
	if c == nil {
		return false
	}
	_, ok := c.index[name]
	return ok
}

// Lookup returns the target registered under name
func (c *Catalog) Lookup(name string) (Target, error) {
	if c != nil {
		if i, ok := c.index[name]; ok {
			return c.targets[i].Clone(), nil
		}
	}
	return Target{}, fmt.Errorf("%w: %q", ErrUnknownTarget, name)
}

// Select returns the targets named in names, in catalog order rather than
// the order of names. Duplicates in names are ignored.
func (c *Catalog) Select(names []string) ([]Target, error) {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		if !c.Has(name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, name)
		}
		wanted[name] = true
	}

	selected := make([]Target, 0, len(wanted))
	for _, t := range c.targets {
		if wanted[t.Name] {
			selected = append(selected, t.Clone())
		}
	}
	return selected, nil
}

// WithDefaultDir returns a new catalog in which every target that has no
// working directory runs in dir
func (c *Catalog) WithDefaultDir(dir string) *Catalog {
	targets := c.Targets()
	for i := range targets {
		if targets[i].Dir == "" {
			targets[i].Dir = dir
		}
	}
	// targets were validated when c was built
	return MustNew(targets...)
}

// Validate performs validation on the Target
func (t *Target) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if err := t.Invocation.Validate(); err != nil {
		return fmt.Errorf("%s: %w", t.Name, err)
	}
	return nil
}

// Validate performs validation on the Invocation
func (inv *Invocation) Validate() error {
	if inv.Run != "" {
		resolved, err := inv.Resolve()
		if err != nil {
			return err
		}
		return resolved.Validate()
	}
	if strings.TrimSpace(inv.Command) == "" {
		return fmt.Errorf("command is required")
	}
	for _, kv := range inv.Env {
		if !strings.Contains(kv, "=") {
			return fmt.Errorf("invalid environment entry %q: expected KEY=VALUE", kv)
		}
	}
	return nil
}

// Resolve splits Run into Command and Args. An invocation without Run is
// returned unchanged.
func (inv Invocation) Resolve() (Invocation, error) {
	if inv.Run == "" {
		return inv, nil
	}
	if inv.Command != "" || len(inv.Args) > 0 {
		return inv, fmt.Errorf("run cannot be combined with command or args")
	}

	words, err := shellquote.Split(inv.Run)
	if err != nil {
		return inv, fmt.Errorf("invalid run %q: %w", inv.Run, err)
	}
	if len(words) == 0 {
		return inv, fmt.Errorf("run is empty")
	}

	resolved := inv
	resolved.Run = ""
	resolved.Command = words[0]
	resolved.Args = words[1:]
	return resolved, nil
}

// String renders the invocation as a command line
func (inv Invocation) String() string {
	if len(inv.Args) == 0 {
		return inv.Command
	}
	return inv.Command + " " + strings.Join(inv.Args, " ")
}

// Clone creates a deep copy of the Target
func (t Target) Clone() Target {
	clone := Target{
		Name: t.Name,
		Invocation: Invocation{
			Command: t.Command,
			Dir:     t.Dir,
			Run:     t.Run,
		},
	}
	if t.Args != nil {
		clone.Args = make([]string, len(t.Args))
		copy(clone.Args, t.Args)
	}
	if t.Env != nil {
		clone.Env = make([]string, len(t.Env))
		copy(clone.Env, t.Env)
	}
	return clone
}

// Load decodes and validates a catalog document
func Load(data []byte, format Format) (*Catalog, error) {
	var doc Document

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse catalog: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse catalog: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}

	if len(doc.Targets) == 0 {
		return nil, fmt.Errorf("invalid catalog: at least one target is required")
	}

	c, err := New(doc.Targets...)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return c, nil
}

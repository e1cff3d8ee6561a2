// Package doctor probes whether the executables of a catalog are installed.
package doctor

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/blang/semver/v4"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/sync/errgroup"

	"github.com/devbench/devbench/internal/debug"
	"github.com/devbench/devbench/internal/executor"
	"github.com/devbench/devbench/pkg/catalog"
)

// commandExecutor is an interface for executing probe commands
type commandExecutor interface {
	Execute(ctx context.Context, command string, args []string, options executor.ExecOptions) (*executor.ExecResult, error)
}

// Status is the probe outcome for one target
type Status struct {
	Target    string
	Command   string
	Path      string
	Version   string
	Available bool
}

// versionArgs lists the flags asking a tool for its version, tried in order
var versionArgs = map[string][][]string{
	"go":    {{"version"}},
	"javac": {{"-version"}, {"--version"}},
	"java":  {{"-version"}, {"--version"}},
}

var defaultVersionArgs = [][]string{{"--version"}, {"version"}}

// Doctor checks tool presence. A missing tool is a status, never an error.
type Doctor struct {
	executor    commandExecutor
	lookPath    func(string) (string, error)
	environment []string
	timeout     time.Duration
}

// New creates a doctor that probes with the given environment
func New(cmdExec commandExecutor, environment []string) *Doctor {
	return &Doctor{
		executor:    cmdExec,
		lookPath:    lookPath,
		environment: environment,
		timeout:     5 * time.Second,
	}
}

func lookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Check probes every target concurrently and returns statuses in catalog order
func (d *Doctor) Check(ctx context.Context, c *catalog.Catalog) []Status {
	debug.LogSection("Doctor")

	targets := c.Targets()
	statuses := make([]Status, len(targets))

	// probes never fail, a missing tool is recorded in its status
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range targets {
		i, t := i, t // per-iteration copies; go.mod targets go1.21 loop semantics
		g.Go(func() error {
			statuses[i] = d.probe(gctx, t)
			return nil
		})
	}
	_ = g.Wait()

	return statuses
}

func (d *Doctor) probe(ctx context.Context, t catalog.Target) Status {
	status := Status{Target: t.Name, Command: t.Command}

	path, err := d.lookPath(t.Command)
	if err != nil {
		debug.Log("%s: %v", t.Command, err)
		return status
	}
	status.Path = path
	status.Available = true

	candidates, ok := versionArgs[t.Command]
	if !ok {
		candidates = defaultVersionArgs
	}

	options := executor.ExecOptions{
		Environment: d.environment,
		Overrides:   t.Env,
		Timeout:     d.timeout,
	}
	for _, args := range candidates {
		result, err := d.executor.Execute(ctx, t.Command, args, options)
		if err != nil || result.ExitCode != 0 {
			continue
		}
		// some tools (javac) print their version on stderr
		if v := ExtractVersion(result.Stdout + "\n" + result.Stderr); v != "" {
			status.Version = v
			break
		}
	}
	return status
}

// distro package revisions ("11.4.0-1ubuntu1") are not part of the version
var versionPattern = regexp.MustCompile(`\d+\.\d+(?:\.\d+)?`)

// ExtractVersion finds the first version number in a tool's output and
// normalises it to semantic version form, e.g. "go1.22" becomes "1.22.0".
func ExtractVersion(output string) string {
	match := versionPattern.FindString(output)
	if match == "" {
		return ""
	}
	v, err := semver.ParseTolerant(match)
	if err != nil {
		return match
	}
	return v.String()
}

// Missing returns the statuses whose executable was not found
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if !s.Available {
			missing = append(missing, s)
		}
	}
	return missing
}

// WriteTable renders statuses as a table
func WriteTable(w io.Writer, statuses []Status) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Target", "Command", "Status", "Version", "Path"})
	for _, s := range statuses {
		state := "missing"
		if s.Available {
			state = "ok"
		}
		version := s.Version
		if version == "" {
			version = "-"
		}
		table.Append([]string{s.Target, s.Command, state, version, s.Path})
	}
	table.Render()
}

// Summary returns a one-line verdict
func Summary(statuses []Status) string {
	missing := Missing(statuses)
	if len(missing) == 0 {
		return fmt.Sprintf("All %d toolchains are available.", len(statuses))
	}
	names := make([]string, len(missing))
	for i, s := range missing {
		names[i] = s.Target
	}
	return fmt.Sprintf("%d of %d toolchains missing: %s", len(missing), len(statuses), strings.Join(names, ", "))
}

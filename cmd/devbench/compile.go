package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/devbench/devbench/internal/bench"
	"github.com/devbench/devbench/internal/config"
	"github.com/devbench/devbench/internal/debug"
	"github.com/devbench/devbench/internal/executor"
	"github.com/devbench/devbench/internal/janitor"
	"github.com/devbench/devbench/internal/progress"
	"github.com/devbench/devbench/internal/report"
	"github.com/devbench/devbench/internal/selection"
	"github.com/devbench/devbench/internal/workspace"
	"github.com/devbench/devbench/pkg/catalog"
)

const selectionMessage = "Select the targets to benchmark:"

// noBenchmarkMessage is printed when the selection is cancelled
const noBenchmarkMessage = "No benchmark requested."

// newPrompter returns the checklist used for interactive selection
var newPrompter = func() selection.Prompter {
	return &selection.SurveyPrompter{}
}

// interactive reports whether the checklist can be shown
var interactive = func(cmd *cobra.Command) bool {
	return isTerminal(cmd.InOrStdin())
}

type compileOptions struct {
	iterations int
	warmup     int
	targets    []string
	yes        bool
	format     string
	save       string
	timeout    time.Duration
}

func newCompileCmd() *cobra.Command {
	opts := &compileOptions{}

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Benchmark compiling a trivial program with each toolchain",
		Long: `Benchmark how long each toolchain takes to compile a trivial program.

All targets are offered in a checklist with every entry checked; uncheck
the ones you do not want and confirm. At least one target must stay
selected. Each selected target is built --warmup times without being
measured, then --iterations times with the wall-clock time of every build
recorded. The output directory is emptied after every build.

Without a terminal on stdin, or with --yes, the prompt is skipped and the
targets matching --targets (all of them by default) are benchmarked.`,
		Example: `  # Pick targets interactively
  devbench compile

  # Five measured runs of every C-family target, no prompt
  devbench compile --yes --targets 'C*' --iterations 5

  # Fail any build that takes longer than a minute
  devbench compile --timeout 1m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.iterations, "iterations", "n", config.DefaultIterations, "Measured runs per target")
	cmd.Flags().IntVar(&opts.warmup, "warmup", config.DefaultWarmup, "Discarded warm-up runs per target")
	cmd.Flags().StringSliceVarP(&opts.targets, "targets", "t", nil, "Glob patterns preselecting targets (e.g. 'C*,Go')")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Skip the prompt and benchmark the preselected targets")
	cmd.Flags().StringVarP(&opts.format, "format", "f", string(report.FormatTable), "Output format (table or json)")
	cmd.Flags().StringVar(&opts.save, "save", "", "Also write the results as JSON to this file")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Per-build time limit (0 disables it)")
	_ = cmd.RegisterFlagCompletionFunc("targets", completeTargets)

	return cmd
}

// apply layers explicitly set flags over the file settings
func (o *compileOptions) apply(cmd *cobra.Command, s *config.Settings) *config.Settings {
	flags := cmd.Flags()
	s = s.Clone()
	if flags.Changed("iterations") {
		s.Iterations = o.iterations
	}
	if flags.Changed("warmup") {
		s.Warmup = o.warmup
	}
	if flags.Changed("timeout") {
		s.Timeout = o.timeout.Milliseconds()
	}
	return s
}

func runCompile(cmd *cobra.Command, opts *compileOptions) error {
	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	fileSettings, err := loadSettings()
	if err != nil {
		return err
	}
	settings := opts.apply(cmd, fileSettings)
	if err := settings.Validate(); err != nil {
		return err
	}

	c, err := settings.Catalog()
	if err != nil {
		return err
	}

	names, err := selectTargets(cmd, c, opts)
	if errors.Is(err, selection.ErrCancelled) {
		fmt.Fprintln(cmd.OutOrStdout(), noBenchmarkMessage)
		return nil
	}
	if err != nil {
		return err
	}

	if err := workspace.Ensure(settings.WorkDir, settings.OutputDir); err != nil {
		return err
	}

	env := executor.MergeEnvironment(os.Environ(), settings.Environment)
	invoker := executor.NewTimedInvoker(env, settings.TimeoutDuration())
	cleaner := janitor.New(settings.OutputPath())

	stderr := cmd.ErrOrStderr()
	opt := settings.BenchOptions()
	bar := progress.NewBar(stderr, bench.TotalEvents(len(names), opt), isTerminal(stderr))

	start := time.Now()
	observer := bench.Observers{bar, bench.ObserverFunc(logTargetDone)}
	results, runErr := bench.New(invoker, cleaner, observer).Run(cmd.Context(), c, names, opt)
	_ = bar.Finish()
	debug.LogTiming("Compile benchmark", time.Since(start))

	if runErr != nil {
		if len(results) > 0 {
			fmt.Fprintln(stderr, "partial results:")
			_ = report.Write(stderr, format, results)
		}
		return runErr
	}

	if err := report.Write(cmd.OutOrStdout(), format, results); err != nil {
		return err
	}

	if opts.save != "" {
		if err := report.Save(opts.save, results); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "Results saved to %s\n", opts.save)
	}
	return nil
}

// selectTargets runs the selection session, prompting only when stdin is a
// terminal and --yes was not given
func selectTargets(cmd *cobra.Command, c *catalog.Catalog, opts *compileOptions) ([]string, error) {
	session := selection.NewSession(c)
	if err := selection.Preselect(session, opts.targets); err != nil {
		return nil, err
	}

	if opts.yes || !interactive(cmd) {
		debug.Log("Selecting without prompt: %v", session.Snapshot())
		names, err := selection.Auto(session)
		if errors.Is(err, selection.ErrEmptySelection) && len(opts.targets) > 0 {
			return nil, fmt.Errorf("no target matches %v: %w", opts.targets, err)
		}
		return names, err
	}
	return selection.Run(session, newPrompter(), selectionMessage)
}

// isTerminal reports whether v is a file attached to a terminal
func isTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// logTargetDone traces the end of each target's measured runs
func logTargetDone(e bench.Event) {
	if e.Phase == bench.PhaseMeasured && e.Iteration == e.Total {
		debug.Log("Finished %s after %d measured runs", e.Target, e.Total)
	}
}

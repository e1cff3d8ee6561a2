// Package bench drives warm-up and measured runs of the selected targets.
package bench

import (
	"context"
	"errors"
	"fmt"

	"github.com/devbench/devbench/internal/debug"
	"github.com/devbench/devbench/internal/executor"
	"github.com/devbench/devbench/internal/stats"
	"github.com/devbench/devbench/pkg/catalog"
)

// Default iteration counts for the compile benchmark
const (
	DefaultIterations = 15
	DefaultWarmup     = 3
)

// ErrEmptySelection is returned when Run is asked to benchmark nothing
var ErrEmptySelection = errors.New("no targets selected")

// Invoker runs one invocation and reports how long it took
type Invoker interface {
	Invoke(ctx context.Context, inv catalog.Invocation) (executor.Sample, error)
}

// Cleaner resets the shared build-output directory
type Cleaner interface {
	Clean() error
}

// Options controls how many times each target runs
type Options struct {
	Warmup     int
	Iterations int
}

// Validate rejects negative counts. Fewer than two iterations is allowed
// but leaves the spread statistics undefined.
func (o Options) Validate() error {
	if o.Warmup < 0 {
		return fmt.Errorf("warmup must be non-negative, got %d", o.Warmup)
	}
	if o.Iterations < 0 {
		return fmt.Errorf("iterations must be non-negative, got %d", o.Iterations)
	}
	return nil
}

// TotalEvents is the number of progress events Run emits for targets targets
func TotalEvents(targets int, opts Options) int {
	return targets * (opts.Warmup + opts.Iterations)
}

// Orchestrator benchmarks targets strictly one invocation at a time.
// Every invocation, warm-up included, is followed by a cleanup so no run
// sees artifacts from another.
type Orchestrator struct {
	invoker  Invoker
	cleaner  Cleaner
	observer Observer
}

// New creates an orchestrator. A nil observer discards progress events.
func New(invoker Invoker, cleaner Cleaner, observer Observer) *Orchestrator {
	if observer == nil {
		observer = ObserverFunc(func(Event) {})
	}
	return &Orchestrator{
		invoker:  invoker,
		cleaner:  cleaner,
		observer: observer,
	}
}

// Run benchmarks the selected names in catalog order.
//
// A failure to spawn, a timeout, a cleanup failure or cancellation of ctx stops
// the whole run. The results of targets completed before the failure are
// returned together with the error.
func (o *Orchestrator) Run(ctx context.Context, c *catalog.Catalog, selected []string, opts Options) ([]Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, ErrEmptySelection
	}
	targets, err := c.Select(selected)
	if err != nil {
		return nil, err
	}

	debug.LogSection("Benchmark")
	debug.Log("Targets: %d, warmup: %d, iterations: %d", len(targets), opts.Warmup, opts.Iterations)

	results := make([]Result, 0, len(targets))
	for _, target := range targets {
		result, err := o.runTarget(ctx, target, opts)
		if err != nil {
			return results, fmt.Errorf("benchmark %s: %w", target.Name, err)
		}
		results = append(results, result)
	}
	return results, nil
}

func (o *Orchestrator) runTarget(ctx context.Context, target catalog.Target, opts Options) (Result, error) {
	debug.Log("Benchmarking %s: %s", target.Name, target.Invocation)

	for i := 1; i <= opts.Warmup; i++ {
		sample, err := o.iterate(ctx, target)
		if err != nil {
			return Result{}, err
		}
		debug.LogSample(target.Name, PhaseWarmup.String(), i, opts.Warmup, sample.Seconds(), sample.ExitCode)
		o.observer.Observe(Event{Target: target.Name, Phase: PhaseWarmup, Iteration: i, Total: opts.Warmup})
	}

	samples := make([]executor.Sample, 0, opts.Iterations)
	for i := 1; i <= opts.Iterations; i++ {
		sample, err := o.iterate(ctx, target)
		if err != nil {
			return Result{}, err
		}
		samples = append(samples, sample)
		debug.LogSample(target.Name, PhaseMeasured.String(), i, opts.Iterations, sample.Seconds(), sample.ExitCode)
		o.observer.Observe(Event{Target: target.Name, Phase: PhaseMeasured, Iteration: i, Total: opts.Iterations})
	}

	return newResult(target, opts.Warmup, samples), nil
}

// iterate performs one invoke-then-clean step
func (o *Orchestrator) iterate(ctx context.Context, target catalog.Target) (executor.Sample, error) {
	if err := ctx.Err(); err != nil {
		return executor.Sample{}, err
	}

	sample, invokeErr := o.invoker.Invoke(ctx, target.Invocation)
	if cleanErr := o.cleaner.Clean(); cleanErr != nil {
		return executor.Sample{}, errors.Join(invokeErr, cleanErr)
	}
	if invokeErr != nil {
		return executor.Sample{}, invokeErr
	}
	return sample, nil
}

// Result is the outcome of benchmarking one target
type Result struct {
	Target     string
	Invocation catalog.Invocation
	Warmup     int
	// Samples holds the measured runs in execution order
	Samples []executor.Sample
	Summary stats.Summary
	// StatsErr is set when the summary is incomplete, e.g. fewer than two samples
	StatsErr error
}

func newResult(target catalog.Target, warmup int, samples []executor.Sample) Result {
	r := Result{
		Target:     target.Name,
		Invocation: target.Invocation,
		Warmup:     warmup,
		Samples:    samples,
	}
	r.Summary, r.StatsErr = stats.Summarize(r.Series())
	if r.StatsErr != nil {
		debug.LogError(r.StatsErr, "statistics for "+target.Name)
	}
	return r
}

// Iterations returns the number of measured runs
func (r Result) Iterations() int {
	return len(r.Samples)
}

// Series returns the measured durations in seconds
func (r Result) Series() []float64 {
	series := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		series[i] = s.Seconds()
	}
	return series
}

// Failures counts measured runs that exited with a non-zero status
func (r Result) Failures() int {
	n := 0
	for _, s := range r.Samples {
		if s.ExitCode != 0 {
			n++
		}
	}
	return n
}

// Package progress renders benchmark progress events.
package progress

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/devbench/devbench/internal/bench"
)

// Bar is a determinate progress bar advanced once per benchmark event
type Bar struct {
	bar   *progressbar.ProgressBar
	total int
	seen  int
}

// NewBar creates a bar expecting total events. With visible false nothing is
// drawn but events are still counted.
func NewBar(w io.Writer, total int, visible bool) *Bar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Benchmarking"),
		progressbar.OptionSetVisibility(visible),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "|",
			BarEnd:        "|",
		}),
	)
	return &Bar{bar: bar, total: total}
}

// Observe implements bench.Observer
func (b *Bar) Observe(e bench.Event) {
	b.seen++
	b.bar.Describe(Describe(e))
	_ = b.bar.Add(1)
}

// Seen returns the number of events observed
func (b *Bar) Seen() int {
	return b.seen
}

// Total returns the number of events the bar expects
func (b *Bar) Total() int {
	return b.total
}

// Finish completes and clears the bar
func (b *Bar) Finish() error {
	return b.bar.Finish()
}

// Describe renders an event as a short label, e.g. "Go measured 3/15"
func Describe(e bench.Event) string {
	return fmt.Sprintf("%s %s %d/%d", e.Target, e.Phase, e.Iteration, e.Total)
}

// Package report renders benchmark results as a table or as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"

	"github.com/devbench/devbench/internal/bench"
)

// Format selects the rendering of results
type Format string

const (
	// FormatTable renders an aligned text table
	FormatTable Format = "table"
	// FormatJSON renders the results as a JSON document
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported format %q (want table or json)", s)
	}
}

// precision for all reported seconds
const secondsFormat = "%.6f"

const notAvailable = "n/a"

var headers = []string{"Target", "Runs", "Mean (s)", "Min (s)", "Max (s)", "Std Dev", "Variance", "Failures"}

// Write renders results in the given format
func Write(w io.Writer, format Format, results []bench.Result) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, results)
	default:
		WriteTable(w, results)
		return nil
	}
}

// WriteTable renders one row per target
func WriteTable(w io.Writer, results []bench.Result) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader(headers)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetRowLine(false)
	for _, r := range results {
		table.Append(Row(r))
	}
	table.Render()
}

// Row formats a single result for the table
func Row(r bench.Result) []string {
	row := []string{
		r.Target,
		Runs(r),
		notAvailable, notAvailable, notAvailable,
		notAvailable, notAvailable,
		fmt.Sprintf("%d", r.Failures()),
	}
	if r.Summary.Count > 0 {
		row[2] = fmt.Sprintf(secondsFormat, r.Summary.Mean)
		row[3] = fmt.Sprintf(secondsFormat, r.Summary.Min)
		row[4] = fmt.Sprintf(secondsFormat, r.Summary.Max)
	}
	if r.Summary.HasSpread {
		row[5] = fmt.Sprintf(secondsFormat, r.Summary.Stdev)
		row[6] = fmt.Sprintf(secondsFormat, r.Summary.Variance)
	}
	return row
}

// Runs renders the "(warmup) + iterations" descriptor
func Runs(r bench.Result) string {
	return fmt.Sprintf("(%d) + %d", r.Warmup, r.Iterations())
}

// Document is the JSON form of a benchmark session
type Document struct {
	// RunID identifies the session so saved files can be told apart
	RunID       string        `json:"run_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Results     []TargetEntry `json:"results"`
}

// TargetEntry is the JSON form of one result
type TargetEntry struct {
	Target     string    `json:"target"`
	Command    string    `json:"command"`
	Warmup     int       `json:"warmup"`
	Iterations int       `json:"iterations"`
	Samples    []float64 `json:"samples"`
	ExitCodes  []int     `json:"exit_codes"`
	Mean       *float64  `json:"mean,omitempty"`
	Min        *float64  `json:"min,omitempty"`
	Max        *float64  `json:"max,omitempty"`
	Stdev      *float64  `json:"stdev,omitempty"`
	Variance   *float64  `json:"variance,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// NewDocument converts results into their JSON form
func NewDocument(results []bench.Result, now time.Time) Document {
	doc := Document{
		RunID:       uuid.NewString(),
		GeneratedAt: now.UTC(),
		Results:     make([]TargetEntry, 0, len(results)),
	}
	for _, r := range results {
		entry := TargetEntry{
			Target:     r.Target,
			Command:    r.Invocation.String(),
			Warmup:     r.Warmup,
			Iterations: r.Iterations(),
			Samples:    r.Series(),
			ExitCodes:  make([]int, len(r.Samples)),
		}
		for i, s := range r.Samples {
			entry.ExitCodes[i] = s.ExitCode
		}
		if r.Summary.Count > 0 {
			entry.Mean, entry.Min, entry.Max = ptr(r.Summary.Mean), ptr(r.Summary.Min), ptr(r.Summary.Max)
		}
		if r.Summary.HasSpread {
			entry.Stdev, entry.Variance = ptr(r.Summary.Stdev), ptr(r.Summary.Variance)
		}
		if r.StatsErr != nil {
			entry.Error = r.StatsErr.Error()
		}
		doc.Results = append(doc.Results, entry)
	}
	return doc
}

func ptr(v float64) *float64 { return &v }

// WriteJSON renders results as indented JSON
func WriteJSON(w io.Writer, results []bench.Result) error {
	data, err := json.MarshalIndent(NewDocument(results, time.Now()), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// Save writes results as JSON to filename, creating parent directories
func Save(filename string, results []bench.Result) error {
	data, err := json.MarshalIndent(NewDocument(results, time.Now()), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

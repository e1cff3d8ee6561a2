// Package stats reduces a series of timing samples to summary statistics.
package stats

import (
	"errors"
	"math"
)

var (
	// ErrNoSamples is returned for an empty series
	ErrNoSamples = errors.New("no samples")

	// ErrInsufficientSamples is returned when sample variance is undefined (n < 2)
	ErrInsufficientSamples = errors.New("at least two samples are required for sample variance")
)

// Summary holds the statistics of one series, in seconds.
// Stdev and Variance use the n-1 (sample) denominator.
type Summary struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Stdev    float64 `json:"stdev"`
	Variance float64 `json:"variance"`
	// HasSpread is false when Stdev and Variance could not be computed
	HasSpread bool `json:"has_spread"`
}

// Summarize computes the statistics of series.
//
// For a series of exactly one sample the returned Summary carries valid
// Count, Mean, Min and Max and the error is ErrInsufficientSamples, so
// callers can still report the central values. An empty series yields
// ErrNoSamples and a zero Summary.
func Summarize(series []float64) (Summary, error) {
	mean, err := Mean(series)
	if err != nil {
		return Summary{}, err
	}
	// a non-empty series always has bounds
	lo, _ := Min(series)
	hi, _ := Max(series)

	s := Summary{
		Count: len(series),
		Mean:  mean,
		Min:   lo,
		Max:   hi,
	}

	variance, err := Variance(series)
	if err != nil {
		return s, err
	}
	stdev, err := Stdev(series)
	if err != nil {
		return s, err
	}
	s.Variance = variance
	s.Stdev = stdev
	s.HasSpread = true
	return s, nil
}

// Mean returns sum(series)/len(series)
func Mean(series []float64) (float64, error) {
	if len(series) == 0 {
		return 0, ErrNoSamples
	}
	var sum float64
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series)), nil
}

// Min returns the smallest value in series
func Min(series []float64) (float64, error) {
	if len(series) == 0 {
		return 0, ErrNoSamples
	}
	lo, _ := bounds(series)
	return lo, nil
}

// Max returns the largest value in series
func Max(series []float64) (float64, error) {
	if len(series) == 0 {
		return 0, ErrNoSamples
	}
	_, hi := bounds(series)
	return hi, nil
}

// Variance returns the sample variance of series
func Variance(series []float64) (float64, error) {
	if len(series) == 0 {
		return 0, ErrNoSamples
	}
	if len(series) < 2 {
		return 0, ErrInsufficientSamples
	}

	mean, _ := Mean(series)
	var squares float64
	for _, v := range series {
		d := v - mean
		squares += d * d
	}
	return squares / float64(len(series)-1), nil
}

// Stdev returns the sample standard deviation of series
func Stdev(series []float64) (float64, error) {
	variance, err := Variance(series)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(variance), nil
}

// bounds expects a non-empty series
func bounds(series []float64) (lo, hi float64) {
	lo, hi = series[0], series[0]
	for _, v := range series[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

package stats

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func TestSummarize(t *testing.T) {
	s, err := Summarize([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)

	assert.Equal(t, 8, s.Count)
	assert.InDelta(t, 5.0, s.Mean, tolerance)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
	// sample variance: 32/7
	assert.InDelta(t, 32.0/7.0, s.Variance, tolerance)
	assert.InDelta(t, math.Sqrt(32.0/7.0), s.Stdev, tolerance)
	assert.True(t, s.HasSpread)
}

func TestSummarize_ConstantSeries(t *testing.T) {
	s, err := Summarize([]float64{0.01, 0.01, 0.01})
	require.NoError(t, err)
	assert.InDelta(t, 0.01, s.Mean, tolerance)
	assert.InDelta(t, 0, s.Stdev, tolerance)
	assert.InDelta(t, 0, s.Variance, tolerance)
}

func TestSummarize_SingleSample(t *testing.T) {
	s, err := Summarize([]float64{0.25})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientSamples))

	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 0.25, s.Mean)
	assert.Equal(t, 0.25, s.Min)
	assert.Equal(t, 0.25, s.Max)
	assert.False(t, s.HasSpread)
	assert.False(t, math.IsNaN(s.Stdev))
}

func TestEmptySeries(t *testing.T) {
	_, err := Summarize(nil)
	assert.True(t, errors.Is(err, ErrNoSamples))

	for name, fn := range map[string]func([]float64) (float64, error){
		"mean": Mean, "min": Min, "max": Max, "variance": Variance, "stdev": Stdev,
	} {
		_, err := fn([]float64{})
		assert.True(t, errors.Is(err, ErrNoSamples), name)
	}
}

func TestStdevRequiresTwoSamples(t *testing.T) {
	_, err := Stdev([]float64{1})
	assert.True(t, errors.Is(err, ErrInsufficientSamples))

	v, err := Stdev([]float64{1, 3})
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, v, tolerance)
}

func seriesGen(minLen, maxLen int) gopter.Gen {
	return gen.IntRange(minLen, maxLen).FlatMap(func(n interface{}) gopter.Gen {
		return gen.SliceOfN(n.(int), gen.Float64Range(0, 120))
	}, reflect.TypeOf([]float64{}))
}

func TestSummarize_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("mean is sum over count", prop.ForAll(
		func(series []float64) bool {
			s, err := Summarize(series)
			if err != nil {
				return false
			}
			var sum float64
			for _, v := range series {
				sum += v
			}
			return math.Abs(s.Mean-sum/float64(len(series))) <= tolerance
		},
		seriesGen(2, 50),
	))

	properties.Property("every sample lies within min and max", prop.ForAll(
		func(series []float64) bool {
			s, err := Summarize(series)
			if err != nil {
				return false
			}
			for _, v := range series {
				if v < s.Min || v > s.Max {
					return false
				}
			}
			return s.Min <= s.Mean+tolerance && s.Mean <= s.Max+tolerance
		},
		seriesGen(2, 50),
	))

	properties.Property("variance equals stdev squared", prop.ForAll(
		func(series []float64) bool {
			s, err := Summarize(series)
			if err != nil {
				return false
			}
			return math.Abs(s.Variance-s.Stdev*s.Stdev) <= 1e-6*math.Max(1, s.Variance)
		},
		seriesGen(2, 50),
	))

	properties.Property("short series report an error instead of a spread", prop.ForAll(
		func(series []float64) bool {
			s, err := Summarize(series)
			return err != nil && !s.HasSpread && s.Stdev == 0
		},
		seriesGen(0, 1),
	))

	properties.TestingRun(t)
}

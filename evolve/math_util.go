package evolve

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// clamp restricts a value to a given range [minVal, maxVal].
func clamp(value, minVal, maxVal float64) float64 {
	return math.Max(minVal, math.Min(value, maxVal))
}

// Summary describes the score distribution of a population.
type Summary struct {
	Min    float64
	Max    float64
	Mean   float64
	Stdev  float64
	Median float64
}

// Summarize computes a Summary over scores. An empty slice yields NaNs.
func Summarize(scores []float64) Summary {
	if len(scores) == 0 {
		nan := math.NaN()
		return Summary{Min: nan, Max: nan, Mean: nan, Stdev: nan, Median: nan}
	}
	sorted := slices.Clone(scores)
	slices.Sort(sorted)

	s := Summary{
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
		Mean:   stat.Mean(sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
	// Sample standard deviation is undefined for fewer than 2 values.
	if len(sorted) > 1 {
		s.Stdev = stat.StdDev(sorted, nil)
	}
	return s
}

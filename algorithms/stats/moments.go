package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean, 0 for an empty sequence
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// MeanAbsoluteDifference returns mean |a[i]-b[i]| and false when the
// lengths differ or both are empty
func MeanAbsoluteDifference(a, b []float64) (float64, bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}
	return floats.Distance(a, b, 1) / float64(len(a)), true
}

// Summary holds descriptive statistics of one sequence
type Summary struct {
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
}

// Summarize returns descriptive statistics; zero values for empty input.
// StdDev is the population standard deviation.
func Summarize(data []float64) Summary {
	if len(data) == 0 {
		return Summary{}
	}

	mean, variance := stat.PopMeanVariance(data, nil)
	return Summary{
		Count:  len(data),
		Mean:   mean,
		StdDev: sqrt(variance),
		Min:    floats.Min(data),
		Max:    floats.Max(data),
	}
}

// ZNormalize returns (x - mean) / std. A constant sequence maps to zeros.
func ZNormalize(data []float64) []float64 {
	out := make([]float64, len(data))
	if len(data) == 0 {
		return out
	}

	mean, variance := stat.PopMeanVariance(data, nil)
	std := sqrt(variance)

	for i, v := range data {
		if std > 0 {
			out[i] = (v - mean) / std
		}
	}
	return out
}

func sqrt(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v)
}

package filters

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// PeakNormalize scales signal so its largest absolute sample equals target.
// Silent input is returned as an unscaled copy.
func PeakNormalize(signal []float64, target float64) []float64 {
	output := make([]float64, len(signal))
	copy(output, signal)

	if len(signal) == 0 {
		return output
	}

	peak := floats.Norm(signal, math.Inf(1))
	if peak == 0 {
		return output
	}

	floats.Scale(target/peak, output)
	return output
}

// NoiseGate zeroes every sample whose magnitude is below threshold
func NoiseGate(signal []float64, threshold float64) []float64 {
	output := make([]float64, len(signal))
	for i, v := range signal {
		if math.Abs(v) >= threshold {
			output[i] = v
		}
	}
	return output
}

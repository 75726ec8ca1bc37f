package filters

import (
	"fmt"
)

// PreEmphasis implements H(z) = 1 - α·z^-1, lifting the high end of the
// spectrum before linear prediction.
//
// References:
//   - L.R. Rabiner, R.W. Schafer, "Digital Processing of Speech Signals",
//     Prentice-Hall, 1978, Chapter 4
type PreEmphasis struct {
	coefficient float64 // α
	lastSample  float64 // x[n-1]
}

// DefaultPreEmphasis is the usual coefficient for speech
const DefaultPreEmphasis = 0.97

// NewPreEmphasis creates a pre-emphasis filter with coefficient α in (0, 1)
func NewPreEmphasis(coefficient float64) (*PreEmphasis, error) {
	if coefficient <= 0.0 || coefficient >= 1.0 {
		return nil, fmt.Errorf("coefficient must be between 0 and 1, got %f", coefficient)
	}
	return &PreEmphasis{coefficient: coefficient}, nil
}

// Process computes y[n] = x[n] - α·x[n-1]
func (pe *PreEmphasis) Process(input float64) float64 {
	output := input - pe.coefficient*pe.lastSample
	pe.lastSample = input
	return output
}

// ProcessBuffer applies pre-emphasis to an entire buffer of samples
func (pe *PreEmphasis) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	for i, sample := range input {
		output[i] = pe.Process(sample)
	}
	return output
}

package windowing

import (
	"fmt"
	"strings"
)

// Window is a fixed-length tapering function applied before a transform
type Window interface {
	Apply(signal []float64) []float64
	ApplyInPlace(signal []float64) error
	GetCoefficients() []float64
	GetSize() int
	GetType() string
}

// NewWindow builds a window by name: "hamming", "hann" or "rectangular".
// An empty name selects Hamming. Periodic (non-symmetric) coefficients are
// used, which suits spectral analysis.
func NewWindow(name string, size int) (Window, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid window size: %d", size)
	}

	switch strings.ToLower(name) {
	case "hamming", "":
		return NewHamming(size, false), nil
	case "hann", "hanning":
		return NewHann(size, false), nil
	case "rectangular", "rect", "none":
		return NewRectangular(size), nil
	default:
		return nil, fmt.Errorf("unknown window type: %q", name)
	}
}

// coefficients holds the shared apply logic for tabulated windows
type coefficients []float64

func (c coefficients) apply(signal []float64) []float64 {
	if len(signal) != len(c) {
		return nil
	}

	windowed := make([]float64, len(c))
	for i, w := range c {
		windowed[i] = signal[i] * w
	}
	return windowed
}

func (c coefficients) applyInPlace(signal []float64) error {
	if len(signal) != len(c) {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), len(c))
	}

	for i, w := range c {
		signal[i] *= w
	}
	return nil
}

func (c coefficients) clone() []float64 {
	out := make([]float64, len(c))
	copy(out, c)
	return out
}

// denominator returns N-1 for symmetric windows and N for periodic ones
func denominator(size int, symmetric bool) float64 {
	if symmetric && size > 1 {
		return float64(size - 1)
	}
	return float64(size)
}

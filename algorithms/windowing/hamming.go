package windowing

import "math"

// Hamming is the raised cosine window 0.54 - 0.46·cos(2πi/D)
type Hamming struct {
	symmetric    bool
	coefficients coefficients
}

// NewHamming creates a new Hamming window
func NewHamming(size int, symmetric bool) *Hamming {
	h := &Hamming{symmetric: symmetric}
	h.coefficients = make(coefficients, max(size, 0))

	d := denominator(size, symmetric)
	for i := range h.coefficients {
		h.coefficients[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/d)
	}
	return h
}

// Apply returns a windowed copy, or nil on a length mismatch
func (h *Hamming) Apply(signal []float64) []float64 { return h.coefficients.apply(signal) }

// ApplyInPlace multiplies signal by the window
func (h *Hamming) ApplyInPlace(signal []float64) error { return h.coefficients.applyInPlace(signal) }

// GetCoefficients returns a copy of the window coefficients
func (h *Hamming) GetCoefficients() []float64 { return h.coefficients.clone() }

// GetSize returns the window size
func (h *Hamming) GetSize() int { return len(h.coefficients) }

// GetType returns the window type
func (h *Hamming) GetType() string { return "hamming" }

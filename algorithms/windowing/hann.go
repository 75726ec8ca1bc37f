package windowing

import "math"

// Hann is the raised cosine window 0.5 - 0.5·cos(2πi/D)
type Hann struct {
	symmetric    bool
	coefficients coefficients
}

// NewHann creates a new Hann window
func NewHann(size int, symmetric bool) *Hann {
	h := &Hann{symmetric: symmetric}
	h.coefficients = make(coefficients, max(size, 0))

	d := denominator(size, symmetric)
	for i := range h.coefficients {
		h.coefficients[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/d)
	}
	return h
}

func (h *Hann) Apply(signal []float64) []float64 { return h.coefficients.apply(signal) }

func (h *Hann) ApplyInPlace(signal []float64) error { return h.coefficients.applyInPlace(signal) }

func (h *Hann) GetCoefficients() []float64 { return h.coefficients.clone() }

func (h *Hann) GetSize() int { return len(h.coefficients) }

func (h *Hann) GetType() string { return "hann" }

package windowing

// Rectangular leaves samples unchanged
type Rectangular struct {
	coefficients coefficients
}

// NewRectangular creates a new rectangular window
func NewRectangular(size int) *Rectangular {
	r := &Rectangular{coefficients: make(coefficients, max(size, 0))}
	for i := range r.coefficients {
		r.coefficients[i] = 1.0
	}
	return r
}

// Apply returns a plain copy of signal, or nil on a length mismatch
func (r *Rectangular) Apply(signal []float64) []float64 { return r.coefficients.apply(signal) }

func (r *Rectangular) ApplyInPlace(signal []float64) error {
	return r.coefficients.applyInPlace(signal)
}

func (r *Rectangular) GetCoefficients() []float64 { return r.coefficients.clone() }

func (r *Rectangular) GetSize() int { return len(r.coefficients) }

func (r *Rectangular) GetType() string { return "rectangular" }

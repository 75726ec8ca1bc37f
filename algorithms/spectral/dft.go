package spectral

import (
	"math"
)

// DFT is the direct O(N²) discrete Fourier transform. It is the reference
// the fast transforms are checked against.
type DFT struct{}

// NewDFT creates a new direct DFT
func NewDFT() *DFT {
	return &DFT{}
}

// Name returns the transform identifier
func (d *DFT) Name() string {
	return "dft"
}

// Compute evaluates every bin by direct summation
func (d *DFT) Compute(window []float64) []float64 {
	n := len(window)
	out := make([]float64, 2*n)
	if n == 0 {
		return out
	}

	// Twiddle table: angle for k·j is -2π((k·j) mod N)/N
	cosTable := make([]float64, n)
	sinTable := make([]float64, n)
	for m := range n {
		angle := -2.0 * math.Pi * float64(m) / float64(n)
		cosTable[m] = math.Cos(angle)
		sinTable[m] = math.Sin(angle)
	}

	for k := range n {
		re := 0.0
		im := 0.0
		idx := 0
		for j := range n {
			re += window[j] * cosTable[idx]
			im += window[j] * sinTable[idx]
			idx += k
			if idx >= n {
				idx -= n
			}
		}
		out[k] = re
		out[k+n] = im
	}

	return out
}

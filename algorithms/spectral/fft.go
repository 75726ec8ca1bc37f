package spectral

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// FFT provides Fast Fourier Transform functionality using mjibson/go-dsp
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Name returns the transform identifier
func (f *FFT) Name() string {
	return "fft"
}

// Compute returns the spectrum in the 2N real/imaginary layout.
// go-dsp handles all sizes, including non-power-of-2.
func (f *FFT) Compute(x []float64) []float64 {
	if len(x) == 0 {
		return []float64{}
	}
	return interleave(fft.FFTReal(x))
}

// GonumFFT computes the transform with gonum's real FFT. gonum returns the
// half spectrum [0, N/2]; the upper half is filled by conjugate symmetry.
type GonumFFT struct{}

// NewGonumFFT creates a new gonum-backed transform
func NewGonumFFT() *GonumFFT {
	return &GonumFFT{}
}

// Name returns the transform identifier
func (g *GonumFFT) Name() string {
	return "gonum"
}

// Compute returns the spectrum in the 2N real/imaginary layout
func (g *GonumFFT) Compute(x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return []float64{}
	}

	// fourier.FFT keeps internal work space, so one is built per call
	half := fourier.NewFFT(n).Coefficients(nil, x)

	full := make([]complex128, n)
	copy(full, half)
	for k := len(half); k < n; k++ {
		full[k] = cmplx.Conj(full[n-k])
	}

	return interleave(full)
}

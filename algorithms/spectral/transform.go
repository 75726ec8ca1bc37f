package spectral

import (
	"fmt"
	"math"
)

// Transform computes the forward discrete Fourier transform of a real window.
//
// The result has length 2N for an input of length N: entries [0, N) hold the
// real parts and entries [N, 2N) the imaginary parts of X[k] = Σ x[j]·e^(-2πikj/N).
// No window function is applied; callers window the input themselves if needed.
// Implementations are safe for concurrent use.
type Transform interface {
	Compute(window []float64) []float64
	Name() string
}

// NewTransform returns the transform registered under name ("fft", "dft" or "gonum")
func NewTransform(name string) (Transform, error) {
	switch name {
	case "fft", "":
		return NewFFT(), nil
	case "dft":
		return NewDFT(), nil
	case "gonum":
		return NewGonumFFT(), nil
	default:
		return nil, fmt.Errorf("unknown transform: %q", name)
	}
}

// Magnitudes returns |X[j]| = sqrt(re² + im²) for the meaningful bins [0, N/2)
// of a 2N-layout spectrum produced by a Transform
func Magnitudes(spectrum []float64) []float64 {
	n := len(spectrum) / 2
	half := n / 2
	mags := make([]float64, half)

	for j := range half {
		re := spectrum[j]
		im := spectrum[j+n]
		mags[j] = math.Sqrt(re*re + im*im)
	}

	return mags
}

// BinFrequency returns the centre frequency in Hz of bin j for a window of
// windowSize samples at sampleRate
func BinFrequency(j, windowSize, sampleRate int) float64 {
	return float64(j) * float64(sampleRate) / float64(windowSize)
}

// FrequencyBins pre-computes BinFrequency for bins [0, windowSize/2)
func FrequencyBins(windowSize, sampleRate int) []float64 {
	if windowSize <= 0 {
		return nil
	}
	bins := make([]float64, windowSize/2)
	for j := range bins {
		bins[j] = BinFrequency(j, windowSize, sampleRate)
	}
	return bins
}

// interleave converts complex coefficients to the 2N real/imaginary layout
func interleave(coeffs []complex128) []float64 {
	n := len(coeffs)
	out := make([]float64, 2*n)
	for k, c := range coeffs {
		out[k] = real(c)
		out[k+n] = imag(c)
	}
	return out
}

package speech

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrZeroEnergy is returned when a frame carries no energy to model
var ErrZeroEnergy = errors.New("zero energy signal")

// LPCAnalyzer performs Linear Predictive Coding analysis.
// LPC models the vocal tract as an all-pole filter, the basis for
// formant extraction.
type LPCAnalyzer struct {
	sampleRate int
	order      int
}

// LPCResult contains LPC analysis results.
//
// Coefficients are in predictor form: x[n] ≈ Σ a[i]·x[n-i] for i = 1..p,
// so the inverse filter is A(z) = 1 - Σ a[i]·z^-i. Coefficients[0] is 1.
type LPCResult struct {
	Coefficients    []float64 `json:"coefficients"`
	ReflectionCoeff []float64 `json:"reflection_coeff"`
	Gain            float64   `json:"gain"`
	ResidualEnergy  float64   `json:"residual_energy"`
	Order           int       `json:"order"`
}

// DefaultLPCOrder is the usual 2 + fs/1000 rule of thumb
func DefaultLPCOrder(sampleRate int) int {
	return 2 + sampleRate/1000
}

// NewLPCAnalyzer creates a new LPC analyzer. A non-positive order selects
// DefaultLPCOrder.
func NewLPCAnalyzer(sampleRate int, order int) *LPCAnalyzer {
	if order <= 0 {
		order = DefaultLPCOrder(sampleRate)
	}

	return &LPCAnalyzer{
		sampleRate: sampleRate,
		order:      order,
	}
}

// Order returns the prediction order
func (lpc *LPCAnalyzer) Order() int {
	return lpc.order
}

// Analyze fits an all-pole model to an already windowed frame
func (lpc *LPCAnalyzer) Analyze(frame []float64) (*LPCResult, error) {
	if len(frame) <= lpc.order {
		return nil, fmt.Errorf("signal too short for LPC analysis of order %d", lpc.order)
	}

	r := Autocorrelation(frame, lpc.order)

	result, err := LevinsonDurbin(r, lpc.order)
	if err != nil {
		return nil, fmt.Errorf("Levinson-Durbin algorithm failed: %w", err)
	}

	return result, nil
}

// Autocorrelation returns R[0..maxLag] where R[k] = Σ x[n]·x[n+k]
func Autocorrelation(signal []float64, maxLag int) []float64 {
	r := make([]float64, maxLag+1)
	for k := 0; k <= maxLag && k < len(signal); k++ {
		r[k] = floats.Dot(signal[:len(signal)-k], signal[k:])
	}
	return r
}

// LevinsonDurbin solves the normal equations for an order-p predictor
func LevinsonDurbin(r []float64, order int) (*LPCResult, error) {
	if len(r) < order+1 {
		return nil, fmt.Errorf("insufficient autocorrelation values: have %d, need %d", len(r), order+1)
	}
	if r[0] <= 0 {
		return nil, ErrZeroEnergy
	}

	a := make([]float64, order+1)
	prev := make([]float64, order+1)
	k := make([]float64, order)
	e := r[0]

	a[0] = 1.0

	for i := 1; i <= order; i++ {
		acc := r[i]
		for j := 1; j < i; j++ {
			acc -= a[j] * r[i-j]
		}

		ki := acc / e
		k[i-1] = ki

		copy(prev, a)
		a[i] = ki
		for j := 1; j < i; j++ {
			a[j] = prev[j] - ki*prev[i-j]
		}

		e *= 1 - ki*ki
		if e <= 0 {
			// perfectly predictable, higher orders add nothing
			e = 0
			break
		}
	}

	return &LPCResult{
		Coefficients:    a,
		ReflectionCoeff: k,
		Gain:            math.Sqrt(e),
		ResidualEnergy:  e,
		Order:           order,
	}, nil
}

// SpectralEnvelope evaluates |1/A(e^jω)| on nfft/2+1 evenly spaced bins
func SpectralEnvelope(coeffs []float64, nfft int) []float64 {
	if nfft <= 0 {
		nfft = 512
	}

	envelope := make([]float64, nfft/2+1)
	for bin := range envelope {
		omega := 2 * math.Pi * float64(bin) / float64(nfft)

		re, im := 1.0, 0.0
		for i := 1; i < len(coeffs); i++ {
			re -= coeffs[i] * math.Cos(float64(i)*omega)
			im += coeffs[i] * math.Sin(float64(i)*omega)
		}

		if mag := math.Hypot(re, im); mag > 0 {
			envelope[bin] = 1.0 / mag
		}
	}

	return envelope
}

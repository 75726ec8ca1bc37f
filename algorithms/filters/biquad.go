package filters

import (
	"fmt"
	"math"
)

// BiquadKind selects the cookbook response
type BiquadKind int

const (
	LowPass BiquadKind = iota
	HighPass
	BandPass
)

func (k BiquadKind) String() string {
	switch k {
	case LowPass:
		return "lowpass"
	case HighPass:
		return "highpass"
	case BandPass:
		return "bandpass"
	default:
		return fmt.Sprintf("BiquadKind(%d)", int(k))
	}
}

// Biquad implements a second order IIR section using the coefficient formulas
// from Robert Bristow-Johnson's "Cookbook formulae for audio EQ biquad filter coefficients".
// Reference: https://webaudio.github.io/Audio-EQ-Cookbook/audio-eq-cookbook.html
type Biquad struct {
	kind       BiquadKind
	sampleRate int
	freq       float64 // cutoff or centre frequency in Hz
	q          float64

	// normalized coefficients, a0 == 1
	b0, b1, b2 float64
	a1, a2     float64

	// transposed direct form II state
	z1, z2 float64
}

// ButterworthQ gives a maximally flat second order response
const ButterworthQ = 1 / math.Sqrt2

// NewBiquad creates a biquad filter of the given kind
func NewBiquad(kind BiquadKind, sampleRate int, freq, q float64) (*Biquad, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}
	if freq <= 0 || freq >= float64(sampleRate)/2 {
		return nil, fmt.Errorf("%s frequency must be between 0 and Nyquist (%d Hz), got %.2f",
			kind, sampleRate/2, freq)
	}
	if q <= 0 {
		return nil, fmt.Errorf("q factor must be positive, got %f", q)
	}

	bq := &Biquad{
		kind:       kind,
		sampleRate: sampleRate,
		freq:       freq,
		q:          q,
	}
	bq.computeCoefficients()
	return bq, nil
}

// NewHighPass creates a Butterworth high-pass filter
func NewHighPass(sampleRate int, cutoff float64) (*Biquad, error) {
	return NewBiquad(HighPass, sampleRate, cutoff, ButterworthQ)
}

// NewLowPass creates a Butterworth low-pass filter
func NewLowPass(sampleRate int, cutoff float64) (*Biquad, error) {
	return NewBiquad(LowPass, sampleRate, cutoff, ButterworthQ)
}

func (bq *Biquad) computeCoefficients() {
	w0 := 2.0 * math.Pi * bq.freq / float64(bq.sampleRate)
	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2.0 * bq.q)

	var b0, b1, b2 float64
	switch bq.kind {
	case LowPass:
		b0 = (1 - cosW0) / 2
		b1 = 1 - cosW0
		b2 = (1 - cosW0) / 2
	case HighPass:
		b0 = (1 + cosW0) / 2
		b1 = -(1 + cosW0)
		b2 = (1 + cosW0) / 2
	case BandPass:
		b0 = alpha
		b1 = 0
		b2 = -alpha
	}

	a0 := 1 + alpha
	bq.b0 = b0 / a0
	bq.b1 = b1 / a0
	bq.b2 = b2 / a0
	bq.a1 = -2 * cosW0 / a0
	bq.a2 = (1 - alpha) / a0
}

// Process filters a single sample.
// y[n] = b0*x[n] + b1*x[n-1] + b2*x[n-2] - a1*y[n-1] - a2*y[n-2]
func (bq *Biquad) Process(input float64) float64 {
	output := bq.b0*input + bq.z1
	bq.z1 = bq.b1*input - bq.a1*output + bq.z2
	bq.z2 = bq.b2*input - bq.a2*output
	return output
}

// ProcessBuffer filters an entire buffer of samples
func (bq *Biquad) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	for i, sample := range input {
		output[i] = bq.Process(sample)
	}
	return output
}

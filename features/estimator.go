package features

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-tajweed/algorithms/common"
	"github.com/RyanBlaney/sonido-tajweed/algorithms/spectral"
	"github.com/RyanBlaney/sonido-tajweed/algorithms/speech"
	"github.com/RyanBlaney/sonido-tajweed/algorithms/windowing"
	"github.com/RyanBlaney/sonido-tajweed/config"
)

// FormantEstimator produces a fixed number of ascending resonance frequencies
type FormantEstimator interface {
	Formants(samples []float64, sampleRate int) ([]float64, error)
}

// CepstralEstimator produces a fixed number of cepstral coefficients
type CepstralEstimator interface {
	Cepstral(samples []float64, sampleRate int) ([]float64, error)
}

// SpectralFeatureEstimator supplies the two whole-buffer spectral shape
// features. Output lengths never depend on the input length.
type SpectralFeatureEstimator interface {
	FormantEstimator
	CepstralEstimator
	Name() string
}

// NewEstimator builds the estimator named by cfg.Estimator
func NewEstimator(cfg config.AnalysisConfig, transform spectral.Transform) (SpectralFeatureEstimator, error) {
	switch cfg.Estimator {
	case config.EstimatorLPCMFCC, "":
		return &Estimator{
			FormantSource: &LPCEstimator{
				WindowSize:  cfg.WindowSize,
				HopSize:     cfg.HopSize,
				NumFormants: cfg.NumFormants,
				LPCOrder:    cfg.LPCOrder,
				Window:      cfg.Window,
			},
			CepstralSource: &MFCCEstimator{
				WindowSize:      cfg.WindowSize,
				HopSize:         cfg.HopSize,
				NumCoefficients: cfg.CepstralCoefficients,
				NumMelFilters:   cfg.MelFilters,
				Transform:       transform,
				Window:          cfg.Window,
			},
			name: config.EstimatorLPCMFCC,
		}, nil
	case config.EstimatorNull:
		return &NullEstimator{
			NumFormants:     cfg.NumFormants,
			NumCoefficients: cfg.CepstralCoefficients,
		}, nil
	default:
		return nil, fmt.Errorf("unknown estimator: %q", cfg.Estimator)
	}
}

// Estimator composes independent formant and cepstral sources
type Estimator struct {
	FormantSource  FormantEstimator
	CepstralSource CepstralEstimator
	name           string
}

func (e *Estimator) Formants(samples []float64, sampleRate int) ([]float64, error) {
	return e.FormantSource.Formants(samples, sampleRate)
}

func (e *Estimator) Cepstral(samples []float64, sampleRate int) ([]float64, error) {
	return e.CepstralSource.Cepstral(samples, sampleRate)
}

func (e *Estimator) Name() string {
	if e.name == "" {
		return "composite"
	}
	return e.name
}

// LPCEstimator picks formants from the LPC envelope of the loudest frame
type LPCEstimator struct {
	WindowSize  int
	HopSize     int
	NumFormants int
	LPCOrder    int    // 0 = 2 + sampleRate/1000
	Window      string // "" = hamming
}

func (l *LPCEstimator) Formants(samples []float64, sampleRate int) ([]float64, error) {
	params := speech.DefaultFormantParams(sampleRate)
	params.WindowSize = l.WindowSize
	params.HopSize = l.HopSize
	params.NumFormants = l.NumFormants
	params.LPCOrder = l.LPCOrder
	params.Window = l.Window

	fe, err := speech.NewFormantEstimator(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create formant estimator: %w", err)
	}

	return fe.Estimate(samples), nil
}

// MFCCEstimator averages per-frame MFCCs over every hop window.
// Frames are tapered by the named window (Hamming by default) before the
// transform. A signal shorter than one window is zero-padded to a single
// frame.
type MFCCEstimator struct {
	WindowSize      int
	HopSize         int
	NumCoefficients int
	NumMelFilters   int
	Transform       spectral.Transform // nil = FFT
	Window          string             // "" = hamming
}

func (m *MFCCEstimator) Cepstral(samples []float64, sampleRate int) ([]float64, error) {
	params := spectral.DefaultMFCCParams(sampleRate)
	params.NumCoefficients = m.NumCoefficients
	params.NumMelFilters = m.NumMelFilters

	mfcc, err := spectral.NewMFCC(sampleRate, m.WindowSize, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create MFCC: %w", err)
	}

	framer, err := common.NewFramer(m.WindowSize, m.HopSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create framer: %w", err)
	}

	transform := m.Transform
	if transform == nil {
		transform = spectral.NewFFT()
	}
	window, err := windowing.NewWindow(m.Window, m.WindowSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	if len(samples) < m.WindowSize {
		padded := make([]float64, m.WindowSize)
		copy(padded, samples)
		samples = padded
	}

	mean := make([]float64, mfcc.NumCoefficients())
	err = framer.ForEach(samples, func(_ int, frame []float64) error {
		coeffs, err := mfcc.Compute(spectral.Magnitudes(transform.Compute(window.Apply(frame))))
		if err != nil {
			return err
		}
		for i, c := range coeffs {
			mean[i] += c
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("MFCC computation failed: %w", err)
	}

	frames := float64(framer.Count(len(samples)))
	for i := range mean {
		mean[i] /= frames
	}

	return mean, nil
}

// NullFormants are the fixed stand-in resonances reported by NullEstimator
var NullFormants = []float64{800, 1200, 2500, 3500}

// NullEstimator returns fixed values that ignore the input entirely. It
// only pins down output shape for tests and must not be used for real
// comparisons.
type NullEstimator struct {
	NumFormants     int
	NumCoefficients int
}

func (n *NullEstimator) Formants(_ []float64, _ int) ([]float64, error) {
	count := n.NumFormants
	if count <= 0 {
		count = len(NullFormants)
	}

	out := make([]float64, count)
	for i := range out {
		if i < len(NullFormants) {
			out[i] = NullFormants[i]
		} else {
			out[i] = NullFormants[len(NullFormants)-1] + 1000*float64(i-len(NullFormants)+1)
		}
	}
	return out, nil
}

// Cepstral returns 0.1·sin(2πi/N) for i in [0, N)
func (n *NullEstimator) Cepstral(_ []float64, _ int) ([]float64, error) {
	count := n.NumCoefficients
	if count <= 0 {
		count = 13
	}

	out := make([]float64, count)
	for i := range out {
		out[i] = 0.1 * math.Sin(2*math.Pi*float64(i)/float64(count))
	}
	return out, nil
}

func (n *NullEstimator) Name() string {
	return config.EstimatorNull
}

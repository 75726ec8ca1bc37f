package tonal

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-tajweed/algorithms/common"
)

// PitchDetectionParams contains parameters for autocorrelation pitch detection
type PitchDetectionParams struct {
	SampleRate int `json:"sample_rate"`
	WindowSize int `json:"window_size"`
	HopSize    int `json:"hop_size"`
	MinLag     int `json:"min_lag"` // first lag searched (default: 20)
	MaxLag     int `json:"max_lag"` // exclusive upper lag (default: WindowSize/2)
}

// PitchDetectionResult is the outcome for one analysis window
type PitchDetectionResult struct {
	Pitch       float64 `json:"pitch"`       // Hz, 0 when unvoiced
	Lag         int     `json:"lag"`         // winning lag in samples, 0 when unvoiced
	Correlation float64 `json:"correlation"` // raw autocorrelation at Lag
	Voiced      bool    `json:"voiced"`
}

// PitchDetector estimates pitch from the time-domain autocorrelation peak.
//
// For lag ℓ the score is Σ x[j]·x[j+ℓ] over j in [0, N-ℓ). The lag with the
// strictly greatest positive score wins, so ties resolve to the smallest lag.
// A window with no positive score is reported as unvoiced with pitch 0 rather
// than dividing by a zero lag.
type PitchDetector struct {
	params PitchDetectionParams
	framer *common.Framer
}

// NewPitchDetector creates a detector with the 1024/512 window and [20, 512) lag range
func NewPitchDetector(sampleRate int) (*PitchDetector, error) {
	return NewPitchDetectorWithParams(PitchDetectionParams{
		SampleRate: sampleRate,
		WindowSize: 1024,
		HopSize:    512,
		MinLag:     20,
	})
}

// NewPitchDetectorWithParams creates a detector with custom parameters
func NewPitchDetectorWithParams(params PitchDetectionParams) (*PitchDetector, error) {
	if params.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", params.SampleRate)
	}
	if params.MaxLag <= 0 {
		params.MaxLag = params.WindowSize / 2
	}
	if params.MinLag <= 0 {
		return nil, fmt.Errorf("invalid minimum lag: %d", params.MinLag)
	}
	if params.MaxLag <= params.MinLag || params.MaxLag > params.WindowSize {
		return nil, fmt.Errorf("invalid lag range [%d, %d) for window size %d",
			params.MinLag, params.MaxLag, params.WindowSize)
	}

	framer, err := common.NewFramer(params.WindowSize, params.HopSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create framer: %w", err)
	}

	return &PitchDetector{
		params: params,
		framer: framer,
	}, nil
}

// DetectPitch analyzes a single window
func (pd *PitchDetector) DetectPitch(frame []float64) PitchDetectionResult {
	maxCorr := 0.0
	bestLag := 0

	maxLag := min(pd.params.MaxLag, len(frame))
	for lag := pd.params.MinLag; lag < maxLag; lag++ {
		corr := floats.Dot(frame[:len(frame)-lag], frame[lag:])
		if corr > maxCorr {
			maxCorr = corr
			bestLag = lag
		}
	}

	if bestLag == 0 {
		return PitchDetectionResult{}
	}

	return PitchDetectionResult{
		Pitch:       float64(pd.params.SampleRate) / float64(bestLag),
		Lag:         bestLag,
		Correlation: maxCorr,
		Voiced:      true,
	}
}

// Track returns one pitch value per hop for every full window of signal.
// Signals shorter than one window yield an empty track.
func (pd *PitchDetector) Track(signal []float64) []float64 {
	track := make([]float64, 0, pd.framer.Count(len(signal)))

	for _, frame := range pd.framer.All(signal) {
		track = append(track, pd.DetectPitch(frame).Pitch)
	}

	return track
}

// GetParameters returns the resolved parameters
func (pd *PitchDetector) GetParameters() PitchDetectionParams {
	return pd.params
}

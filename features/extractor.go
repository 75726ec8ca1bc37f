package features

import (
	"fmt"

	"github.com/RyanBlaney/sonido-tajweed/algorithms/common"
	"github.com/RyanBlaney/sonido-tajweed/algorithms/filters"
	"github.com/RyanBlaney/sonido-tajweed/algorithms/spectral"
	"github.com/RyanBlaney/sonido-tajweed/algorithms/temporal"
	"github.com/RyanBlaney/sonido-tajweed/algorithms/tonal"
	"github.com/RyanBlaney/sonido-tajweed/audio"
	"github.com/RyanBlaney/sonido-tajweed/config"
	"github.com/RyanBlaney/sonido-tajweed/logging"
)

// Extractor turns sample buffers into feature records.
// It holds no per-call state and is safe for concurrent use.
type Extractor struct {
	analysis   config.AnalysisConfig
	preprocess config.PreprocessConfig
	transform  spectral.Transform
	estimator  SpectralFeatureEstimator
	logger     logging.Logger
}

// NewExtractor creates an extractor using the estimator named in cfg
func NewExtractor(cfg *config.Config) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	transform, err := spectral.NewTransform(cfg.Analysis.Transform)
	if err != nil {
		return nil, err
	}

	estimator, err := NewEstimator(cfg.Analysis, transform)
	if err != nil {
		return nil, err
	}

	return &Extractor{
		analysis:   cfg.Analysis,
		preprocess: cfg.Preprocess,
		transform:  transform,
		estimator:  estimator,
		logger: logging.WithFields(logging.Fields{
			"component": "feature_extractor",
		}),
	}, nil
}

// WithEstimator returns a copy of the extractor using estimator
func (e *Extractor) WithEstimator(estimator SpectralFeatureEstimator) *Extractor {
	clone := *e
	clone.estimator = estimator
	return &clone
}

// WithLogger returns a copy of the extractor logging to logger
func (e *Extractor) WithLogger(logger logging.Logger) *Extractor {
	clone := *e
	clone.logger = logger.WithFields(logging.Fields{"component": "feature_extractor"})
	return &clone
}

// Estimator returns the spectral feature estimator in use
func (e *Extractor) Estimator() SpectralFeatureEstimator {
	return e.estimator
}

// Extract runs every extractor over buf and assembles a Record.
// Windowed sequences come from a single streaming pass with one transform
// per hop shared by centroid and rolloff.
func (e *Extractor) Extract(buf *audio.Buffer) (*Record, error) {
	logger := e.logger.WithFields(logging.Fields{
		"function": "Extract",
	})

	samples, err := e.prepare(buf)
	if err != nil {
		return nil, err
	}

	stream, err := e.NewStream(buf.SampleRate)
	if err != nil {
		return nil, err
	}
	stream.Write(samples)
	windowed := stream.Windowed()

	formants, err := e.estimator.Formants(samples, buf.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("formant estimation failed: %w", err)
	}

	cepstral, err := e.estimator.Cepstral(samples, buf.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("cepstral estimation failed: %w", err)
	}

	record := &Record{
		CepstralCoefficients: cepstral,
		Formants:             formants,
		Energy:               windowed.Energy,
		Pitch:                windowed.Pitch,
		SpectralCentroid:     windowed.SpectralCentroid,
		SpectralRolloff:      windowed.SpectralRolloff,
		Duration:             buf.DurationSeconds(),
		SampleRate:           buf.SampleRate,
		Channels:             buf.Channels,
	}

	logger.Debug("Extracted features", logging.Fields{
		"samples":       len(samples),
		"sample_rate":   buf.SampleRate,
		"frames":        record.Frames(),
		"energy_frames": len(record.Energy),
		"estimator":     e.estimator.Name(),
	})

	return record, nil
}

// Energy returns mean-square energy per non-overlapping window
func (e *Extractor) Energy(buf *audio.Buffer) ([]float64, error) {
	samples, err := e.prepare(buf)
	if err != nil {
		return nil, err
	}
	return temporal.NewEnergy(e.analysis.EnergyWindowSize).ComputeMeanSquare(samples), nil
}

// Pitch returns the autocorrelation pitch per hop
func (e *Extractor) Pitch(buf *audio.Buffer) ([]float64, error) {
	samples, err := e.prepare(buf)
	if err != nil {
		return nil, err
	}

	detector, err := e.pitchDetector(buf.SampleRate)
	if err != nil {
		return nil, err
	}
	return detector.Track(samples), nil
}

// SpectralCentroid returns the magnitude-weighted mean frequency per hop
func (e *Extractor) SpectralCentroid(buf *audio.Buffer) ([]float64, error) {
	centroid := spectral.NewSpectralCentroid(buf.SampleRate, e.analysis.WindowSize)
	return e.spectralTrack(buf, centroid.Compute)
}

// SpectralRolloff returns the rolloff frequency per hop
func (e *Extractor) SpectralRolloff(buf *audio.Buffer) ([]float64, error) {
	rolloff := spectral.NewSpectralRolloff(buf.SampleRate, e.analysis.WindowSize)
	return e.spectralTrack(buf, func(mags []float64) float64 {
		return rolloff.Compute(mags, e.analysis.RolloffThreshold)
	})
}

func (e *Extractor) spectralTrack(buf *audio.Buffer, measure func(mags []float64) float64) ([]float64, error) {
	samples, err := e.prepare(buf)
	if err != nil {
		return nil, err
	}

	framer, err := common.NewFramer(e.analysis.WindowSize, e.analysis.HopSize)
	if err != nil {
		return nil, err
	}

	track := make([]float64, 0, framer.Count(len(samples)))
	for _, frame := range framer.All(samples) {
		track = append(track, measure(spectral.Magnitudes(e.transform.Compute(frame))))
	}

	return track, nil
}

// prepare validates buf and applies the optional preprocessing chain
func (e *Extractor) prepare(buf *audio.Buffer) ([]float64, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if !e.preprocess.Enabled {
		return buf.Samples, nil
	}

	pre, err := filters.NewPreprocessor(buf.SampleRate, filters.PreprocessParams{
		RemoveDC:   e.preprocess.RemoveDC,
		DCCutoffHz: e.preprocess.DCCutoffHz,
		HighPassHz: e.preprocess.HighPassHz,
		LowPassHz:  e.preprocess.LowPassHz,
		NoiseGate:  e.preprocess.NoiseGate,
		Normalize:  e.preprocess.Normalize,
	})
	if err != nil {
		return nil, audio.NewInputError("sample_rate", err.Error())
	}

	return pre.Process(buf.Samples)
}

func (e *Extractor) pitchDetector(sampleRate int) (*tonal.PitchDetector, error) {
	detector, err := tonal.NewPitchDetectorWithParams(tonal.PitchDetectionParams{
		SampleRate: sampleRate,
		WindowSize: e.analysis.WindowSize,
		HopSize:    e.analysis.HopSize,
		MinLag:     e.analysis.PitchMinLag,
		MaxLag:     e.analysis.EffectivePitchMaxLag(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pitch detector: %w", err)
	}
	return detector, nil
}

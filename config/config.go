package config

import (
	"fmt"

	"github.com/RyanBlaney/sonido-tajweed/algorithms/stats"
	"github.com/RyanBlaney/sonido-tajweed/algorithms/windowing"
)

// Transform names accepted by AnalysisConfig.Transform
const (
	TransformFFT   = "fft"
	TransformDFT   = "dft"
	TransformGonum = "gonum"
)

// Estimator names accepted by AnalysisConfig.Estimator
const (
	EstimatorLPCMFCC = "lpc-mfcc"
	EstimatorNull    = "null"
)

// Config is the complete engine configuration
type Config struct {
	Analysis   AnalysisConfig   `json:"analysis" yaml:"analysis" mapstructure:"analysis"`
	Rules      RuleConfig       `json:"rules" yaml:"rules" mapstructure:"rules"`
	Comparison ComparisonConfig `json:"comparison" yaml:"comparison" mapstructure:"comparison"`
	Preprocess PreprocessConfig `json:"preprocess" yaml:"preprocess" mapstructure:"preprocess"`
	Engine     EngineConfig     `json:"engine" yaml:"engine" mapstructure:"engine"`
}

// AnalysisConfig controls framing and feature extraction
type AnalysisConfig struct {
	WindowSize       int     `json:"window_size" yaml:"window_size" mapstructure:"window_size"`                      // samples per analysis window (default: 1024)
	HopSize          int     `json:"hop_size" yaml:"hop_size" mapstructure:"hop_size"`                               // samples between windows (default: 512)
	EnergyWindowSize int     `json:"energy_window_size" yaml:"energy_window_size" mapstructure:"energy_window_size"` // non-overlapping energy window (default: 1024)
	PitchMinLag      int     `json:"pitch_min_lag" yaml:"pitch_min_lag" mapstructure:"pitch_min_lag"`                // first autocorrelation lag (default: 20)
	PitchMaxLag      int     `json:"pitch_max_lag" yaml:"pitch_max_lag" mapstructure:"pitch_max_lag"`                // exclusive; 0 means WindowSize/2
	RolloffThreshold float64 `json:"rolloff_threshold" yaml:"rolloff_threshold" mapstructure:"rolloff_threshold"`    // energy fraction (default: 0.85)

	CepstralCoefficients int    `json:"cepstral_coefficients" yaml:"cepstral_coefficients" mapstructure:"cepstral_coefficients"` // default: 13
	NumFormants          int    `json:"num_formants" yaml:"num_formants" mapstructure:"num_formants"`                            // default: 4
	MelFilters           int    `json:"mel_filters" yaml:"mel_filters" mapstructure:"mel_filters"`                               // default: 26
	LPCOrder             int    `json:"lpc_order" yaml:"lpc_order" mapstructure:"lpc_order"`                                     // 0 means 2 + sampleRate/1000
	Transform            string `json:"transform" yaml:"transform" mapstructure:"transform"`                                     // "fft", "dft", "gonum"
	Estimator            string `json:"estimator" yaml:"estimator" mapstructure:"estimator"`                                     // "lpc-mfcc", "null"
	Window               string `json:"window" yaml:"window" mapstructure:"window"`                                              // "hamming", "hann", "rectangular"
}

// RuleConfig holds the tajweed rule thresholds
type RuleConfig struct {
	MaddMinPitch           float64 `json:"madd_min_pitch" yaml:"madd_min_pitch" mapstructure:"madd_min_pitch"`
	MaddMinEnergy          float64 `json:"madd_min_energy" yaml:"madd_min_energy" mapstructure:"madd_min_energy"`
	GhunnaMinPitch         float64 `json:"ghunna_min_pitch" yaml:"ghunna_min_pitch" mapstructure:"ghunna_min_pitch"`
	GhunnaMinEnergy        float64 `json:"ghunna_min_energy" yaml:"ghunna_min_energy" mapstructure:"ghunna_min_energy"`
	QalqalahMinEnergyRange float64 `json:"qalqalah_min_energy_range" yaml:"qalqalah_min_energy_range" mapstructure:"qalqalah_min_energy_range"`
	MakharijMaxFormantDiff float64 `json:"makharij_max_formant_diff" yaml:"makharij_max_formant_diff" mapstructure:"makharij_max_formant_diff"` // Hz
	Confidence             float64 `json:"confidence" yaml:"confidence" mapstructure:"confidence"`
}

// ComparisonConfig controls DTW comparison
type ComparisonConfig struct {
	Normalize   bool   `json:"normalize" yaml:"normalize" mapstructure:"normalize"`          // z-normalize sequences before DTW
	IncludePath bool   `json:"include_path" yaml:"include_path" mapstructure:"include_path"` // backtrack the alignment path
	Band        int    `json:"band" yaml:"band" mapstructure:"band"`                         // Sakoe-Chiba radius in frames, 0 disables
	Metric      string `json:"metric" yaml:"metric" mapstructure:"metric"`                   // vector distance for equal-length tracks
}

// PreprocessConfig controls optional signal conditioning before extraction
type PreprocessConfig struct {
	Enabled    bool    `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Normalize  bool    `json:"normalize" yaml:"normalize" mapstructure:"normalize"`          // peak normalize to 1.0
	RemoveDC   bool    `json:"remove_dc" yaml:"remove_dc" mapstructure:"remove_dc"`          // one-pole DC blocking filter
	HighPassHz float64 `json:"high_pass_hz" yaml:"high_pass_hz" mapstructure:"high_pass_hz"` // 0 disables
	LowPassHz  float64 `json:"low_pass_hz" yaml:"low_pass_hz" mapstructure:"low_pass_hz"`    // 0 disables
	NoiseGate  float64 `json:"noise_gate" yaml:"noise_gate" mapstructure:"noise_gate"`       // absolute amplitude floor, 0 disables
	DCCutoffHz float64 `json:"dc_cutoff_hz" yaml:"dc_cutoff_hz" mapstructure:"dc_cutoff_hz"` // DC blocker corner, 0 keeps the fixed 0.995 pole
}

// EngineConfig controls the facade
type EngineConfig struct {
	MaxConcurrency int `json:"max_concurrency" yaml:"max_concurrency" mapstructure:"max_concurrency"` // 0 means GOMAXPROCS
}

// Default returns the reference tuning
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			WindowSize:           1024,
			HopSize:              512,
			EnergyWindowSize:     1024,
			PitchMinLag:          20,
			PitchMaxLag:          0,
			RolloffThreshold:     0.85,
			CepstralCoefficients: 13,
			NumFormants:          4,
			MelFilters:           26,
			LPCOrder:             0,
			Transform:            TransformFFT,
			Estimator:            EstimatorLPCMFCC,
			Window:               "hamming",
		},
		Rules: RuleConfig{
			MaddMinPitch:           100.0,
			MaddMinEnergy:          0.1,
			GhunnaMinPitch:         80.0,
			GhunnaMinEnergy:        0.05,
			QalqalahMinEnergyRange: 0.1,
			MakharijMaxFormantDiff: 200.0,
			Confidence:             0.8,
		},
		Comparison: ComparisonConfig{
			Normalize:   false,
			IncludePath: true,
			Band:        0,
			Metric:      "euclidean",
		},
		Preprocess: PreprocessConfig{
			Enabled:    false,
			Normalize:  true,
			RemoveDC:   true,
			HighPassHz: 60,
			LowPassHz:  0,
			NoiseGate:  0,
			DCCutoffHz: 0,
		},
		Engine: EngineConfig{
			MaxConcurrency: 0,
		},
	}
}

// EffectivePitchMaxLag resolves the exclusive upper autocorrelation lag
func (a AnalysisConfig) EffectivePitchMaxLag() int {
	if a.PitchMaxLag > 0 {
		return a.PitchMaxLag
	}
	return a.WindowSize / 2
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	a := c.Analysis
	if a.WindowSize <= 0 {
		return fmt.Errorf("analysis.window_size must be positive, got %d", a.WindowSize)
	}
	if a.HopSize <= 0 {
		return fmt.Errorf("analysis.hop_size must be positive, got %d", a.HopSize)
	}
	if a.EnergyWindowSize <= 0 {
		return fmt.Errorf("analysis.energy_window_size must be positive, got %d", a.EnergyWindowSize)
	}
	if a.PitchMinLag <= 0 {
		return fmt.Errorf("analysis.pitch_min_lag must be positive, got %d", a.PitchMinLag)
	}
	if maxLag := a.EffectivePitchMaxLag(); maxLag > a.WindowSize || maxLag <= a.PitchMinLag {
		return fmt.Errorf("analysis pitch lag range [%d, %d) is invalid for window size %d", a.PitchMinLag, maxLag, a.WindowSize)
	}
	if a.RolloffThreshold <= 0 || a.RolloffThreshold > 1 {
		return fmt.Errorf("analysis.rolloff_threshold must be in (0, 1], got %g", a.RolloffThreshold)
	}
	if a.CepstralCoefficients <= 0 {
		return fmt.Errorf("analysis.cepstral_coefficients must be positive, got %d", a.CepstralCoefficients)
	}
	if a.NumFormants <= 0 {
		return fmt.Errorf("analysis.num_formants must be positive, got %d", a.NumFormants)
	}
	if a.MelFilters < a.CepstralCoefficients {
		return fmt.Errorf("analysis.mel_filters (%d) must be at least cepstral_coefficients (%d)", a.MelFilters, a.CepstralCoefficients)
	}
	if a.LPCOrder < 0 {
		return fmt.Errorf("analysis.lpc_order cannot be negative")
	}

	switch a.Transform {
	case TransformFFT, TransformDFT, TransformGonum:
	default:
		return fmt.Errorf("unknown analysis.transform: %q", a.Transform)
	}

	switch a.Estimator {
	case EstimatorLPCMFCC, EstimatorNull:
	default:
		return fmt.Errorf("unknown analysis.estimator: %q", a.Estimator)
	}

	if _, err := windowing.NewWindow(a.Window, a.WindowSize); err != nil {
		return fmt.Errorf("invalid analysis.window: %w", err)
	}

	if c.Comparison.Band < 0 {
		return fmt.Errorf("comparison.band cannot be negative")
	}
	if _, err := stats.ParseDistanceMetric(c.Comparison.Metric); err != nil {
		return fmt.Errorf("invalid comparison.metric: %w", err)
	}

	r := c.Rules
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("rules.confidence must be between 0 and 1, got %g", r.Confidence)
	}
	if r.MakharijMaxFormantDiff <= 0 {
		return fmt.Errorf("rules.makharij_max_formant_diff must be positive")
	}

	p := c.Preprocess
	if p.HighPassHz < 0 || p.LowPassHz < 0 || p.NoiseGate < 0 || p.DCCutoffHz < 0 {
		return fmt.Errorf("preprocess cutoffs and noise gate cannot be negative")
	}
	if p.HighPassHz > 0 && p.LowPassHz > 0 && p.HighPassHz >= p.LowPassHz {
		return fmt.Errorf("preprocess.high_pass_hz (%g) must be below low_pass_hz (%g)", p.HighPassHz, p.LowPassHz)
	}

	if c.Engine.MaxConcurrency < 0 {
		return fmt.Errorf("engine.max_concurrency cannot be negative")
	}

	return nil
}

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. TAJWEED_ANALYSIS_WINDOW_SIZE
const EnvPrefix = "TAJWEED"

// NewViper returns a viper instance with defaults and environment bindings registered
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads an optional YAML config file on top of the defaults.
// An empty path loads defaults plus environment overrides only.
func Load(path string) (*Config, error) {
	v := NewViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	return FromViper(v)
}

// FromViper decodes and validates a configuration held by v
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// SetDefaults registers every default value so env overrides and partial files resolve
func SetDefaults(v *viper.Viper) {
	d := Default()

	// Analysis defaults
	v.SetDefault("analysis.window_size", d.Analysis.WindowSize)
	v.SetDefault("analysis.hop_size", d.Analysis.HopSize)
	v.SetDefault("analysis.energy_window_size", d.Analysis.EnergyWindowSize)
	v.SetDefault("analysis.pitch_min_lag", d.Analysis.PitchMinLag)
	v.SetDefault("analysis.pitch_max_lag", d.Analysis.PitchMaxLag)
	v.SetDefault("analysis.rolloff_threshold", d.Analysis.RolloffThreshold)
	v.SetDefault("analysis.cepstral_coefficients", d.Analysis.CepstralCoefficients)
	v.SetDefault("analysis.num_formants", d.Analysis.NumFormants)
	v.SetDefault("analysis.mel_filters", d.Analysis.MelFilters)
	v.SetDefault("analysis.lpc_order", d.Analysis.LPCOrder)
	v.SetDefault("analysis.transform", d.Analysis.Transform)
	v.SetDefault("analysis.estimator", d.Analysis.Estimator)
	v.SetDefault("analysis.window", d.Analysis.Window)

	// Rule thresholds
	v.SetDefault("rules.madd_min_pitch", d.Rules.MaddMinPitch)
	v.SetDefault("rules.madd_min_energy", d.Rules.MaddMinEnergy)
	v.SetDefault("rules.ghunna_min_pitch", d.Rules.GhunnaMinPitch)
	v.SetDefault("rules.ghunna_min_energy", d.Rules.GhunnaMinEnergy)
	v.SetDefault("rules.qalqalah_min_energy_range", d.Rules.QalqalahMinEnergyRange)
	v.SetDefault("rules.makharij_max_formant_diff", d.Rules.MakharijMaxFormantDiff)
	v.SetDefault("rules.confidence", d.Rules.Confidence)

	// Comparison
	v.SetDefault("comparison.normalize", d.Comparison.Normalize)
	v.SetDefault("comparison.include_path", d.Comparison.IncludePath)
	v.SetDefault("comparison.band", d.Comparison.Band)
	v.SetDefault("comparison.metric", d.Comparison.Metric)

	// Preprocessing
	v.SetDefault("preprocess.enabled", d.Preprocess.Enabled)
	v.SetDefault("preprocess.normalize", d.Preprocess.Normalize)
	v.SetDefault("preprocess.remove_dc", d.Preprocess.RemoveDC)
	v.SetDefault("preprocess.high_pass_hz", d.Preprocess.HighPassHz)
	v.SetDefault("preprocess.low_pass_hz", d.Preprocess.LowPassHz)
	v.SetDefault("preprocess.noise_gate", d.Preprocess.NoiseGate)
	v.SetDefault("preprocess.dc_cutoff_hz", d.Preprocess.DCCutoffHz)

	// Engine
	v.SetDefault("engine.max_concurrency", d.Engine.MaxConcurrency)
}

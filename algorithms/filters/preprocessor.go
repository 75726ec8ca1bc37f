package filters

import (
	"fmt"
)

// PreprocessParams selects the conditioning stages applied before analysis.
// Stages run in a fixed order: DC removal, high-pass, low-pass, noise gate,
// peak normalization. A zero cutoff or threshold disables that stage.
type PreprocessParams struct {
	RemoveDC   bool    `json:"remove_dc"`
	DCCutoffHz float64 `json:"dc_cutoff_hz"` // 0 keeps the fixed 0.995 pole
	HighPassHz float64 `json:"high_pass_hz"`
	LowPassHz  float64 `json:"low_pass_hz"`
	NoiseGate  float64 `json:"noise_gate"`
	Normalize  bool    `json:"normalize"`
}

// Preprocessor applies PreprocessParams to whole buffers.
// Filter state is rebuilt per call so one Preprocessor may be shared.
type Preprocessor struct {
	params     PreprocessParams
	sampleRate int
}

// NewPreprocessor validates the params against the sample rate
func NewPreprocessor(sampleRate int, params PreprocessParams) (*Preprocessor, error) {
	p := &Preprocessor{params: params, sampleRate: sampleRate}

	// build once so bad cutoffs fail here rather than mid-pipeline
	if _, err := p.stages(); err != nil {
		return nil, err
	}
	if params.NoiseGate < 0 || params.DCCutoffHz < 0 {
		return nil, fmt.Errorf("noise gate and DC cutoff must be non-negative, got %f and %f", params.NoiseGate, params.DCCutoffHz)
	}

	return p, nil
}

type stage interface {
	ProcessBuffer(input []float64) []float64
}

func (p *Preprocessor) stages() ([]stage, error) {
	var stages []stage

	if p.params.RemoveDC {
		stages = append(stages, NewDCRemovalWithCutoff(p.sampleRate, p.params.DCCutoffHz))
	}
	if p.params.HighPassHz > 0 {
		hp, err := NewHighPass(p.sampleRate, p.params.HighPassHz)
		if err != nil {
			return nil, fmt.Errorf("failed to create high-pass filter: %w", err)
		}
		stages = append(stages, hp)
	}
	if p.params.LowPassHz > 0 {
		lp, err := NewLowPass(p.sampleRate, p.params.LowPassHz)
		if err != nil {
			return nil, fmt.Errorf("failed to create low-pass filter: %w", err)
		}
		stages = append(stages, lp)
	}

	return stages, nil
}

// Process returns a conditioned copy of signal
func (p *Preprocessor) Process(signal []float64) ([]float64, error) {
	stages, err := p.stages()
	if err != nil {
		return nil, err
	}

	output := make([]float64, len(signal))
	copy(output, signal)

	for _, s := range stages {
		output = s.ProcessBuffer(output)
	}
	if p.params.NoiseGate > 0 {
		output = NoiseGate(output, p.params.NoiseGate)
	}
	if p.params.Normalize {
		output = PeakNormalize(output, 1.0)
	}

	return output, nil
}

// GetParameters returns the configured stages
func (p *Preprocessor) GetParameters() PreprocessParams {
	return p.params
}

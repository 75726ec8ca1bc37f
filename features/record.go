package features

// Record aggregates everything extracted from one sample buffer.
//
// Pitch, SpectralCentroid and SpectralRolloff share the window/hop grid and
// always have equal length. Energy uses its own non-overlapping grid.
type Record struct {
	CepstralCoefficients []float64 `json:"cepstral_coefficients" yaml:"cepstral_coefficients"`
	Formants             []float64 `json:"formants" yaml:"formants"`
	Energy               []float64 `json:"energy" yaml:"energy"`
	Pitch                []float64 `json:"pitch" yaml:"pitch"`
	SpectralCentroid     []float64 `json:"spectral_centroid" yaml:"spectral_centroid"`
	SpectralRolloff      []float64 `json:"spectral_rolloff" yaml:"spectral_rolloff"`

	Duration   float64 `json:"duration" yaml:"duration"` // seconds
	SampleRate int     `json:"sample_rate" yaml:"sample_rate"`
	Channels   int     `json:"channels" yaml:"channels"`
}

// Frames returns the number of hop windows in the record
func (r *Record) Frames() int {
	return len(r.Pitch)
}

// Windowed holds the hop-grid sequences and energy from one pass
type Windowed struct {
	Energy           []float64 `json:"energy" yaml:"energy"`
	Pitch            []float64 `json:"pitch" yaml:"pitch"`
	SpectralCentroid []float64 `json:"spectral_centroid" yaml:"spectral_centroid"`
	SpectralRolloff  []float64 `json:"spectral_rolloff" yaml:"spectral_rolloff"`
}

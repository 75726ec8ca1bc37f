package spectral

// SpectralRolloff computes spectral rolloff frequency
type SpectralRolloff struct {
	sampleRate int
	windowSize int
	freqBins   []float64 // Pre-calculated bin frequencies for [0, windowSize/2)
}

// NewSpectralRolloff creates a new spectral rolloff calculator for spectra
// produced from windows of windowSize samples
func NewSpectralRolloff(sampleRate, windowSize int) *SpectralRolloff {
	return &SpectralRolloff{
		sampleRate: sampleRate,
		windowSize: windowSize,
		freqBins:   FrequencyBins(windowSize, sampleRate),
	}
}

// Compute returns the frequency of the smallest bin j at which the cumulative
// squared magnitude over [0, j] reaches threshold (typically 0.85) of the
// total over [0, N/2). A spectrum with no energy returns 0.
func (sr *SpectralRolloff) Compute(magnitudes []float64, threshold float64) float64 {
	numBins := min(len(magnitudes), len(sr.freqBins))
	if numBins == 0 {
		return 0.0
	}

	totalEnergy := 0.0
	for _, mag := range magnitudes[:numBins] {
		totalEnergy += mag * mag
	}

	if totalEnergy == 0 {
		return 0
	}

	targetEnergy := threshold * totalEnergy
	cumulativeEnergy := 0.0

	for i := range numBins {
		cumulativeEnergy += magnitudes[i] * magnitudes[i]
		if cumulativeEnergy >= targetEnergy {
			return sr.freqBins[i]
		}
	}

	// Rounding kept the running sum below target; the last bin closes it
	return sr.freqBins[numBins-1]
}

// ComputeFrames processes multiple frames
func (sr *SpectralRolloff) ComputeFrames(spectrogram [][]float64, threshold float64) []float64 {
	rolloffs := make([]float64, len(spectrogram))
	for t, spectrum := range spectrogram {
		rolloffs[t] = sr.Compute(spectrum, threshold)
	}
	return rolloffs
}

package spectral

// SpectralCentroid computes the spectral centroid (center of mass) of a spectrum
type SpectralCentroid struct {
	sampleRate int
	windowSize int
	freqBins   []float64 // Pre-calculated bin frequencies for [0, windowSize/2)
}

// NewSpectralCentroid creates a new spectral centroid calculator for spectra
// produced from windows of windowSize samples
func NewSpectralCentroid(sampleRate, windowSize int) *SpectralCentroid {
	return &SpectralCentroid{
		sampleRate: sampleRate,
		windowSize: windowSize,
		freqBins:   FrequencyBins(windowSize, sampleRate),
	}
}

// Compute calculates Σ(freq·mag)/Σ(mag) over the magnitude bins [0, N/2).
// An all-zero spectrum has centroid 0.
func (sc *SpectralCentroid) Compute(magnitudes []float64) float64 {
	numBins := min(len(magnitudes), len(sc.freqBins))
	if numBins == 0 {
		return 0.0
	}

	numerator := 0.0
	denominator := 0.0

	for i := range numBins {
		numerator += sc.freqBins[i] * magnitudes[i]
		denominator += magnitudes[i]
	}

	if denominator == 0 {
		return 0
	}

	return numerator / denominator
}

// ComputeFrames processes multiple frames
func (sc *SpectralCentroid) ComputeFrames(spectrogram [][]float64) []float64 {
	centroids := make([]float64, len(spectrogram))
	for t, spectrum := range spectrogram {
		centroids[t] = sc.Compute(spectrum)
	}
	return centroids
}

// GetFrequencyBins returns a copy of the bin frequencies used for calculation
func (sc *SpectralCentroid) GetFrequencyBins() []float64 {
	bins := make([]float64, len(sc.freqBins))
	copy(bins, sc.freqBins)
	return bins
}

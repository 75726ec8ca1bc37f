package spectral

import (
	"fmt"
	"math"
)

// logFloor keeps log(0) out of silent mel bands
const logFloor = 1e-10

// MFCC computes Mel-Frequency Cepstral Coefficients.
// Filter bank and DCT matrix are built once, so Compute is safe for concurrent use.
type MFCC struct {
	numCoefficients int
	numMelFilters   int
	sampleRate      int
	fftSize         int
	lowFreq         float64
	highFreq        float64
	useLiftering    bool
	lifterCoeff     float64

	melScale   *MelScale
	filterBank [][]float64
	dctMatrix  [][]float64
}

// MFCCParams contains parameters for MFCC computation
type MFCCParams struct {
	NumCoefficients int     `json:"num_coefficients"` // Number of MFCC coefficients (default: 13)
	NumMelFilters   int     `json:"num_mel_filters"`  // Number of mel filter bank filters (default: 26)
	LowFreq         float64 `json:"low_freq"`         // Low frequency bound (default: 0)
	HighFreq        float64 `json:"high_freq"`        // High frequency bound (default: sampleRate/2)
	UseLiftering    bool    `json:"use_liftering"`    // Apply liftering
	LifterCoeff     float64 `json:"lifter_coeff"`     // Liftering coefficient (default: 22)
}

// DefaultMFCCParams returns the usual 13 coefficient / 26 filter setup
func DefaultMFCCParams(sampleRate int) MFCCParams {
	return MFCCParams{
		NumCoefficients: 13,
		NumMelFilters:   26,
		LowFreq:         0.0,
		HighFreq:        float64(sampleRate) / 2.0,
		UseLiftering:    true,
		LifterCoeff:     22.0,
	}
}

// NewMFCC creates an MFCC computer for spectra of fftSize-sample windows
func NewMFCC(sampleRate, fftSize int, params MFCCParams) (*MFCC, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}
	if fftSize <= 0 {
		return nil, fmt.Errorf("invalid FFT size: %d", fftSize)
	}

	// Set defaults
	if params.NumCoefficients <= 0 {
		params.NumCoefficients = 13
	}
	if params.NumMelFilters <= 0 {
		params.NumMelFilters = 26
	}
	if params.HighFreq <= 0 || params.HighFreq > float64(sampleRate)/2.0 {
		params.HighFreq = float64(sampleRate) / 2.0
	}
	if params.LifterCoeff <= 0 {
		params.LifterCoeff = 22.0
	}
	if params.NumCoefficients > params.NumMelFilters {
		return nil, fmt.Errorf("cannot derive %d coefficients from %d mel filters",
			params.NumCoefficients, params.NumMelFilters)
	}

	mfcc := &MFCC{
		numCoefficients: params.NumCoefficients,
		numMelFilters:   params.NumMelFilters,
		sampleRate:      sampleRate,
		fftSize:         fftSize,
		lowFreq:         params.LowFreq,
		highFreq:        params.HighFreq,
		useLiftering:    params.UseLiftering,
		lifterCoeff:     params.LifterCoeff,
		melScale:        NewMelScale(),
	}

	mfcc.filterBank = mfcc.melScale.CreateMelFilterBank(
		mfcc.numMelFilters,
		fftSize,
		sampleRate,
		mfcc.lowFreq,
		mfcc.highFreq,
	)
	if len(mfcc.filterBank) == 0 {
		return nil, fmt.Errorf("failed to create mel filter bank")
	}

	mfcc.createDCTMatrix()

	return mfcc, nil
}

// Compute calculates MFCC coefficients from a magnitude spectrum
func (mfcc *MFCC) Compute(magnitudeSpectrum []float64) ([]float64, error) {
	if len(magnitudeSpectrum) == 0 {
		return nil, fmt.Errorf("empty magnitude spectrum")
	}

	// Convert to power spectrum
	powerSpectrum := make([]float64, len(magnitudeSpectrum))
	for i, mag := range magnitudeSpectrum {
		powerSpectrum[i] = mag * mag
	}

	melSpectrum := mfcc.melScale.ApplyFilterBank(powerSpectrum, mfcc.filterBank)

	logMelSpectrum := make([]float64, len(melSpectrum))
	for i, mel := range melSpectrum {
		logMelSpectrum[i] = math.Log(math.Max(mel, logFloor))
	}

	coeffs := mfcc.applyDCT(logMelSpectrum)

	if mfcc.useLiftering {
		coeffs = mfcc.applyLiftering(coeffs)
	}

	return coeffs, nil
}

// NumCoefficients returns the number of coefficients per frame
func (mfcc *MFCC) NumCoefficients() int {
	return mfcc.numCoefficients
}

// createDCTMatrix creates the orthonormal DCT-II matrix
func (mfcc *MFCC) createDCTMatrix() {
	mfcc.dctMatrix = make([][]float64, mfcc.numCoefficients)

	for k := range mfcc.numCoefficients {
		mfcc.dctMatrix[k] = make([]float64, mfcc.numMelFilters)

		scale := math.Sqrt(2.0 / float64(mfcc.numMelFilters))
		if k == 0 {
			scale = math.Sqrt(1.0 / float64(mfcc.numMelFilters))
		}

		for n := range mfcc.numMelFilters {
			mfcc.dctMatrix[k][n] = scale * math.Cos(math.Pi*float64(k)*(float64(n)+0.5)/float64(mfcc.numMelFilters))
		}
	}
}

// applyDCT applies the Discrete Cosine Transform
func (mfcc *MFCC) applyDCT(logMelSpectrum []float64) []float64 {
	coeffs := make([]float64, mfcc.numCoefficients)

	for k := range mfcc.numCoefficients {
		sum := 0.0
		for n := 0; n < len(logMelSpectrum) && n < len(mfcc.dctMatrix[k]); n++ {
			sum += logMelSpectrum[n] * mfcc.dctMatrix[k][n]
		}
		coeffs[k] = sum
	}

	return coeffs
}

// applyLiftering applies sinusoidal liftering; C0 is left untouched
func (mfcc *MFCC) applyLiftering(coeffs []float64) []float64 {
	liftered := make([]float64, len(coeffs))

	for i, coeff := range coeffs {
		if i == 0 {
			liftered[i] = coeff
			continue
		}
		lifter := 1.0 + (mfcc.lifterCoeff/2.0)*math.Sin(math.Pi*float64(i)/mfcc.lifterCoeff)
		liftered[i] = coeff * lifter
	}

	return liftered
}

// GetFilterBank returns the mel filter bank
func (mfcc *MFCC) GetFilterBank() [][]float64 {
	return mfcc.filterBank
}

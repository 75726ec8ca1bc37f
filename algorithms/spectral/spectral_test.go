package spectral

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(freq float64, sampleRate, n int, amplitude float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

func TestTransformsAgreeWithDFT(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, n := range []int{1, 2, 8, 12, 64, 100, 1024} {
		window := make([]float64, n)
		for i := range window {
			window[i] = rng.Float64()*2 - 1
		}

		want := NewDFT().Compute(window)
		require.Len(t, want, 2*n)

		for _, tr := range []Transform{NewFFT(), NewGonumFFT()} {
			got := tr.Compute(window)
			require.Len(t, got, 2*n, "%s n=%d", tr.Name(), n)
			for i := range want {
				assert.InDelta(t, want[i], got[i], 1e-8, "%s n=%d index=%d", tr.Name(), n, i)
			}
		}
	}
}

func TestDFTKnownValues(t *testing.T) {
	// x = [1, 0, -1, 0] -> X = [0, 2, 0, 2]
	out := NewDFT().Compute([]float64{1, 0, -1, 0})
	expected := []float64{0, 2, 0, 2, 0, 0, 0, 0}
	for i := range expected {
		assert.InDelta(t, expected[i], out[i], 1e-12)
	}

	assert.Empty(t, NewDFT().Compute(nil))
	assert.Empty(t, NewFFT().Compute(nil))
	assert.Empty(t, NewGonumFFT().Compute(nil))
}

func TestNewTransform(t *testing.T) {
	for _, name := range []string{"fft", "dft", "gonum"} {
		tr, err := NewTransform(name)
		require.NoError(t, err)
		assert.Equal(t, name, tr.Name())
	}

	tr, err := NewTransform("")
	require.NoError(t, err)
	assert.Equal(t, "fft", tr.Name())

	_, err = NewTransform("wavelet")
	assert.Error(t, err)
}

func TestMagnitudesPeakAtToneBin(t *testing.T) {
	const sampleRate, n = 8000, 256
	// bin 16 -> 16*8000/256 = 500 Hz, exactly periodic in the window
	window := sine(500, sampleRate, n, 1.0)
	mags := Magnitudes(NewFFT().Compute(window))

	require.Len(t, mags, n/2)
	peak := 0
	for j := range mags {
		if mags[j] > mags[peak] {
			peak = j
		}
	}
	assert.Equal(t, 16, peak)
	assert.InDelta(t, float64(n)/2, mags[peak], 1e-6)
	assert.InDelta(t, 500.0, BinFrequency(peak, n, sampleRate), 1e-12)
}

func TestFrequencyBins(t *testing.T) {
	bins := FrequencyBins(1024, 44100)
	require.Len(t, bins, 512)
	assert.Equal(t, 0.0, bins[0])
	assert.InDelta(t, 43.06640625, bins[1], 1e-9)
	assert.Nil(t, FrequencyBins(0, 44100))
}

func TestSpectralCentroid(t *testing.T) {
	sc := NewSpectralCentroid(1000, 8) // bins 0, 125, 250, 375 Hz

	assert.Equal(t, 0.0, sc.Compute([]float64{0, 0, 0, 0}))
	assert.Equal(t, 0.0, sc.Compute(nil))
	assert.InDelta(t, 250.0, sc.Compute([]float64{0, 0, 3, 0}), 1e-12)
	assert.InDelta(t, 187.5, sc.Compute([]float64{0, 1, 1, 0}), 1e-12)

	// extra bins beyond N/2 are ignored
	assert.InDelta(t, 125.0, sc.Compute([]float64{0, 1, 0, 0, 99, 99}), 1e-12)

	frames := sc.ComputeFrames([][]float64{{0, 1, 0, 0}, {0, 0, 0, 1}})
	assert.Equal(t, []float64{125, 375}, frames)
	assert.Len(t, sc.GetFrequencyBins(), 4)
}

func TestSpectralRolloff(t *testing.T) {
	sr := NewSpectralRolloff(1000, 8) // bins 0, 125, 250, 375 Hz

	assert.Equal(t, 0.0, sr.Compute([]float64{0, 0, 0, 0}, 0.85))
	assert.Equal(t, 0.0, sr.Compute(nil, 0.85))

	// energies 1, 1, 1, 1 -> cumulative 0.25, 0.5, 0.75, 1.0
	assert.Equal(t, 375.0, sr.Compute([]float64{1, 1, 1, 1}, 0.85))
	assert.Equal(t, 250.0, sr.Compute([]float64{1, 1, 1, 1}, 0.75))

	// all energy in bin 1
	assert.Equal(t, 125.0, sr.Compute([]float64{0, 2, 0, 0}, 0.85))

	frames := sr.ComputeFrames([][]float64{{3, 0, 0, 0}, {0, 0, 1, 0}}, 0.85)
	assert.Equal(t, []float64{0, 250}, frames)
}

func TestMelScaleRoundTrip(t *testing.T) {
	ms := NewMelScale()
	for _, hz := range []float64{0, 100, 440, 1000, 8000} {
		assert.InDelta(t, hz, ms.MelToHz(ms.HzToMel(hz)), 1e-9)
	}
	assert.InDelta(t, 1000.0, ms.HzToMel(1000), 0.5)
}

func TestMelFilterBankShape(t *testing.T) {
	ms := NewMelScale()
	bank := ms.CreateMelFilterBank(26, 1024, 16000, 0, 8000)
	require.Len(t, bank, 26)

	for m, filter := range bank {
		require.Len(t, filter, 513)
		peak := 0.0
		for _, v := range filter {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
			peak = math.Max(peak, v)
		}
		assert.Equal(t, 1.0, peak, "filter %d", m)
	}

	assert.Nil(t, ms.CreateMelFilterBank(0, 1024, 16000, 0, 8000))
	assert.Empty(t, ms.ApplyFilterBank(nil, bank))
}

func TestMFCC(t *testing.T) {
	const sampleRate, n = 16000, 512
	mfcc, err := NewMFCC(sampleRate, n, DefaultMFCCParams(sampleRate))
	require.NoError(t, err)
	assert.Equal(t, 13, mfcc.NumCoefficients())
	assert.Len(t, mfcc.GetFilterBank(), 26)

	mags := Magnitudes(NewFFT().Compute(sine(440, sampleRate, n, 0.5)))
	coeffs, err := mfcc.Compute(mags)
	require.NoError(t, err)
	require.Len(t, coeffs, 13)
	for _, c := range coeffs {
		assert.False(t, math.IsNaN(c) || math.IsInf(c, 0))
	}

	// silence hits the log floor in every band: only C0 survives the DCT
	silent, err := mfcc.Compute(make([]float64, n/2))
	require.NoError(t, err)
	assert.InDelta(t, math.Log(logFloor)*math.Sqrt(26), silent[0], 1e-9)
	for _, c := range silent[1:] {
		assert.InDelta(t, 0.0, c, 1e-9)
	}

	_, err = mfcc.Compute(nil)
	assert.Error(t, err)
}

func TestNewMFCCValidation(t *testing.T) {
	_, err := NewMFCC(0, 512, MFCCParams{})
	assert.Error(t, err)
	_, err = NewMFCC(16000, 0, MFCCParams{})
	assert.Error(t, err)
	_, err = NewMFCC(16000, 512, MFCCParams{NumCoefficients: 40, NumMelFilters: 26})
	assert.Error(t, err)

	mfcc, err := NewMFCC(16000, 512, MFCCParams{})
	require.NoError(t, err)
	assert.Equal(t, 13, mfcc.NumCoefficients())
}

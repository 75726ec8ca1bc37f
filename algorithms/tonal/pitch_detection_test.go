package tonal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func sine(freq float64, sampleRate, n int, amplitude float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

func TestTrackSine440(t *testing.T) {
	pd, err := NewPitchDetector(44100)
	require.NoError(t, err)

	track := pd.Track(sine(440, 44100, 3*44100, 0.5))
	require.Len(t, track, 257)

	assert.InDelta(t, 440.0, stat.Mean(track, nil), 15.0)
	for _, p := range track {
		assert.InDelta(t, 440.0, p, 15.0)
	}
}

func TestDetectPitchExactPeriod(t *testing.T) {
	// 100 Hz at 8 kHz has a period of exactly 80 samples
	pd, err := NewPitchDetectorWithParams(PitchDetectionParams{
		SampleRate: 8000,
		WindowSize: 1024,
		HopSize:    512,
		MinLag:     20,
	})
	require.NoError(t, err)

	result := pd.DetectPitch(sine(100, 8000, 1024, 1.0))
	assert.True(t, result.Voiced)
	assert.Equal(t, 80, result.Lag)
	assert.InDelta(t, 100.0, result.Pitch, 1e-9)
	assert.Greater(t, result.Correlation, 0.0)
}

func TestDetectPitchSilenceIsUnvoiced(t *testing.T) {
	pd, err := NewPitchDetector(44100)
	require.NoError(t, err)

	result := pd.DetectPitch(make([]float64, 1024))
	assert.False(t, result.Voiced)
	assert.Equal(t, 0, result.Lag)
	assert.Equal(t, 0.0, result.Pitch)

	// hops stay on the grid with a 0 Hz value instead of Inf
	track := pd.Track(make([]float64, 2048))
	assert.Equal(t, []float64{0, 0, 0}, track)
}

func TestDetectPitchTieKeepsSmallestLag(t *testing.T) {
	pd, err := NewPitchDetectorWithParams(PitchDetectionParams{
		SampleRate: 1000,
		WindowSize: 8,
		HopSize:    8,
		MinLag:     1,
		MaxLag:     4,
	})
	require.NoError(t, err)

	// constant signal: score(ℓ) = 8-ℓ, strictly decreasing -> lag 1
	result := pd.DetectPitch([]float64{1, 1, 1, 1, 1, 1, 1, 1})
	assert.Equal(t, 1, result.Lag)

	// impulses every 2 samples: lags 2 scores 3, lag 1 and 3 score 0
	result = pd.DetectPitch([]float64{1, 0, 1, 0, 1, 0, 1, 0})
	assert.Equal(t, 2, result.Lag)
	assert.Equal(t, 500.0, result.Pitch)
}

func TestTrackShortSignalIsEmpty(t *testing.T) {
	pd, err := NewPitchDetector(44100)
	require.NoError(t, err)

	assert.Empty(t, pd.Track(make([]float64, 1023)))
	assert.Empty(t, pd.Track(nil))
}

func TestNewPitchDetectorValidation(t *testing.T) {
	_, err := NewPitchDetector(0)
	assert.Error(t, err)

	_, err = NewPitchDetectorWithParams(PitchDetectionParams{SampleRate: 8000, WindowSize: 64, HopSize: 32, MinLag: 40})
	assert.Error(t, err)

	_, err = NewPitchDetectorWithParams(PitchDetectionParams{SampleRate: 8000, WindowSize: 64, HopSize: 0, MinLag: 2})
	assert.Error(t, err)

	pd, err := NewPitchDetectorWithParams(PitchDetectionParams{SampleRate: 8000, WindowSize: 64, HopSize: 32, MinLag: 2})
	require.NoError(t, err)
	assert.Equal(t, 32, pd.GetParameters().MaxLag)
}

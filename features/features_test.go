package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/sonido-tajweed/audio"
	"github.com/RyanBlaney/sonido-tajweed/config"
)

func sine(freq float64, sampleRate, n int, amplitude float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

type ExtractorTestSuite struct {
	suite.Suite
	extractor *Extractor
	tone      *audio.Buffer
}

func (s *ExtractorTestSuite) SetupTest() {
	extractor, err := NewExtractor(config.Default())
	s.Require().NoError(err)
	s.extractor = extractor

	tone, err := audio.NewBuffer(sine(440, 44100, 3*44100, 0.5), 44100)
	s.Require().NoError(err)
	s.tone = tone
}

func (s *ExtractorTestSuite) TestToneRecord() {
	record, err := s.extractor.Extract(s.tone)
	s.Require().NoError(err)

	s.Len(record.Pitch, 257)
	s.Len(record.SpectralCentroid, 257)
	s.Len(record.SpectralRolloff, 257)
	s.Len(record.Energy, 129)
	s.Len(record.CepstralCoefficients, 13)
	s.Len(record.Formants, 4)
	s.IsNonDecreasing(record.Formants)

	s.InDelta(440.0, stat.Mean(record.Pitch, nil), 15.0)
	s.InDelta(3.0, record.Duration, 1e-12)
	s.Equal(44100, record.SampleRate)
	s.Equal(1, record.Channels)
	s.Equal(257, record.Frames())

	// a 0.5 amplitude sine has mean square 0.125
	for _, e := range record.Energy {
		s.InDelta(0.125, e, 5e-3)
	}
	// leakage drags the centroid up, but 85% of the energy sits at the tone
	for i := range record.Pitch {
		s.Greater(record.SpectralCentroid[i], 0.0)
		s.Less(record.SpectralRolloff[i], 1000.0)
	}
}

func (s *ExtractorTestSuite) TestStandaloneMatchesAggregate() {
	record, err := s.extractor.Extract(s.tone)
	s.Require().NoError(err)

	energy, err := s.extractor.Energy(s.tone)
	s.Require().NoError(err)
	s.Equal(record.Energy, energy)

	pitch, err := s.extractor.Pitch(s.tone)
	s.Require().NoError(err)
	s.Equal(record.Pitch, pitch)

	centroid, err := s.extractor.SpectralCentroid(s.tone)
	s.Require().NoError(err)
	s.Equal(record.SpectralCentroid, centroid)

	rolloff, err := s.extractor.SpectralRolloff(s.tone)
	s.Require().NoError(err)
	s.Equal(record.SpectralRolloff, rolloff)
}

func (s *ExtractorTestSuite) TestChunkedStreamMatchesAggregate() {
	record, err := s.extractor.Extract(s.tone)
	s.Require().NoError(err)

	stream, err := s.extractor.NewStream(s.tone.SampleRate)
	s.Require().NoError(err)
	for start := 0; start < s.tone.Len(); start += 777 {
		stream.Write(s.tone.Samples[start:min(start+777, s.tone.Len())])
	}

	windowed := stream.Windowed()
	s.Equal(s.tone.Len(), stream.Samples())
	s.Equal(record.Energy, windowed.Energy)
	s.Equal(record.Pitch, windowed.Pitch)
	s.Equal(record.SpectralCentroid, windowed.SpectralCentroid)
	s.Equal(record.SpectralRolloff, windowed.SpectralRolloff)
}

func (s *ExtractorTestSuite) TestShortBufferYieldsEmptySequences() {
	buf, err := audio.NewBuffer(sine(440, 44100, 1000, 0.5), 44100)
	s.Require().NoError(err)

	record, err := s.extractor.Extract(buf)
	s.Require().NoError(err)

	s.NotNil(record.Pitch)
	s.Empty(record.Pitch)
	s.Empty(record.SpectralCentroid)
	s.Empty(record.SpectralRolloff)
	s.Empty(record.Energy)
	s.Len(record.CepstralCoefficients, 13)
	s.Len(record.Formants, 4)
	for _, c := range record.CepstralCoefficients {
		s.False(math.IsNaN(c))
	}
}

func (s *ExtractorTestSuite) TestInvalidBuffer() {
	_, err := s.extractor.Extract(&audio.Buffer{SampleRate: 44100, Channels: 1})
	s.ErrorIs(err, audio.ErrInvalidInput)

	_, err = s.extractor.Extract(nil)
	s.ErrorIs(err, audio.ErrInvalidInput)

	_, err = s.extractor.Pitch(&audio.Buffer{Samples: []float64{1}, SampleRate: 0, Channels: 1})
	s.ErrorIs(err, audio.ErrInvalidInput)
}

func TestExtractorSuite(t *testing.T) {
	suite.Run(t, new(ExtractorTestSuite))
}

func TestNullEstimatorShape(t *testing.T) {
	cfg := config.Default()
	cfg.Analysis.Estimator = config.EstimatorNull

	extractor, err := NewExtractor(cfg)
	require.NoError(t, err)
	assert.Equal(t, "null", extractor.Estimator().Name())

	buf, err := audio.NewBuffer([]float64{0.1, 0.2}, 8000)
	require.NoError(t, err)

	record, err := extractor.Extract(buf)
	require.NoError(t, err)
	assert.Equal(t, []float64{800, 1200, 2500, 3500}, record.Formants)
	require.Len(t, record.CepstralCoefficients, 13)
	assert.Equal(t, 0.0, record.CepstralCoefficients[0])
	assert.InDelta(t, 0.1*math.Sin(2*math.Pi/13), record.CepstralCoefficients[1], 1e-15)

	wide := &NullEstimator{NumFormants: 5, NumCoefficients: 4}
	formants, err := wide.Formants(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{800, 1200, 2500, 3500, 4500}, formants)
	cepstral, err := wide.Cepstral(nil, 0)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0.1, 0, -0.1}, cepstral, 1e-15)
}

func TestMFCCEstimatorDistinguishesSignals(t *testing.T) {
	est := &MFCCEstimator{WindowSize: 512, HopSize: 256, NumCoefficients: 13, NumMelFilters: 26}

	low, err := est.Cepstral(sine(300, 16000, 8000, 0.5), 16000)
	require.NoError(t, err)
	high, err := est.Cepstral(sine(3000, 16000, 8000, 0.5), 16000)
	require.NoError(t, err)
	again, err := est.Cepstral(sine(300, 16000, 8000, 0.5), 16000)
	require.NoError(t, err)

	require.Len(t, low, 13)
	assert.Equal(t, low, again)
	assert.NotEqual(t, low, high)

	_, err = (&MFCCEstimator{WindowSize: 512, HopSize: 256, NumCoefficients: 30, NumMelFilters: 26}).Cepstral(low, 16000)
	assert.Error(t, err)
}

func TestWithEstimatorOverride(t *testing.T) {
	extractor, err := NewExtractor(config.Default())
	require.NoError(t, err)

	nulled := extractor.WithEstimator(&NullEstimator{})
	assert.Equal(t, "null", nulled.Estimator().Name())
	assert.Equal(t, "lpc-mfcc", extractor.Estimator().Name())
}

func TestTransformsProduceMatchingTracks(t *testing.T) {
	buf, err := audio.NewBuffer(sine(1000, 8000, 2048, 0.3), 8000)
	require.NoError(t, err)

	tracks := map[string][]float64{}
	for _, name := range []string{config.TransformFFT, config.TransformDFT, config.TransformGonum} {
		cfg := config.Default()
		cfg.Analysis.Transform = name
		extractor, err := NewExtractor(cfg)
		require.NoError(t, err)

		centroid, err := extractor.SpectralCentroid(buf)
		require.NoError(t, err)
		tracks[name] = centroid
	}

	require.Len(t, tracks[config.TransformFFT], 3)
	assert.InDeltaSlice(t, tracks[config.TransformDFT], tracks[config.TransformFFT], 1e-6)
	assert.InDeltaSlice(t, tracks[config.TransformDFT], tracks[config.TransformGonum], 1e-6)
}

func TestPreprocessingKeepsGrid(t *testing.T) {
	cfg := config.Default()
	cfg.Preprocess.Enabled = true
	cfg.Preprocess.LowPassHz = 4000

	extractor, err := NewExtractor(cfg)
	require.NoError(t, err)

	buf, err := audio.NewBuffer(sine(220, 16000, 16000, 0.1), 16000)
	require.NoError(t, err)

	record, err := extractor.Extract(buf)
	require.NoError(t, err)
	assert.Len(t, record.Pitch, 30)
	assert.Len(t, record.SpectralCentroid, 30)
	assert.Len(t, record.Energy, 15)

	// low-pass above Nyquist for this buffer is an input problem
	narrow, err := audio.NewBuffer(make([]float64, 100), 6000)
	require.NoError(t, err)
	_, err = extractor.Extract(narrow)
	assert.ErrorIs(t, err, audio.ErrInvalidInput)
}

func TestNewExtractorRejectsBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Analysis.HopSize = 0
	_, err := NewExtractor(cfg)
	assert.Error(t, err)
}

func TestMFCCEstimatorWindowChoice(t *testing.T) {
	signal := sine(300, 16000, 8000, 0.5)

	hamming, err := (&MFCCEstimator{WindowSize: 512, HopSize: 256, NumCoefficients: 13, NumMelFilters: 26}).Cepstral(signal, 16000)
	require.NoError(t, err)
	explicit, err := (&MFCCEstimator{WindowSize: 512, HopSize: 256, NumCoefficients: 13, NumMelFilters: 26, Window: "hamming"}).Cepstral(signal, 16000)
	require.NoError(t, err)
	hann, err := (&MFCCEstimator{WindowSize: 512, HopSize: 256, NumCoefficients: 13, NumMelFilters: 26, Window: "hann"}).Cepstral(signal, 16000)
	require.NoError(t, err)

	assert.Equal(t, hamming, explicit)
	assert.NotEqual(t, hamming, hann)

	_, err = (&MFCCEstimator{WindowSize: 512, HopSize: 256, NumCoefficients: 13, NumMelFilters: 26, Window: "triangle"}).Cepstral(signal, 16000)
	assert.Error(t, err)
}

func TestFormantsRespectSampleRate(t *testing.T) {
	for _, sampleRate := range []int{8000, 4000, 1_100_000} {
		cfg := config.Default()
		cfg.Analysis.Window = "hann"
		extractor, err := NewExtractor(cfg)
		require.NoError(t, err)

		buf, err := audio.NewBuffer(sine(440, sampleRate, 4096, 0.5), sampleRate)
		require.NoError(t, err)

		record, err := extractor.Extract(buf)
		require.NoError(t, err, "%d Hz", sampleRate)
		require.Len(t, record.Formants, 4)
		for i, f := range record.Formants {
			assert.Less(t, f, float64(sampleRate)/2, "%d Hz F%d", sampleRate, i+1)
		}
	}
}

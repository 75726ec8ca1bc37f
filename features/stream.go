package features

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-tajweed/algorithms/common"
	"github.com/RyanBlaney/sonido-tajweed/algorithms/spectral"
	"github.com/RyanBlaney/sonido-tajweed/algorithms/tonal"
)

// Stream computes the windowed sequences from samples delivered in chunks,
// retaining no more than one analysis window between writes
type Stream struct {
	sampleRate int
	threshold  float64
	transform  spectral.Transform

	hop    *common.StreamFramer
	energy *common.StreamFramer

	pitch    *tonal.PitchDetector
	centroid *spectral.SpectralCentroid
	rolloff  *spectral.SpectralRolloff

	energyWindow int
	samples      int
	result       Windowed
}

// NewStream starts a streaming pass for audio at sampleRate
func (e *Extractor) NewStream(sampleRate int) (*Stream, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}

	hop, err := common.NewStreamFramer(e.analysis.WindowSize, e.analysis.HopSize)
	if err != nil {
		return nil, err
	}
	energy, err := common.NewStreamFramer(e.analysis.EnergyWindowSize, e.analysis.EnergyWindowSize)
	if err != nil {
		return nil, err
	}
	pitch, err := e.pitchDetector(sampleRate)
	if err != nil {
		return nil, err
	}

	return &Stream{
		sampleRate:   sampleRate,
		threshold:    e.analysis.RolloffThreshold,
		transform:    e.transform,
		hop:          hop,
		energy:       energy,
		pitch:        pitch,
		centroid:     spectral.NewSpectralCentroid(sampleRate, e.analysis.WindowSize),
		rolloff:      spectral.NewSpectralRolloff(sampleRate, e.analysis.WindowSize),
		energyWindow: e.analysis.EnergyWindowSize,
		result: Windowed{
			Energy:           []float64{},
			Pitch:            []float64{},
			SpectralCentroid: []float64{},
			SpectralRolloff:  []float64{},
		},
	}, nil
}

// Write feeds the next chunk of samples
func (s *Stream) Write(chunk []float64) {
	s.samples += len(chunk)

	s.hop.Push(chunk, func(_ int, frame []float64) {
		s.result.Pitch = append(s.result.Pitch, s.pitch.DetectPitch(frame).Pitch)

		mags := spectral.Magnitudes(s.transform.Compute(frame))
		s.result.SpectralCentroid = append(s.result.SpectralCentroid, s.centroid.Compute(mags))
		s.result.SpectralRolloff = append(s.result.SpectralRolloff, s.rolloff.Compute(mags, s.threshold))
	})

	s.energy.Push(chunk, func(_ int, frame []float64) {
		s.result.Energy = append(s.result.Energy, floats.Dot(frame, frame)/float64(s.energyWindow))
	})
}

// Windowed returns the sequences accumulated so far
func (s *Stream) Windowed() Windowed {
	return s.result
}

// Samples returns the number of samples written
func (s *Stream) Samples() int {
	return s.samples
}

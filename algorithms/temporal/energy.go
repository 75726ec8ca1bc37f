package temporal

import (
	"gonum.org/v1/gonum/floats"
)

// Energy computes block energy over non-overlapping windows
type Energy struct {
	frameSize int
}

// NewEnergy creates a new energy calculator
func NewEnergy(frameSize int) *Energy {
	return &Energy{
		frameSize: frameSize,
	}
}

// FrameSize returns the block length in samples
func (e *Energy) FrameSize() int {
	return e.frameSize
}

// ComputeMeanSquare returns Σx²/W for every complete block of W samples.
// The trailing partial block is dropped, never zero-padded.
func (e *Energy) ComputeMeanSquare(signal []float64) []float64 {
	if e.frameSize <= 0 || len(signal) < e.frameSize {
		return []float64{}
	}

	numFrames := len(signal) / e.frameSize
	energies := make([]float64, numFrames)

	for i := range numFrames {
		frame := signal[i*e.frameSize : (i+1)*e.frameSize]
		energies[i] = floats.Dot(frame, frame) / float64(e.frameSize)
	}

	return energies
}

// EnergyRange returns max - min of an energy sequence, 0 when empty
func EnergyRange(energies []float64) float64 {
	if len(energies) == 0 {
		return 0
	}
	return floats.Max(energies) - floats.Min(energies)
}

package common

import (
	"fmt"
	"iter"
)

// FrameCount returns how many full windows fit on the grid start = k*hop,
// start+windowSize <= numSamples. A signal shorter than one window has zero frames.
func FrameCount(numSamples, windowSize, hopSize int) int {
	if windowSize <= 0 || hopSize <= 0 || numSamples < windowSize {
		return 0
	}
	return (numSamples-windowSize)/hopSize + 1
}

// Framer slides a fixed-size window over an in-memory signal
type Framer struct {
	windowSize int
	hopSize    int
}

// NewFramer creates a new framer
func NewFramer(windowSize, hopSize int) (*Framer, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("invalid window size: %d", windowSize)
	}
	if hopSize <= 0 {
		return nil, fmt.Errorf("invalid hop size: %d", hopSize)
	}
	return &Framer{
		windowSize: windowSize,
		hopSize:    hopSize,
	}, nil
}

// WindowSize returns the frame length in samples
func (f *Framer) WindowSize() int {
	return f.windowSize
}

// HopSize returns the frame stride in samples
func (f *Framer) HopSize() int {
	return f.hopSize
}

// Count returns the number of frames produced for numSamples
func (f *Framer) Count(numSamples int) int {
	return FrameCount(numSamples, f.windowSize, f.hopSize)
}

// ForEach calls fn with every full frame in order. Frames alias the input
// signal, so fn must not modify or retain them. Iteration stops at the
// first error returned by fn.
func (f *Framer) ForEach(signal []float64, fn func(index int, frame []float64) error) error {
	for i, start := 0, 0; start+f.windowSize <= len(signal); i, start = i+1, start+f.hopSize {
		if err := fn(i, signal[start:start+f.windowSize]); err != nil {
			return err
		}
	}
	return nil
}

// All yields every full frame with its index. Frames alias the input
// signal. Use ForEach when the per-frame work can fail.
func (f *Framer) All(signal []float64) iter.Seq2[int, []float64] {
	return func(yield func(int, []float64) bool) {
		for i, start := 0, 0; start+f.windowSize <= len(signal); i, start = i+1, start+f.hopSize {
			if !yield(i, signal[start:start+f.windowSize]) {
				return
			}
		}
	}
}

// StreamFramer produces the same frames as Framer from a signal delivered in
// chunks. It keeps at most one window of samples between calls.
type StreamFramer struct {
	windowSize int
	hopSize    int
	pending    []float64
	skip       int // samples still to discard when hop > window
	index      int
}

// NewStreamFramer creates a new streaming framer
func NewStreamFramer(windowSize, hopSize int) (*StreamFramer, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("invalid window size: %d", windowSize)
	}
	if hopSize <= 0 {
		return nil, fmt.Errorf("invalid hop size: %d", hopSize)
	}
	return &StreamFramer{
		windowSize: windowSize,
		hopSize:    hopSize,
		pending:    make([]float64, 0, windowSize),
	}, nil
}

// Push feeds the next chunk and calls fn for each frame completed by it.
// The frame slice is reused between calls.
func (s *StreamFramer) Push(chunk []float64, fn func(index int, frame []float64)) {
	for len(chunk) > 0 {
		if s.skip > 0 {
			n := min(s.skip, len(chunk))
			chunk = chunk[n:]
			s.skip -= n
			continue
		}

		need := s.windowSize - len(s.pending)
		n := min(need, len(chunk))
		s.pending = append(s.pending, chunk[:n]...)
		chunk = chunk[n:]

		if len(s.pending) < s.windowSize {
			return
		}

		fn(s.index, s.pending)
		s.index++

		if s.hopSize >= s.windowSize {
			s.skip = s.hopSize - s.windowSize
			s.pending = s.pending[:0]
		} else {
			kept := copy(s.pending, s.pending[s.hopSize:])
			s.pending = s.pending[:kept]
		}
	}
}

// Frames returns the number of frames emitted so far
func (s *StreamFramer) Frames() int {
	return s.index
}

package audio

import (
	"fmt"
	"math"
	"time"
)

// Buffer is a decoded block of PCM samples ready for analysis.
// Samples are real-valued amplitudes, nominally in [-1, 1].
type Buffer struct {
	Samples    []float64 `json:"-" yaml:"-"`
	SampleRate int       `json:"sample_rate" yaml:"sample_rate"`
	Channels   int       `json:"channels" yaml:"channels"`
}

// NewBuffer creates a mono buffer and validates it
func NewBuffer(samples []float64, sampleRate int) (*Buffer, error) {
	buf := &Buffer{
		Samples:    samples,
		SampleRate: sampleRate,
		Channels:   1,
	}
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	return buf, nil
}

// Validate checks that the buffer can enter the analysis pipeline
func (b *Buffer) Validate() error {
	if b == nil {
		return NewInputError("buffer", "buffer is nil")
	}
	if len(b.Samples) == 0 {
		return NewInputError("samples", "buffer contains no samples")
	}
	if b.SampleRate <= 0 {
		return NewInputError("sample_rate", "sample rate must be positive")
	}
	if b.Channels != 1 {
		return NewInputError("channels", "analysis requires a mono buffer, downmix first")
	}
	for i, s := range b.Samples {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return NewInputError("samples", fmt.Sprintf("non-finite sample at index %d", i))
		}
	}
	return nil
}

// Len returns the number of samples
func (b *Buffer) Len() int {
	return len(b.Samples)
}

// DurationSeconds returns the buffer length in seconds
func (b *Buffer) DurationSeconds() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate)
}

// Duration returns the buffer length as a time.Duration
func (b *Buffer) Duration() time.Duration {
	return time.Duration(b.DurationSeconds() * float64(time.Second))
}

// Slice returns a view of the samples in [start, end) as a new buffer.
// The underlying array is shared; buffers are never mutated after creation.
func (b *Buffer) Slice(start, end int) *Buffer {
	start = max(start, 0)
	end = min(end, len(b.Samples))
	if start > end {
		start = end
	}
	return &Buffer{
		Samples:    b.Samples[start:end],
		SampleRate: b.SampleRate,
		Channels:   b.Channels,
	}
}

// Downmix averages interleaved multi-channel samples into a mono buffer
func Downmix(interleaved []float64, channels, sampleRate int) (*Buffer, error) {
	if channels <= 0 {
		return nil, NewInputError("channels", "channel count must be positive")
	}
	if channels == 1 {
		mono := make([]float64, len(interleaved))
		copy(mono, interleaved)
		return NewBuffer(mono, sampleRate)
	}
	if len(interleaved)%channels != 0 {
		return nil, NewInputError("samples", "interleaved length is not a multiple of the channel count")
	}

	frames := len(interleaved) / channels
	mono := make([]float64, frames)
	for i := range frames {
		sum := 0.0
		for c := range channels {
			sum += interleaved[i*channels+c]
		}
		mono[i] = sum / float64(channels)
	}

	return NewBuffer(mono, sampleRate)
}

package engine

import (
	"fmt"
	"sort"

	"github.com/RyanBlaney/sonido-tajweed/audio"
	"github.com/RyanBlaney/sonido-tajweed/features"
	"github.com/RyanBlaney/sonido-tajweed/tajweed"
)

// Info describes a buffer without analyzing it
type Info struct {
	Duration   float64 `json:"duration" yaml:"duration"` // seconds
	SampleRate int     `json:"sample_rate" yaml:"sample_rate"`
	Channels   int     `json:"channels" yaml:"channels"`
	Samples    int     `json:"samples" yaml:"samples"` // per channel
}

// Info reports buffer metadata. Multi-channel interleaved buffers are
// accepted here since nothing is analyzed.
func (e *Engine) Info(buf *audio.Buffer) (*Info, error) {
	if buf == nil {
		return nil, audio.NewInputError("buffer", "buffer is nil")
	}
	if buf.SampleRate <= 0 {
		return nil, audio.NewInputError("sample_rate", "sample rate must be positive")
	}
	channels := buf.Channels
	if channels <= 0 {
		return nil, audio.NewInputError("channels", "channel count must be positive")
	}

	frames := len(buf.Samples) / channels
	return &Info{
		Duration:   float64(frames) / float64(buf.SampleRate),
		SampleRate: buf.SampleRate,
		Channels:   channels,
		Samples:    frames,
	}, nil
}

// Segment is one time slice of a recording with its own features
type Segment struct {
	Index     int              `json:"index" yaml:"index"`
	StartTime float64          `json:"start_time" yaml:"start_time"` // seconds
	EndTime   float64          `json:"end_time" yaml:"end_time"`
	Text      string           `json:"text,omitempty" yaml:"text,omitempty"`
	Rules     []tajweed.Rule   `json:"rules" yaml:"rules"` // detected on this slice alone
	Features  *features.Record `json:"features" yaml:"features"`
}

// Segment splits buf at the given cut points (seconds, strictly ascending,
// inside the recording) and extracts each slice. n cut points produce n+1
// segments. texts is optional; when given it labels every segment.
func (e *Engine) Segment(buf *audio.Buffer, boundaries []float64, texts []string) ([]Segment, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	duration := buf.DurationSeconds()
	if !sort.Float64sAreSorted(boundaries) {
		return nil, audio.NewInputError("boundaries", "cut points must be ascending")
	}
	for i, b := range boundaries {
		if b <= 0 || b >= duration {
			return nil, audio.NewInputError("boundaries",
				fmt.Sprintf("cut point %d (%.3fs) outside recording of %.3fs", i, b, duration))
		}
		if i > 0 && b == boundaries[i-1] {
			return nil, audio.NewInputError("boundaries", fmt.Sprintf("duplicate cut point %.3fs", b))
		}
	}
	if len(texts) > 0 && len(texts) != len(boundaries)+1 {
		return nil, audio.NewInputError("texts",
			fmt.Sprintf("expected %d segment texts, got %d", len(boundaries)+1, len(texts)))
	}

	edges := make([]int, 0, len(boundaries)+2)
	edges = append(edges, 0)
	for _, b := range boundaries {
		edges = append(edges, int(b*float64(buf.SampleRate)))
	}
	edges = append(edges, buf.Len())

	segments := make([]Segment, 0, len(edges)-1)
	for i := 0; i+1 < len(edges); i++ {
		slice := buf.Slice(edges[i], edges[i+1])
		if slice.Len() == 0 {
			return nil, audio.NewInputError("boundaries", fmt.Sprintf("segment %d is empty", i))
		}

		record, err := e.ExtractFeatures(slice)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}

		segment := Segment{
			Index:     i,
			StartTime: float64(edges[i]) / float64(buf.SampleRate),
			EndTime:   float64(edges[i+1]) / float64(buf.SampleRate),
			Rules:     e.analyzer.Detect(record).Detected,
			Features:  record,
		}
		if len(texts) > 0 {
			segment.Text = texts[i]
		}
		segments = append(segments, segment)
	}

	return segments, nil
}

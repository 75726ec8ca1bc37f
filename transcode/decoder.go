package transcode

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/RyanBlaney/sonido-tajweed/audio"
	"github.com/RyanBlaney/sonido-tajweed/logging"
)

// wavFormatPCM is the RIFF audio format tag for integer PCM
const wavFormatPCM = 1

// AudioData is a decoded recording together with what the container reported
type AudioData struct {
	Buffer   *audio.Buffer   `json:"-"`
	Duration time.Duration   `json:"duration"`
	Metadata *StreamMetadata `json:"metadata,omitempty"`
}

// StreamMetadata describes the source file
type StreamMetadata struct {
	Path       string `json:"path,omitempty"`
	Format     string `json:"format"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"` // before downmixing
	BitDepth   int    `json:"bit_depth"`
	Frames     int    `json:"frames"`
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	MaxDuration time.Duration `json:"max_duration"` // 0 = no limit
	KeepStereo  bool          `json:"keep_stereo"`  // skip the mono downmix (info only)
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		MaxDuration: 0,
		KeepStereo:  false,
	}
}

// Decoder turns WAV files into sample buffers
type Decoder struct {
	config *DecoderConfig
	logger logging.Logger
}

// NewDecoder creates a new WAV decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component": "wav_decoder",
		}),
	}
}

// DecodeFile decodes a WAV file from disk
func (d *Decoder) DecodeFile(filename string) (*AudioData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer file.Close()

	data, err := d.DecodeReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, err)
	}
	data.Metadata.Path = filename

	d.logger.Debug("Decoded file", logging.Fields{
		"path":        filename,
		"sample_rate": data.Metadata.SampleRate,
		"channels":    data.Metadata.Channels,
		"duration":    data.Duration.Seconds(),
	})

	return data, nil
}

// DecodeBytes decodes an in-memory WAV file
func (d *Decoder) DecodeBytes(data []byte) (*AudioData, error) {
	return d.DecodeReader(bytes.NewReader(data))
}

// DecodeReader decodes a WAV stream. Integer samples are scaled to [-1, 1)
// and, unless KeepStereo is set, interleaved channels are averaged to mono.
func (d *Decoder) DecodeReader(reader io.ReadSeeker) (*AudioData, error) {
	decoder := wav.NewDecoder(reader)
	if !decoder.IsValidFile() {
		return nil, audio.NewInputError("file", "not a valid WAV file")
	}
	if decoder.WavAudioFormat != wavFormatPCM {
		return nil, audio.NewInputError("format",
			fmt.Sprintf("unsupported WAV audio format %d, only integer PCM is decoded", decoder.WavAudioFormat))
	}

	bitDepth := int(decoder.BitDepth)
	switch bitDepth {
	case 16, 24, 32:
	default:
		return nil, audio.NewInputError("bit_depth", fmt.Sprintf("unsupported bit depth %d", bitDepth))
	}

	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("could not read PCM buffer: %w", err)
	}
	if pcm.Format == nil || pcm.Format.NumChannels <= 0 {
		return nil, audio.NewInputError("channels", "WAV header has no channels")
	}

	channels := pcm.Format.NumChannels
	sampleRate := pcm.Format.SampleRate
	samples := d.truncate(pcm, sampleRate, channels)

	scaled := scale(samples, bitDepth)

	var buf *audio.Buffer
	if d.config.KeepStereo {
		buf = &audio.Buffer{Samples: scaled, SampleRate: sampleRate, Channels: channels}
	} else {
		buf, err = audio.Downmix(scaled, channels, sampleRate)
		if err != nil {
			return nil, fmt.Errorf("failed to downmix: %w", err)
		}
	}

	frames := len(samples) / channels
	return &AudioData{
		Buffer:   buf,
		Duration: time.Duration(float64(frames) / float64(sampleRate) * float64(time.Second)),
		Metadata: &StreamMetadata{
			Format:     "wav",
			SampleRate: sampleRate,
			Channels:   channels,
			BitDepth:   bitDepth,
			Frames:     frames,
		},
	}, nil
}

// GetConfig returns the decoder configuration
func (d *Decoder) GetConfig() DecoderConfig {
	return *d.config
}

// truncate drops whole frames beyond MaxDuration
func (d *Decoder) truncate(pcm *goaudio.IntBuffer, sampleRate, channels int) []int {
	data := pcm.Data
	if d.config.MaxDuration <= 0 || sampleRate <= 0 {
		return data[:len(data)-len(data)%channels]
	}

	maxFrames := int(d.config.MaxDuration.Seconds() * float64(sampleRate))
	if frames := len(data) / channels; frames > maxFrames {
		d.logger.Debug("Truncating input", logging.Fields{
			"frames":     frames,
			"max_frames": maxFrames,
		})
		return data[:maxFrames*channels]
	}
	return data[:len(data)-len(data)%channels]
}

// scale maps signed integer PCM of the given depth onto [-1, 1)
func scale(data []int, bitDepth int) []float64 {
	full := float64(int64(1) << (bitDepth - 1))
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v) / full
	}
	return out
}

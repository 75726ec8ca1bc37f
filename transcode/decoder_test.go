package transcode

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-tajweed/audio"
)

func writeWav(t *testing.T, data []int, sampleRate, channels, bitDepth int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "input.wav")
	out, err := os.Create(path)
	require.NoError(t, err)

	encoder := wav.NewEncoder(out, sampleRate, bitDepth, channels, wavFormatPCM)
	require.NoError(t, encoder.Write(&goaudio.IntBuffer{
		Data:           data,
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		SourceBitDepth: bitDepth,
	}))
	require.NoError(t, encoder.Close())
	require.NoError(t, out.Close())

	return path
}

func TestDecodeMono16(t *testing.T) {
	path := writeWav(t, []int{0, 16384, -16384, -32768, 32767}, 8000, 1, 16)

	data, err := NewDecoder(nil).DecodeFile(path)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0.5, -0.5, -1, 32767.0 / 32768.0}, data.Buffer.Samples)
	assert.Equal(t, 8000, data.Buffer.SampleRate)
	assert.Equal(t, 1, data.Buffer.Channels)
	assert.Equal(t, path, data.Metadata.Path)
	assert.Equal(t, 16, data.Metadata.BitDepth)
	assert.Equal(t, 5, data.Metadata.Frames)
	require.NoError(t, data.Buffer.Validate())
}

func TestDecodeStereoDownmix(t *testing.T) {
	// L/R pairs
	path := writeWav(t, []int{16384, 0, -16384, -16384, 8192, 24576}, 16000, 2, 16)

	data, err := NewDecoder(DefaultDecoderConfig()).DecodeFile(path)
	require.NoError(t, err)

	assert.Equal(t, []float64{0.25, -0.5, 0.5}, data.Buffer.Samples)
	assert.Equal(t, 1, data.Buffer.Channels)
	assert.Equal(t, 2, data.Metadata.Channels)
	assert.Equal(t, 3, data.Metadata.Frames)

	kept, err := NewDecoder(&DecoderConfig{KeepStereo: true}).DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, kept.Buffer.Channels)
	assert.Len(t, kept.Buffer.Samples, 6)
}

func TestDecodeMaxDuration(t *testing.T) {
	path := writeWav(t, make([]int, 8000), 8000, 1, 16)

	data, err := NewDecoder(&DecoderConfig{MaxDuration: 250 * time.Millisecond}).DecodeFile(path)
	require.NoError(t, err)
	assert.Len(t, data.Buffer.Samples, 2000)
	assert.Equal(t, 250*time.Millisecond, data.Duration)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := NewDecoder(nil).DecodeBytes([]byte("definitely not a riff header"))
	assert.ErrorIs(t, err, audio.ErrInvalidInput)

	_, err = NewDecoder(nil).DecodeFile(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}

func TestDecodeBytesMatchesFile(t *testing.T) {
	path := writeWav(t, []int{100, -100, 200, -200}, 8000, 1, 16)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	fromBytes, err := NewDecoder(nil).DecodeBytes(raw)
	require.NoError(t, err)
	fromFile, err := NewDecoder(nil).DecodeFile(path)
	require.NoError(t, err)

	assert.Equal(t, fromFile.Buffer.Samples, fromBytes.Buffer.Samples)
}

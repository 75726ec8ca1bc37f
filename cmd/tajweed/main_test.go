package main

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeTone(t *testing.T, name string, freq float64, sampleRate, n int) string {
	t.Helper()

	data := make([]int, n)
	for i := range data {
		data[i] = int(16384 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
	}

	path := filepath.Join(t.TempDir(), name)
	out, err := os.Create(path)
	require.NoError(t, err)

	encoder := wav.NewEncoder(out, sampleRate, 16, 1, 1)
	require.NoError(t, encoder.Write(&goaudio.IntBuffer{
		Data:           data,
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: 16,
	}))
	require.NoError(t, encoder.Close())
	require.NoError(t, out.Close())

	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

func TestExtractJSON(t *testing.T) {
	path := writeTone(t, "tone.wav", 440, 16000, 16000)

	out, err := run(t, "extract", path)
	require.NoError(t, err)

	var record struct {
		CepstralCoefficients []float64 `json:"cepstral_coefficients"`
		Formants             []float64 `json:"formants"`
		Duration             float64   `json:"duration"`
		SampleRate           int       `json:"sample_rate"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &record))
	assert.Len(t, record.CepstralCoefficients, 13)
	assert.Len(t, record.Formants, 4)
	assert.InDelta(t, 1.0, record.Duration, 1e-12)
	assert.Equal(t, 16000, record.SampleRate)
}

func TestExtractTableSummarizesTracks(t *testing.T) {
	path := writeTone(t, "tone.wav", 440, 16000, 16000)

	out, err := run(t, "extract", path, "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "Pitch")
	assert.Contains(t, out, "Energy")
	assert.Contains(t, out, "std")
	assert.Contains(t, out, "16000 Hz")
}

func TestCompareTableUsesConfiguredMetric(t *testing.T) {
	path := writeTone(t, "tone.wav", 440, 16000, 16000)
	cfgPath := filepath.Join(t.TempDir(), "tajweed.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("comparison:\n  metric: manhattan\n  band: 4\nanalysis:\n  window: hann\n"), 0o644))

	out, err := run(t, "compare", path, path, "-o", "table", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Vector distance (manhattan)")
	assert.Contains(t, out, "1.0000")
}

func TestExtractSeveralFiles(t *testing.T) {
	first := writeTone(t, "a.wav", 440, 16000, 8000)
	second := writeTone(t, "b.wav", 220, 16000, 4000)

	out, err := run(t, "extract", first, second, "--output", "yaml")
	require.NoError(t, err)

	var records []struct {
		File string `yaml:"file"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)
	assert.Equal(t, first, records[0].File)
	assert.Equal(t, second, records[1].File)
}

func TestCompareSelf(t *testing.T) {
	path := writeTone(t, "tone.wav", 440, 16000, 16000)

	out, err := run(t, "compare", path, path)
	require.NoError(t, err)

	var result struct {
		Similarity float64 `json:"similarity"`
		Distance   float64 `json:"distance"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 1.0, result.Similarity)
	assert.Equal(t, 0.0, result.Distance)
}

func TestAnalyzeTable(t *testing.T) {
	path := writeTone(t, "tone.wav", 440, 16000, 16000)

	out, err := run(t, "analyze", path, path, "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "Overall score")
	for _, rule := range []string{"Madd", "Makharij", "Ghunna", "Qalqalah"} {
		assert.Contains(t, out, rule)
	}
}

func TestDetectRulesFlag(t *testing.T) {
	path := writeTone(t, "tone.wav", 440, 16000, 16000)

	out, err := run(t, "detect", path, "--rules", "qalqalah,makharij")
	require.NoError(t, err)

	var detection struct {
		Checked     []string `json:"checked"`
		Unsupported []string `json:"unsupported"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &detection))
	assert.Equal(t, []string{"Qalqalah"}, detection.Checked)
	assert.Equal(t, []string{"Makharij"}, detection.Unsupported)

	_, err = run(t, "detect", path, "--rules", "idgham")
	assert.Error(t, err)
}

func TestInfoAndSegment(t *testing.T) {
	path := writeTone(t, "tone.wav", 440, 8000, 8000)

	out, err := run(t, "info", path, "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "8000 Hz")
	assert.Contains(t, out, "1.000s")

	out, err = run(t, "segment", path, "--boundaries", "0.5", "--texts", "first,second")
	require.NoError(t, err)

	var segments []struct {
		StartTime float64 `json:"start_time"`
		Text      string  `json:"text"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &segments))
	require.Len(t, segments, 2)
	assert.Equal(t, 0.5, segments[1].StartTime)
	assert.Equal(t, "second", segments[1].Text)

	_, err = run(t, "segment", path, "--boundaries", "2.0")
	assert.Error(t, err)
}

func TestGlobalFlagValidation(t *testing.T) {
	path := writeTone(t, "tone.wav", 440, 8000, 2048)

	_, err := run(t, "info", path, "--output", "xml")
	assert.Error(t, err)

	_, err = run(t, "info", path, "--log-level", "chatty")
	assert.Error(t, err)

	_, err = run(t, "info", path, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigFileOverrides(t *testing.T) {
	path := writeTone(t, "tone.wav", 440, 16000, 16000)

	cfgPath := filepath.Join(t.TempDir(), "tajweed.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(strings.Join([]string{
		"analysis:",
		"  cepstral_coefficients: 20",
		"  estimator: \"null\"",
	}, "\n")), 0o644))

	out, err := run(t, "extract", path, "--config", cfgPath)
	require.NoError(t, err)

	var record struct {
		CepstralCoefficients []float64 `json:"cepstral_coefficients"`
		Formants             []float64 `json:"formants"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &record))
	assert.Len(t, record.CepstralCoefficients, 20)
	assert.Equal(t, []float64{800, 1200, 2500, 3500}, record.Formants)
}

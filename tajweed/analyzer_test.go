package tajweed

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/sonido-tajweed/config"
	"github.com/RyanBlaney/sonido-tajweed/features"
)

func newAnalyzer() *Analyzer {
	return NewAnalyzer(config.Default().Rules)
}

// passing satisfies every default threshold
func passing() *features.Record {
	return &features.Record{
		Formants: []float64{700, 1200, 2600, 3400},
		Energy:   []float64{0.05, 0.3},
		Pitch:    []float64{150, 160},
	}
}

func TestDetectMadd(t *testing.T) {
	a := newAnalyzer()
	assert.True(t, a.DetectMadd([]float64{150}, []float64{0.2}))
	assert.False(t, a.DetectMadd([]float64{100}, []float64{0.2}))
	assert.False(t, a.DetectMadd([]float64{150}, []float64{0.1}))
	assert.False(t, a.DetectMadd(nil, []float64{0.2}))
	assert.False(t, a.DetectMadd([]float64{150}, nil))
}

func TestDetectMakharij(t *testing.T) {
	a := newAnalyzer()
	assert.True(t, a.DetectMakharij([]float64{700, 1200}, []float64{800, 1100}))
	assert.False(t, a.DetectMakharij([]float64{700, 1200}, []float64{900, 1400}))

	// length mismatch is false regardless of values
	assert.False(t, a.DetectMakharij([]float64{700}, []float64{700, 1200}))
	assert.False(t, a.DetectMakharij([]float64{700, 1200, 2500}, []float64{700, 1200}))
	assert.False(t, a.DetectMakharij(nil, nil))
}

func TestDetectGhunna(t *testing.T) {
	a := newAnalyzer()
	assert.True(t, a.DetectGhunna([]float64{0.06}, []float64{81}))
	assert.False(t, a.DetectGhunna([]float64{0.05}, []float64{81}))
	assert.False(t, a.DetectGhunna([]float64{0.06}, []float64{80}))
	assert.False(t, a.DetectGhunna(nil, []float64{81}))
}

func TestDetectQalqalah(t *testing.T) {
	a := newAnalyzer()
	assert.True(t, a.DetectQalqalah([]float64{0.0, 0.2}))
	assert.False(t, a.DetectQalqalah([]float64{0.4, 0.4, 0.4}))
	assert.False(t, a.DetectQalqalah([]float64{0.0, 0.1}))
	assert.False(t, a.DetectQalqalah(nil))
}

func TestAnalyzeAllCorrect(t *testing.T) {
	report := newAnalyzer().Analyze(passing(), passing())

	assert.Equal(t, 100.0, report.OverallScore)
	assert.Equal(t, 0.8, report.Confidence)
	assert.NotNil(t, report.Errors)
	assert.Empty(t, report.Errors)
	assert.Empty(t, report.Suggestions)
	require.Len(t, report.Findings, 4)
	for i, f := range report.Findings {
		assert.Equal(t, AllRules[i], f.Rule)
		assert.True(t, f.Correct)
		assert.Empty(t, f.Error)
	}
	assert.Equal(t, map[string]float64{"Madd": 100, "Makharij": 100, "Ghunna": 100, "Qalqalah": 100}, report.RuleScores)
}

func TestAnalyzeEmptyRecordFailsEverything(t *testing.T) {
	report := newAnalyzer().Analyze(&features.Record{}, passing())

	assert.Equal(t, 0.0, report.OverallScore)
	assert.Equal(t, []string{
		"Madd not properly elongated",
		"Articulation point needs adjustment",
		"Ghunna not properly pronounced",
		"Qalqalah not properly pronounced",
	}, report.Errors)
	assert.Equal(t, []string{
		"Focus on elongating the Madd letters",
		"Practice the articulation points of Arabic letters",
		"Practice nasal sounds",
		"Practice the bouncing sound of Qalqalah letters",
	}, report.Suggestions)
}

func TestAnalyzeMakharijUsesReference(t *testing.T) {
	user := passing()
	ref := passing()
	ref.Formants = []float64{1000, 1600, 3000, 3900}

	report := newAnalyzer().Analyze(user, ref)
	assert.Equal(t, 75.0, report.OverallScore)
	assert.Equal(t, []string{"Articulation point needs adjustment"}, report.Errors)
	assert.Equal(t, 0.0, report.RuleScores["Makharij"])

	// energy range 0.05 misses Qalqalah, the rest still pass
	user.Energy = []float64{0.3, 0.35}
	report = newAnalyzer().Analyze(user, ref)
	assert.Equal(t, 50.0, report.OverallScore)
	assert.Equal(t, []string{"Articulation point needs adjustment", "Qalqalah not properly pronounced"}, report.Errors)
}

func TestCustomThresholds(t *testing.T) {
	cfg := config.Default().Rules
	cfg.MaddMinPitch = 200
	cfg.Confidence = 0.5

	report := NewAnalyzer(cfg).Analyze(passing(), passing())
	assert.Equal(t, 75.0, report.OverallScore)
	assert.Equal(t, 0.5, report.Confidence)
	assert.Equal(t, []string{"Madd not properly elongated"}, report.Errors)
}

func TestDetect(t *testing.T) {
	a := newAnalyzer()

	detection := a.Detect(passing())
	assert.Equal(t, []Rule{Madd, Ghunna, Qalqalah}, detection.Checked)
	assert.Equal(t, []Rule{Madd, Ghunna, Qalqalah}, detection.Detected)
	assert.Empty(t, detection.Unsupported)
	assert.True(t, detection.Has(Ghunna))

	detection = a.Detect(passing(), Qalqalah, Makharij, Qalqalah)
	assert.Equal(t, []Rule{Qalqalah}, detection.Checked)
	assert.Equal(t, []Rule{Makharij}, detection.Unsupported)

	detection = a.Detect(&features.Record{})
	assert.Empty(t, detection.Detected)
	assert.False(t, detection.Has(Madd))
}

func TestParseRule(t *testing.T) {
	for name, want := range map[string]Rule{
		"madd": Madd, "Makharij": Makharij, "articulation": Makharij, " GHUNNA ": Ghunna, "qalqalah": Qalqalah,
	} {
		got, err := ParseRule(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseRule("idgham")
	assert.Error(t, err)
	assert.Equal(t, "Rule(9)", Rule(9).String())
}

func TestRuleEncoding(t *testing.T) {
	detection := &Detection{Detected: []Rule{Madd}, Checked: []Rule{Madd, Qalqalah}}

	data, err := json.Marshal(detection)
	require.NoError(t, err)
	assert.JSONEq(t, `{"detected":["Madd"],"checked":["Madd","Qalqalah"]}`, string(data))

	var decoded Detection
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *detection, decoded)

	out, err := yaml.Marshal(Finding{Rule: Ghunna, Correct: true})
	require.NoError(t, err)
	assert.Contains(t, string(out), "rule: Ghunna")

	_, err = json.Marshal(Rule(9))
	assert.Error(t, err)
}

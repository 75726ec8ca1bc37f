package tajweed

import (
	"slices"

	"github.com/RyanBlaney/sonido-tajweed/algorithms/stats"
	"github.com/RyanBlaney/sonido-tajweed/algorithms/temporal"
	"github.com/RyanBlaney/sonido-tajweed/config"
	"github.com/RyanBlaney/sonido-tajweed/features"
	"github.com/RyanBlaney/sonido-tajweed/logging"
)

// Finding is the verdict for one rule
type Finding struct {
	Rule       Rule   `json:"rule" yaml:"rule"`
	Correct    bool   `json:"correct" yaml:"correct"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// Report summarizes every rule for a (user, reference) pair
type Report struct {
	OverallScore float64            `json:"overall_score" yaml:"overall_score"` // percentage of rules judged correct
	Confidence   float64            `json:"confidence" yaml:"confidence"`
	Errors       []string           `json:"errors" yaml:"errors"`
	Suggestions  []string           `json:"suggestions" yaml:"suggestions"`
	RuleScores   map[string]float64 `json:"rule_scores" yaml:"rule_scores"`
	Findings     []Finding          `json:"findings" yaml:"findings"`
}

// Detection lists the rules present in a single recording
type Detection struct {
	Detected    []Rule `json:"detected" yaml:"detected"`
	Checked     []Rule `json:"checked" yaml:"checked"`
	Unsupported []Rule `json:"unsupported,omitempty" yaml:"unsupported,omitempty"`
}

// Has reports whether rule was detected
func (d *Detection) Has(rule Rule) bool {
	return slices.Contains(d.Detected, rule)
}

// Analyzer applies threshold heuristics to feature records.
// Every check is a pure function of its inputs; empty sequences are never
// judged correct.
type Analyzer struct {
	cfg    config.RuleConfig
	logger logging.Logger
}

// NewAnalyzer creates a new rule analyzer
func NewAnalyzer(cfg config.RuleConfig) *Analyzer {
	return &Analyzer{
		cfg: cfg,
		logger: logging.WithFields(logging.Fields{
			"component": "tajweed_analyzer",
		}),
	}
}

// DetectMadd checks vowel elongation: mean pitch and mean energy above threshold
func (a *Analyzer) DetectMadd(pitch, energy []float64) bool {
	if len(pitch) == 0 || len(energy) == 0 {
		return false
	}
	return stats.Mean(pitch) > a.cfg.MaddMinPitch && stats.Mean(energy) > a.cfg.MaddMinEnergy
}

// DetectMakharij checks the articulation point: equal-length formant vectors
// whose mean absolute difference is below the threshold
func (a *Analyzer) DetectMakharij(formants, reference []float64) bool {
	diff, ok := stats.MeanAbsoluteDifference(formants, reference)
	if !ok {
		return false
	}
	return diff < a.cfg.MakharijMaxFormantDiff
}

// DetectGhunna checks nasalization: mean energy and mean pitch above threshold
func (a *Analyzer) DetectGhunna(energy, pitch []float64) bool {
	if len(energy) == 0 || len(pitch) == 0 {
		return false
	}
	return stats.Mean(energy) > a.cfg.GhunnaMinEnergy && stats.Mean(pitch) > a.cfg.GhunnaMinPitch
}

// DetectQalqalah checks the plosive bounce: energy range above threshold
func (a *Analyzer) DetectQalqalah(energy []float64) bool {
	if len(energy) == 0 {
		return false
	}
	return temporal.EnergyRange(energy) > a.cfg.QalqalahMinEnergyRange
}

// Evaluate returns the verdict for a single rule. Makharij compares the
// user's formants against the reference; the other rules only look at user.
func (a *Analyzer) Evaluate(rule Rule, user, reference *features.Record) Finding {
	var correct bool
	switch rule {
	case Madd:
		correct = a.DetectMadd(user.Pitch, user.Energy)
	case Makharij:
		if reference != nil {
			correct = a.DetectMakharij(user.Formants, reference.Formants)
		}
	case Ghunna:
		correct = a.DetectGhunna(user.Energy, user.Pitch)
	case Qalqalah:
		correct = a.DetectQalqalah(user.Energy)
	}

	finding := Finding{Rule: rule, Correct: correct}
	if !correct {
		finding.Error = rule.Message()
		finding.Suggestion = rule.Suggestion()
	}
	return finding
}

// Analyze judges every rule and assembles the report
func (a *Analyzer) Analyze(user, reference *features.Record) *Report {
	report := &Report{
		Confidence:  a.cfg.Confidence,
		Errors:      []string{},
		Suggestions: []string{},
		RuleScores:  make(map[string]float64, len(AllRules)),
		Findings:    make([]Finding, 0, len(AllRules)),
	}

	correct := 0
	for _, rule := range AllRules {
		finding := a.Evaluate(rule, user, reference)
		report.Findings = append(report.Findings, finding)

		if finding.Correct {
			correct++
			report.RuleScores[rule.String()] = 100.0
			continue
		}

		report.RuleScores[rule.String()] = 0.0
		report.Errors = append(report.Errors, finding.Error)
		report.Suggestions = append(report.Suggestions, finding.Suggestion)
	}

	report.OverallScore = float64(correct) / float64(len(AllRules)) * 100.0

	a.logger.Debug("Analyzed recitation", logging.Fields{
		"overall_score": report.OverallScore,
		"errors":        len(report.Errors),
	})

	return report
}

// Detect reports which rules are present in one record. With no rules
// requested, Madd, Ghunna and Qalqalah are checked. Makharij needs a
// reference and is listed as unsupported.
func (a *Analyzer) Detect(record *features.Record, rules ...Rule) *Detection {
	if len(rules) == 0 {
		rules = []Rule{Madd, Ghunna, Qalqalah}
	}

	detection := &Detection{
		Detected: []Rule{},
		Checked:  []Rule{},
	}

	seen := make(map[Rule]bool, len(rules))
	for _, rule := range AllRules {
		if !slices.Contains(rules, rule) || seen[rule] {
			continue
		}
		seen[rule] = true

		if rule == Makharij {
			detection.Unsupported = append(detection.Unsupported, rule)
			continue
		}

		detection.Checked = append(detection.Checked, rule)
		if a.Evaluate(rule, record, nil).Correct {
			detection.Detected = append(detection.Detected, rule)
		}
	}

	return detection
}

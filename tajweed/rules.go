package tajweed

import (
	"fmt"
	"strings"
)

// Rule is one pronunciation phenomenon checked by the analyzer
type Rule int

// Rules are evaluated and reported in declaration order
const (
	Madd Rule = iota
	Makharij
	Ghunna
	Qalqalah
)

// AllRules lists every rule in report order
var AllRules = []Rule{Madd, Makharij, Ghunna, Qalqalah}

var ruleNames = map[Rule]string{
	Madd:     "Madd",
	Makharij: "Makharij",
	Ghunna:   "Ghunna",
	Qalqalah: "Qalqalah",
}

// feedback holds the fixed message pair reported for an incorrect rule
var feedback = map[Rule]struct{ message, suggestion string }{
	Madd:     {"Madd not properly elongated", "Focus on elongating the Madd letters"},
	Makharij: {"Articulation point needs adjustment", "Practice the articulation points of Arabic letters"},
	Ghunna:   {"Ghunna not properly pronounced", "Practice nasal sounds"},
	Qalqalah: {"Qalqalah not properly pronounced", "Practice the bouncing sound of Qalqalah letters"},
}

func (r Rule) String() string {
	if name, ok := ruleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

// MarshalText encodes the rule by name
func (r Rule) MarshalText() ([]byte, error) {
	if _, ok := ruleNames[r]; !ok {
		return nil, fmt.Errorf("unknown rule: %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a rule name
func (r *Rule) UnmarshalText(text []byte) error {
	rule, err := ParseRule(string(text))
	if err != nil {
		return err
	}
	*r = rule
	return nil
}

// ParseRule matches a rule name case-insensitively. "articulation" is
// accepted for Makharij.
func ParseRule(name string) (Rule, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "madd":
		return Madd, nil
	case "makharij", "articulation":
		return Makharij, nil
	case "ghunna":
		return Ghunna, nil
	case "qalqalah":
		return Qalqalah, nil
	default:
		return 0, fmt.Errorf("unknown tajweed rule: %q", name)
	}
}

// Message returns the diagnostic reported when the rule is incorrect
func (r Rule) Message() string {
	return feedback[r].message
}

// Suggestion returns the improvement hint reported when the rule is incorrect
func (r Rule) Suggestion() string {
	return feedback[r].suggestion
}

// Package scoring maps raw analysis keys onto the five canonical
// emotional-intelligence dimensions and derives the overall score.
package scoring

import (
	"strings"

	"golang.org/x/text/cases"
)

// Dimension is a canonical emotional-intelligence axis.
type Dimension int

const (
	SelfAwareness Dimension = iota
	Empathy
	SelfRegulation
	Communication
	DecisionMaking
)

// Dimensions lists the canonical dimensions in display order.
var Dimensions = [...]Dimension{SelfAwareness, Empathy, SelfRegulation, Communication, DecisionMaking}

// DimensionCount is the fixed divisor of the overall score.
const DimensionCount = len(Dimensions)

var dimensionInfo = [DimensionCount]struct {
	slug  string
	label string
	token string
}{
	SelfAwareness:  {"self-awareness", "Self-awareness", "selfawareness"},
	Empathy:        {"empathy", "Empathy", "empathy"},
	SelfRegulation: {"self-regulation", "Self-regulation", "selfregulation"},
	Communication:  {"communication", "Communication", "communication"},
	DecisionMaking: {"decision-making", "Decision making", "decisionmaking"},
}

// String returns the dimension's kebab-case name.
func (d Dimension) String() string {
	if d < 0 || int(d) >= DimensionCount {
		return "unknown"
	}
	return dimensionInfo[d].slug
}

// Label returns a human-readable name.
func (d Dimension) Label() string {
	if d < 0 || int(d) >= DimensionCount {
		return "Unknown"
	}
	return dimensionInfo[d].label
}

// byToken maps a bare normalized token to its dimension.
var byToken = func() map[string]Dimension {
	m := make(map[string]Dimension, DimensionCount)
	for _, d := range Dimensions {
		m[dimensionInfo[d].token] = d
	}
	return m
}()

var stripSeparators = strings.NewReplacer("_", "", "-", "", " ", "")

// NormalizeKey case-folds raw and removes underscores, hyphens, and spaces.
// "Self-Awareness", "self_awareness" and "selfAwareness" all become
// "selfawareness".
func NormalizeKey(raw string) string {
	return stripSeparators.Replace(cases.Fold().String(raw))
}

// Match returns the canonical dimension a raw key names, if any.
func Match(raw string) (Dimension, bool) {
	d, ok := byToken[NormalizeKey(raw)]
	return d, ok
}

package scoring

import (
	"math"

	"github.com/abhisek/empathiz/internal/analysis"
)

// Canonical holds a result's scores and reasoning keyed by canonical
// dimension. A dimension with no matching raw key is absent, which is not
// the same as a score of zero.
type Canonical struct {
	scores    [DimensionCount]float64
	hasScore  [DimensionCount]bool
	reasoning [DimensionCount]string
	hasReason [DimensionCount]bool
}

// Canonicalize matches every raw key of r against the canonical dimensions.
// When several raw keys match one dimension, the last in payload order
// wins. Unmatched raw keys are ignored. A nil result yields all-absent.
func Canonicalize(r *analysis.Result) Canonical {
	var c Canonical
	if r == nil {
		return c
	}
	for _, s := range r.Scores {
		if d, ok := Match(s.Key); ok {
			c.scores[d] = s.Value
			c.hasScore[d] = true
		}
	}
	for _, rs := range r.Reasoning {
		if d, ok := Match(rs.Key); ok {
			c.reasoning[d] = rs.Text
			c.hasReason[d] = true
		}
	}
	return c
}

// Score returns the dimension's score and whether it was present.
func (c Canonical) Score(d Dimension) (float64, bool) {
	if d < 0 || int(d) >= DimensionCount {
		return 0, false
	}
	return c.scores[d], c.hasScore[d]
}

// Reasoning returns the dimension's reasoning text and whether it was
// present.
func (c Canonical) Reasoning(d Dimension) (string, bool) {
	if d < 0 || int(d) >= DimensionCount {
		return "", false
	}
	return c.reasoning[d], c.hasReason[d]
}

// Missing lists dimensions without a score.
func (c Canonical) Missing() []Dimension {
	var out []Dimension
	for _, d := range Dimensions {
		if !c.hasScore[d] {
			out = append(out, d)
		}
	}
	return out
}

// OverallScore is the sum of the five dimension scores divided by five,
// rounded to one decimal. Absent dimensions count as zero and stay in the
// divisor.
func OverallScore(c Canonical) float64 {
	var sum float64
	for _, d := range Dimensions {
		sum += c.scores[d]
	}
	return Round1(sum / float64(DimensionCount))
}

// Round1 rounds half away from zero to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

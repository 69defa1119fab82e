package scoring

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/empathiz/internal/analysis"
)

func parse(t *testing.T, raw string) *analysis.Result {
	t.Helper()
	r, err := analysis.ParseResult([]byte(raw))
	require.NoError(t, err)
	return r
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"self_awareness", "selfawareness"},
		{"Self-Awareness", "selfawareness"},
		{"selfAwareness", "selfawareness"},
		{"SELF AWARENESS", "selfawareness"},
		{"self__awareness-", "selfawareness"},
		{"decision_making", "decisionmaking"},
		{"Decision-Making", "decisionmaking"},
		{"self regulation", "selfregulation"},
		{"Empathy", "empathy"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeKey(tt.raw), tt.raw)
	}
}

// Every raw-key variant observed from the scoring backend.
func TestMatch_ObservedVariants(t *testing.T) {
	tests := []struct {
		raw  string
		want Dimension
	}{
		{"self_awareness", SelfAwareness},
		{"Self-Awareness", SelfAwareness},
		{"selfAwareness", SelfAwareness},
		{"self-awareness", SelfAwareness},
		{"empathy", Empathy},
		{"EMPATHY", Empathy},
		{"self_regulation", SelfRegulation},
		{"Self Regulation", SelfRegulation},
		{"selfRegulation", SelfRegulation},
		{"communication", Communication},
		{"Communication", Communication},
		{"decision_making", DecisionMaking},
		{"decisionMaking", DecisionMaking},
		{"Decision-Making", DecisionMaking},
	}
	for _, tt := range tests {
		d, ok := Match(tt.raw)
		require.True(t, ok, tt.raw)
		assert.Equal(t, tt.want, d, tt.raw)
	}

	for _, raw := range []string{"overall", "awareness", "self", "emotional_intelligence", "empathy2"} {
		_, ok := Match(raw)
		assert.False(t, ok, raw)
	}
}

func TestCanonicalize_LastVariantWins(t *testing.T) {
	r := parse(t, `{
		"scores": {"self_awareness": 2, "Self-Awareness": 5, "selfAwareness": 9},
		"reasoning": {"selfAwareness": "first", "self_awareness": "last"}
	}`)
	c := Canonicalize(r)

	v, ok := c.Score(SelfAwareness)
	require.True(t, ok)
	assert.Equal(t, 9.0, v)

	text, ok := c.Reasoning(SelfAwareness)
	require.True(t, ok)
	assert.Equal(t, "last", text)
}

func TestCanonicalize_AbsentIsNotZero(t *testing.T) {
	c := Canonicalize(parse(t, `{
		"scores": {"self_awareness": 0, "self_regulation": 7, "communication": 9, "decision_making": 5},
		"reasoning": {}
	}`))

	v, ok := c.Score(SelfAwareness)
	assert.True(t, ok)
	assert.Zero(t, v)

	_, ok = c.Score(Empathy)
	assert.False(t, ok)
	_, ok = c.Reasoning(Empathy)
	assert.False(t, ok)

	assert.Equal(t, []Dimension{Empathy}, c.Missing())
	// (0 + 0 + 7 + 9 + 5) / 5
	assert.Equal(t, 4.2, OverallScore(c))
}

func TestCanonicalize_Nil(t *testing.T) {
	c := Canonicalize(nil)
	assert.Len(t, c.Missing(), DimensionCount)
	assert.Zero(t, OverallScore(c))
}

func TestOverallScore_ScenarioGoodBand(t *testing.T) {
	c := Canonicalize(parse(t, `{
		"scores": {"self_awareness": 8, "empathy": 6, "self_regulation": 7, "communication": 9, "decision_making": 5},
		"reasoning": {}
	}`))

	overall := OverallScore(c)
	assert.Equal(t, 7.0, overall)
	assert.Equal(t, BandGood, BandOf(overall))
	assert.Equal(t, BandGood.Message(), OverallReasoning(overall))
}

func TestOverallScore_MatchesFormulaForRandomTuples(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 500; i++ {
		var s [DimensionCount]float64
		r := &analysis.Result{}
		for j, d := range Dimensions {
			// Mix integral and fractional scores across [0,10].
			s[j] = float64(rng.IntN(101)) / 10
			r.Scores = append(r.Scores, analysis.Score{Key: d.String(), Value: s[j]})
		}
		want := Round1((s[0] + s[1] + s[2] + s[3] + s[4]) / 5)
		assert.Equal(t, want, OverallScore(Canonicalize(r)), "tuple %v", s)
	}
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 7.0, Round1(7.04))
	assert.Equal(t, 7.1, Round1(7.06))
	assert.Equal(t, 6.6, Round1(6.56))
	assert.Equal(t, 0.0, Round1(0))
}

func TestBandOf_Thresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  Band
	}{
		{0, BandLow},
		{2.9, BandLow},
		{3.0, BandModerateLow},
		{5.9, BandModerateLow},
		{6.0, BandGood},
		{7.9, BandGood},
		{8.0, BandExcellent},
		{10, BandExcellent},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BandOf(tt.score), "score %.1f", tt.score)
	}

	seen := map[string]bool{}
	for _, b := range []Band{BandLow, BandModerateLow, BandGood, BandExcellent} {
		msg := b.Message()
		assert.NotEmpty(t, msg)
		assert.False(t, seen[msg], "band messages are distinct")
		seen[msg] = true
	}
}

func TestTierOf(t *testing.T) {
	tests := []struct {
		score   float64
		present bool
		want    Tier
	}{
		{0, false, TierNone},
		{0, true, TierPoor},
		{2, true, TierPoor},
		{2.5, true, TierFair},
		{5, true, TierFair},
		{7, true, TierGood},
		{8.5, true, TierGreat},
		{9, true, TierGreat},
		{9.5, true, TierPerfect},
		{10, true, TierPerfect},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierOf(tt.score, tt.present), "score %.1f present %v", tt.score, tt.present)
	}
}

func TestDimensionNames(t *testing.T) {
	assert.Equal(t, "self-awareness", SelfAwareness.String())
	assert.Equal(t, "Decision making", DecisionMaking.Label())
	assert.Equal(t, "unknown", Dimension(99).String())
}

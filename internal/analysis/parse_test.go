package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResult_KeepsPayloadOrder(t *testing.T) {
	raw := `{
		"scores": {"self_awareness": 8, "Empathy": 6.5, "self-awareness": 3},
		"reasoning": {"empathy": "You acknowledged her feelings.", "self_awareness": "You named your anger."},
		"overall": 9
	}`

	r, err := ParseResult([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, []Score{
		{Key: "self_awareness", Value: 8},
		{Key: "Empathy", Value: 6.5},
		{Key: "self-awareness", Value: 3},
	}, r.Scores)
	assert.Equal(t, []Reason{
		{Key: "empathy", Text: "You acknowledged her feelings."},
		{Key: "self_awareness", Text: "You named your anger."},
	}, r.Reasoning)
	assert.JSONEq(t, raw, string(r.Raw))
}

func TestParseResult_DuplicateRawKeyLastWins(t *testing.T) {
	r, err := ParseResult([]byte(`{"scores":{"empathy":2,"empathy":7},"reasoning":{}}`))
	require.NoError(t, err)

	v, ok := r.ScoreFor("empathy")
	require.True(t, ok)
	assert.Equal(t, 7.0, v)
	assert.Len(t, r.Scores, 2)

	_, ok = r.ScoreFor("communication")
	assert.False(t, ok)
}

func TestParseResult_EmptyMaps(t *testing.T) {
	r, err := ParseResult([]byte(`{"scores":{},"reasoning":{}}`))
	require.NoError(t, err)
	assert.Empty(t, r.Scores)
	assert.Empty(t, r.Reasoning)
}

func TestParseResult_RejectsMalformedPayloads(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `<html>oops</html>`},
		{"array", `[1,2,3]`},
		{"missing scores", `{"reasoning":{}}`},
		{"missing reasoning", `{"scores":{"empathy":5}}`},
		{"score not a number", `{"scores":{"empathy":"high"},"reasoning":{}}`},
		{"score above ten", `{"scores":{"empathy":10.5},"reasoning":{}}`},
		{"negative score", `{"scores":{"empathy":-1},"reasoning":{}}`},
		{"reasoning not text", `{"scores":{},"reasoning":{"empathy":["a"]}}`},
		{"scores null", `{"scores":null,"reasoning":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResult([]byte(tt.raw))
			var pe *PayloadError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.raw, string(pe.Raw))
		})
	}
}

func TestResult_MarshalJSONIsVerbatim(t *testing.T) {
	raw := `{"scores":{"Self-Awareness":4},"reasoning":{"Self-Awareness":"ok"}}`
	r, err := ParseResult([]byte(raw))
	require.NoError(t, err)

	out, err := r.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, raw, string(out))
}

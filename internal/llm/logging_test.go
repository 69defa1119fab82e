package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/empathiz/internal/store"
)

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	st, err := store.Open("file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"scores":{},"reasoning":{}}`), Usage: Usage{InputTokens: 40, OutputTokens: 12}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
	)
	p := WithLogging(mock, st.EventRepo(), nil)

	ctx := WithSessionID(WithPurpose(context.Background(), "answer-analysis"), "sess-9")
	req := Request{
		System:   "score it",
		Messages: []Message{{Role: RoleUser, Content: "I would apologize."}},
		Schema:   &Schema{Name: "answer-analysis", Definition: map[string]any{"type": "object"}},
	}
	_, err = p.Generate(ctx, req)
	require.NoError(t, err)
	_, err = p.Generate(ctx, req)
	require.Error(t, err)

	events, err := st.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)

	failed, ok := events[0], events[1]
	assert.False(t, failed.Success)
	assert.Contains(t, failed.ErrorMessage, "down")

	assert.True(t, ok.Success)
	assert.Equal(t, "answer-analysis", ok.Purpose)
	assert.Equal(t, "sess-9", ok.SessionID)
	assert.Equal(t, 40, ok.InputTokens)
	assert.Contains(t, ok.RequestBody, "[user]\nI would apologize.")
	assert.Contains(t, ok.RequestBody, "[schema: answer-analysis]")
	assert.JSONEq(t, `{"scores":{},"reasoning":{}}`, ok.ResponseBody)
}

func TestLoggingProvider_NilRepo(t *testing.T) {
	p := WithLogging(NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}), nil, nil)
	_, err := p.Generate(context.Background(), Request{})
	assert.NoError(t, err)
}

// pricedProvider answers as a model with known pricing.
type pricedProvider struct{}

func (pricedProvider) Generate(context.Context, Request) (*Response, error) {
	return &Response{
		Content: json.RawMessage(`{}`),
		Usage:   Usage{InputTokens: 1_000_000, OutputTokens: 200_000},
		Model:   "claude-haiku-4-5",
	}, nil
}

func (pricedProvider) ModelID() string { return "claude-haiku-4-5" }

func TestLoggingProvider_LogsPurposeSessionAndCost(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := WithLogging(pricedProvider{}, nil, zap.New(core))

	ctx := WithSessionID(WithPurpose(context.Background(), PurposeCoaching), "sess-3")
	_, err := p.Generate(ctx, Request{})
	require.NoError(t, err)

	entries := logs.FilterMessage("llm request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, PurposeCoaching, fields["purpose"])
	assert.Equal(t, "sess-3", fields["session_id"])
	assert.InDelta(t, 2.0, fields["cost_usd"], 1e-9) // 1M in at $1 + 200k out at $5
}

func TestLoggingProvider_UnpricedModelHasNoCost(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := WithLogging(NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}), nil, zap.New(core))

	_, err := p.Generate(WithPurpose(context.Background(), PurposeAnalysis), Request{})
	require.NoError(t, err)

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, PurposeAnalysis, fields["purpose"])
	assert.NotContains(t, fields, "cost_usd")
	assert.NotContains(t, fields, "session_id")
}

func TestEstimateCost(t *testing.T) {
	cost, ok := EstimateCost("gpt-4o-mini", 2_000_000, 1_000_000)
	assert.True(t, ok)
	assert.InDelta(t, 0.9, cost, 1e-9)

	_, ok = EstimateCost("mock", 10, 10)
	assert.False(t, ok)
}

package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/empathiz/internal/catalog"
	"github.com/abhisek/empathiz/internal/llm"
)

var testPrompt = catalog.Prompt{
	ID:       42,
	TopicID:  2,
	Context:  "A colleague takes credit for your idea in a meeting.",
	Question: "What do you do?",
}

func TestHTTPService_PostsSituationAndAnswer(t *testing.T) {
	var got analyzeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/analyze", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Write([]byte(`{"scores":{"empathy":6},"reasoning":{"empathy":"fair"}}`))
	}))
	defer srv.Close()

	svc := NewHTTPService(srv.URL+"/", srv.Client())
	r, err := svc.Analyze(context.Background(), testPrompt, "I talk to them privately.")
	require.NoError(t, err)

	assert.Equal(t, analyzeRequest{SituationID: 42, AnswerText: "I talk to them privately."}, got)
	assert.Equal(t, []Score{{Key: "empathy", Value: 6}}, r.Scores)
}

func TestHTTPService_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPService(srv.URL, nil).Analyze(context.Background(), testPrompt, "answer")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.Code)
	assert.Contains(t, se.Error(), "model overloaded")
}

func TestHTTPService_MalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"score":{"empathy":6}}`))
	}))
	defer srv.Close()

	_, err := NewHTTPService(srv.URL, nil).Analyze(context.Background(), testPrompt, "answer")
	var pe *PayloadError
	assert.ErrorAs(t, err, &pe)
}

func TestHTTPService_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHTTPService(srv.URL, nil).Analyze(ctx, testPrompt, "answer")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLLMService_BuildsRequestAndParses(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{
		"scores": {"self_awareness": 7, "empathy": 8, "self_regulation": 6, "communication": 9, "decision_making": 7},
		"reasoning": {"self_awareness": "a", "empathy": "b", "self_regulation": "c", "communication": "d", "decision_making": "e"}
	}`)})
	svc := NewLLMService(mock, DefaultLLMConfig())

	r, err := svc.Analyze(context.Background(), testPrompt, "I would ask to talk after the meeting.")
	require.NoError(t, err)
	assert.Len(t, r.Scores, 5)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Equal(t, llm.PurposeAnalysis, mock.LastPurpose())
	assert.Equal(t, AnswerAnalysisSchema, req.Schema)
	assert.Contains(t, req.Messages[0].Content, "Situation: A colleague takes credit")
	assert.Contains(t, req.Messages[0].Content, "I would ask to talk after the meeting.")
}

func TestLLMService_SingleAttemptThroughRetry(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
		llm.MockResponse{Content: json.RawMessage(`{"scores":{},"reasoning":{}}`)},
	)
	p := llm.WithRetry(mock, llm.RetryConfig{MaxAttempts: 3, Multiplier: 1})

	_, err := NewLLMService(p, DefaultLLMConfig()).Analyze(context.Background(), testPrompt, "x")
	require.Error(t, err)
	assert.Equal(t, 1, mock.CallCount())
}

func TestLLMService_InvalidResponseIsPayloadError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrInvalidResponse{Content: json.RawMessage(`{}`), Err: errors.New("missing scores")},
	})

	_, err := NewLLMService(mock, DefaultLLMConfig()).Analyze(context.Background(), testPrompt, "x")
	var pe *PayloadError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Error(), "missing scores")
}

func TestAnswerAnalysisSchemaSatisfiesPayloadSchema(t *testing.T) {
	raw := json.RawMessage(`{
		"scores": {"self_awareness": 1, "empathy": 2, "self_regulation": 3, "communication": 4, "decision_making": 5},
		"reasoning": {"self_awareness": "a", "empathy": "b", "self_regulation": "c", "communication": "d", "decision_making": "e"}
	}`)
	require.NoError(t, llm.Validate(AnswerAnalysisSchema, raw))
	require.NoError(t, llm.Validate(PayloadSchema, raw))

	assert.Error(t, llm.Validate(AnswerAnalysisSchema, json.RawMessage(`{"scores":{"empathy":2},"reasoning":{}}`)))
}

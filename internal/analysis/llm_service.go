package analysis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/template"

	"github.com/abhisek/empathiz/internal/catalog"
	"github.com/abhisek/empathiz/internal/llm"
)

// LLMConfig holds generation settings for LLM scoring.
type LLMConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultLLMConfig returns sensible defaults.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		MaxTokens:   768,
		Temperature: 0.2,
	}
}

// LLMService scores answers with an LLM provider instead of the EQ backend.
// Requests are single-shot even when the provider is wrapped with retries.
type LLMService struct {
	provider llm.Provider
	cfg      LLMConfig
}

// NewLLMService creates an LLM-backed analysis service.
func NewLLMService(provider llm.Provider, cfg LLMConfig) *LLMService {
	return &LLMService{provider: provider, cfg: cfg}
}

func (s *LLMService) Analyze(ctx context.Context, prompt catalog.Prompt, answer string) (*Result, error) {
	ctx = llm.WithoutRetry(llm.WithPurpose(ctx, llm.PurposeAnalysis))

	userMsg, err := buildAnalysisMessage(prompt, answer)
	if err != nil {
		return nil, fmt.Errorf("build analysis prompt: %w", err)
	}

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      analysisSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: userMsg}},
		Schema:      AnswerAnalysisSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		var inv *llm.ErrInvalidResponse
		if errors.As(err, &inv) {
			return nil, &PayloadError{Raw: inv.Content, Err: inv.Err}
		}
		return nil, fmt.Errorf("LLM analysis failed: %w", err)
	}

	return ParseResult(resp.Content)
}

const analysisSystemPrompt = `You assess emotional intelligence from a person's written response to a realistic situation.

Score the response from 0 to 10 on each dimension:
- self_awareness: recognizes their own emotions and how those emotions shape their reaction.
- empathy: understands and acknowledges the feelings and perspective of others involved.
- self_regulation: manages impulses and strong feelings; responds rather than reacts.
- communication: expresses needs and feelings clearly and respectfully.
- decision_making: chooses a constructive, considered course of action.

Instructions:
- Judge only what the response says. Do not reward length.
- An empty, evasive, or off-topic response scores low on every dimension.
- For each dimension give one sentence of reasoning addressed to the person ("you").`

var analysisUserTemplate = template.Must(template.New("analysis").Parse(`Situation: {{.Context}}
Question: {{.Question}}

Response:
{{.Answer}}`))

func buildAnalysisMessage(prompt catalog.Prompt, answer string) (string, error) {
	var buf bytes.Buffer
	err := analysisUserTemplate.Execute(&buf, struct {
		Context, Question, Answer string
	}{prompt.Context, prompt.Question, answer})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Package coaching writes a short personal narrative for a finished test.
package coaching

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/empathiz/internal/llm"
	"github.com/abhisek/empathiz/internal/review"
)

// Config holds narrative generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults for narrative generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   384,
		Temperature: 0.6,
	}
}

// Narrative is the generated coaching text.
type Narrative struct {
	Summary string `json:"summary"`
	Focus   string `json:"focus"`
}

// String joins the summary and the focus tip into one paragraph.
func (n *Narrative) String() string {
	if n == nil {
		return ""
	}
	if n.Focus == "" {
		return n.Summary
	}
	return n.Summary + " " + n.Focus
}

// Service generates coaching narratives.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a coaching service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Generate asks the provider for a narrative about rep. Callers treat an
// error as "no narrative"; the report is complete without one.
func (s *Service) Generate(ctx context.Context, rep *review.Report) (*Narrative, error) {
	ctx = llm.WithSessionID(llm.WithPurpose(ctx, llm.PurposeCoaching), rep.SessionID)

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      coachingSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildCoachingUserMessage(rep)}},
		Schema:      NarrativeSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("coaching generation: %w", err)
	}

	var out Narrative
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse coaching response: %w", err)
	}
	out.Summary = strings.TrimSpace(out.Summary)
	out.Focus = strings.TrimSpace(out.Focus)
	return &out, nil
}

// NarrativeSchema defines the JSON schema for the coaching narrative.
var NarrativeSchema = &llm.Schema{
	Name:        "coaching-narrative",
	Description: "Short personal coaching feedback on an emotional intelligence test",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "2-3 sentences on how the person handled the situations, addressed as \"you\"",
			},
			"focus": map[string]any{
				"type":        "string",
				"description": "One concrete thing to practice next, in one sentence",
			},
		},
		"required":             []any{"summary", "focus"},
		"additionalProperties": false,
	},
}

const coachingSystemPrompt = `You are a warm, direct emotional intelligence coach. You have just read someone's answers to a short set of realistic situations and the scores they received. Write brief, specific feedback. Never mention scores as numbers.`

func buildCoachingUserMessage(rep *review.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", rep.TopicName)
	fmt.Fprintf(&b, "Overall: %s\n", rep.Band)

	b.WriteString("\nDimension averages (0-10):\n")
	for _, a := range rep.Averages {
		if a.Samples == 0 {
			fmt.Fprintf(&b, "- %s: not scored\n", a.Label)
			continue
		}
		fmt.Fprintf(&b, "- %s: %.1f\n", a.Label, a.Average)
	}

	b.WriteString("\nSituations:\n")
	for _, p := range rep.Prompts {
		fmt.Fprintf(&b, "%d. %s\n   Answer: %s\n", p.PromptIndex+1, p.Context, p.Answer)
	}

	if weak, ok := rep.Weakest(); ok {
		fmt.Fprintf(&b, "\nWeakest area: %s\n", weak.Label)
	}

	b.WriteString(`
Instructions:
1. Summarize in 2-3 sentences what the answers show about how this person handles emotions. Refer to at least one situation.
2. Give one concrete focus for practice, tied to the weakest area.
3. Plain text only. No lists, no headings.`)

	return b.String()
}

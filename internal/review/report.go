// Package review builds the end-of-test report and hands it to consumers.
package review

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/abhisek/empathiz/internal/catalog"
	"github.com/abhisek/empathiz/internal/scoring"
	"github.com/abhisek/empathiz/internal/session"
)

// ErrReviewLocked is returned while some prompt still has no result.
var ErrReviewLocked = errors.New("review locked: every prompt needs a result")

// DimensionScore is one canonical dimension of a prompt's result.
type DimensionScore struct {
	Dimension string  `json:"dimension"`
	Label     string  `json:"label"`
	Score     float64 `json:"score"`
	Present   bool    `json:"present"`
	Reasoning string  `json:"reasoning,omitempty"`
}

// PromptReport is the reconciled result of one prompt.
type PromptReport struct {
	PromptIndex int              `json:"prompt_index"`
	PromptID    int64            `json:"prompt_id"`
	Context     string           `json:"context"`
	Question    string           `json:"question"`
	Answer      string           `json:"answer"`
	Dimensions  []DimensionScore `json:"dimensions"`
	Overall     float64          `json:"overall"`
	Band        string           `json:"band"`
	Feedback    string           `json:"feedback"`
}

// DimensionAverage is a dimension's mean over the prompts that scored it.
type DimensionAverage struct {
	Dimension string  `json:"dimension"`
	Label     string  `json:"label"`
	Average   float64 `json:"average"`
	Samples   int     `json:"samples"`
}

// Report summarizes a completed test.
type Report struct {
	ID        string             `json:"id"`
	SessionID string             `json:"session_id"`
	TopicID   int64              `json:"topic_id"`
	TopicName string             `json:"topic_name"`
	CreatedAt time.Time          `json:"created_at"`
	Duration  time.Duration      `json:"duration"`
	Prompts   []PromptReport     `json:"prompts"`
	Averages  []DimensionAverage `json:"averages"`
	Overall   float64            `json:"overall"`
	Band      string             `json:"band"`
	Feedback  string             `json:"feedback"`
	Coaching  string             `json:"coaching,omitempty"`
}

// BuildReport reconciles every stored result of s. It fails with
// ErrReviewLocked unless every prompt has a result.
func BuildReport(s *session.Session, topic catalog.Topic) (*Report, error) {
	if !s.CanReview() {
		return nil, ErrReviewLocked
	}

	results := s.Results()
	prompts := lo.Map(results, func(pr session.PromptResult, _ int) PromptReport {
		return promptReport(pr)
	})

	averages := make([]DimensionAverage, 0, scoring.DimensionCount)
	for i, d := range scoring.Dimensions {
		present := lo.Filter(prompts, func(p PromptReport, _ int) bool {
			return p.Dimensions[i].Present
		})
		avg := DimensionAverage{Dimension: d.String(), Label: d.Label(), Samples: len(present)}
		if len(present) > 0 {
			sum := lo.SumBy(present, func(p PromptReport) float64 { return p.Dimensions[i].Score })
			avg.Average = scoring.Round1(sum / float64(len(present)))
		}
		averages = append(averages, avg)
	}

	overall := scoring.Round1(lo.SumBy(prompts, func(p PromptReport) float64 {
		return p.Overall
	}) / float64(len(prompts)))
	band := scoring.BandOf(overall)

	now := time.Now().UTC()
	return &Report{
		ID:        uuid.NewString(),
		SessionID: s.ID(),
		TopicID:   s.TopicID(),
		TopicName: topic.Name,
		CreatedAt: now,
		Duration:  now.Sub(s.StartedAt()).Round(time.Second),
		Prompts:   prompts,
		Averages:  averages,
		Overall:   overall,
		Band:      band.String(),
		Feedback:  band.Message(),
	}, nil
}

func promptReport(pr session.PromptResult) PromptReport {
	c := scoring.Canonicalize(pr.Result)
	dims := make([]DimensionScore, 0, scoring.DimensionCount)
	for _, d := range scoring.Dimensions {
		score, ok := c.Score(d)
		reason, _ := c.Reasoning(d)
		dims = append(dims, DimensionScore{
			Dimension: d.String(),
			Label:     d.Label(),
			Score:     score,
			Present:   ok,
			Reasoning: reason,
		})
	}
	overall := scoring.OverallScore(c)
	return PromptReport{
		PromptIndex: pr.PromptIndex,
		PromptID:    pr.Prompt.ID,
		Context:     pr.Prompt.Context,
		Question:    pr.Prompt.Question,
		Answer:      pr.Answer,
		Dimensions:  dims,
		Overall:     overall,
		Band:        scoring.BandOf(overall).String(),
		Feedback:    scoring.OverallReasoning(overall),
	}
}

// Weakest returns the dimension with the lowest average among those scored
// at least once, and false when nothing was scored.
func (r *Report) Weakest() (DimensionAverage, bool) {
	scored := lo.Filter(r.Averages, func(a DimensionAverage, _ int) bool { return a.Samples > 0 })
	if len(scored) == 0 {
		return DimensionAverage{}, false
	}
	return lo.MinBy(scored, func(a, b DimensionAverage) bool { return a.Average < b.Average }), true
}

// Strongest returns the dimension with the highest average among those
// scored at least once.
func (r *Report) Strongest() (DimensionAverage, bool) {
	scored := lo.Filter(r.Averages, func(a DimensionAverage, _ int) bool { return a.Samples > 0 })
	if len(scored) == 0 {
		return DimensionAverage{}, false
	}
	return lo.MaxBy(scored, func(a, b DimensionAverage) bool { return a.Average > b.Average }), true
}

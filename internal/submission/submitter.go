// Package submission sends a prompt's answer to the analysis service and
// stores the outcome in the owning session.
package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/empathiz/internal/analysis"
	"github.com/abhisek/empathiz/internal/logging"
	"github.com/abhisek/empathiz/internal/session"
	"github.com/abhisek/empathiz/internal/store"
)

var (
	// ErrEmptyAnswer is returned when the answer is blank after trimming.
	ErrEmptyAnswer = errors.New("answer is empty")

	// ErrPending is returned when a submission for the same prompt is still
	// in flight. Callers treat it as a no-op.
	ErrPending = errors.New("submission already pending")
)

// SubmissionError wraps a failed analysis call. The answer stays stored and
// the result slot is left as it was.
type SubmissionError struct {
	PromptIndex int
	Err         error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submit answer for prompt %d: %v", e.PromptIndex+1, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// Submitter runs submissions for one session. At most one submission per
// prompt is in flight; different prompts may be submitted concurrently.
type Submitter struct {
	sess   *session.Session
	svc    analysis.Service
	events store.EventRepo
	log    *zap.Logger

	mu      sync.Mutex
	pending map[int]bool
}

// New creates a Submitter. events and log may be nil.
func New(sess *session.Session, svc analysis.Service, events store.EventRepo, log *zap.Logger) *Submitter {
	return &Submitter{
		sess:    sess,
		svc:     svc,
		events:  events,
		log:     logging.OrNop(log).Named("submission"),
		pending: make(map[int]bool),
	}
}

// Pending reports whether a submission for promptIndex is in flight.
func (s *Submitter) Pending(promptIndex int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[promptIndex]
}

// Submit stores text as the answer for promptIndex and asks the analysis
// service to score it. On success the raw result is written into the
// prompt's result slot. The slot is addressed by prompt index, so a
// completion arriving after the user navigated away still lands in the
// right place. No timeout is applied beyond ctx.
func (s *Submitter) Submit(ctx context.Context, promptIndex int, text string) (*analysis.Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyAnswer
	}
	prompt, err := s.sess.Prompt(promptIndex)
	if err != nil {
		return nil, err
	}
	if !s.acquire(promptIndex) {
		return nil, ErrPending
	}
	defer s.release(promptIndex)

	if err := s.sess.StoreAnswer(promptIndex, text); err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := s.svc.Analyze(ctx, prompt, text)
	latency := time.Since(start)

	if err == nil {
		err = s.sess.RecordResult(promptIndex, res)
	}

	ev := store.AnswerEventData{
		SessionID:   s.sess.ID(),
		TopicID:     s.sess.TopicID(),
		PromptID:    prompt.ID,
		PromptIndex: promptIndex,
		AnswerText:  text,
		Success:     err == nil,
		LatencyMs:   latency.Milliseconds(),
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	} else {
		ev.Result = string(res.Raw)
	}
	s.record(ev)

	if err != nil {
		s.log.Warn("analysis failed",
			zap.String("session_id", s.sess.ID()),
			zap.Int("prompt_index", promptIndex),
			zap.Duration("latency", latency),
			zap.Error(err),
		)
		return nil, &SubmissionError{PromptIndex: promptIndex, Err: err}
	}

	s.log.Info("answer analyzed",
		zap.String("session_id", s.sess.ID()),
		zap.Int("prompt_index", promptIndex),
		zap.Int("score_keys", len(res.Scores)),
		zap.Duration("latency", latency),
	)
	return res, nil
}

func (s *Submitter) acquire(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[i] {
		return false
	}
	s.pending[i] = true
	return true
}

func (s *Submitter) release(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, i)
}

// record appends the outcome to the event log. The submission's own context
// may already be canceled, so the write gets a short detached one.
func (s *Submitter) record(ev store.AnswerEventData) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.events.AppendAnswerEvent(ctx, ev); err != nil {
		s.log.Warn("record answer event", zap.Error(err))
	}
}

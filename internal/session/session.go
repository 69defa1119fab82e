// Package session owns the slot sequence of one EQ test: an interleaved
// list of prompt and result slots followed by a single review slot, plus
// the navigation position and the user's answers.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/abhisek/empathiz/internal/analysis"
	"github.com/abhisek/empathiz/internal/catalog"
)

// Direction is a navigation direction.
type Direction int

const (
	Forward Direction = iota
	Backward
)

var (
	// ErrPromptIndex is returned for a prompt index outside [0, N).
	ErrPromptIndex = errors.New("prompt index out of range")

	// ErrNoResult is returned when jumping to a result slot that is empty.
	ErrNoResult = errors.New("no result for prompt")
)

// Session is one test run over a topic's prompts. It is safe for concurrent
// use; every method takes the session lock.
type Session struct {
	mu sync.RWMutex

	id        string
	topicID   int64
	prompts   []catalog.Prompt
	answers   []string
	answered  []bool
	slots     []Slot
	position  int
	startedAt time.Time
}

// New starts a session over prompts, positioned on the first slot.
func New(topicID int64, prompts []catalog.Prompt) *Session {
	n := len(prompts)
	return &Session{
		id:        uuid.NewString(),
		topicID:   topicID,
		prompts:   append([]catalog.Prompt(nil), prompts...),
		answers:   make([]string, n),
		answered:  make([]bool, n),
		slots:     Build(n),
		startedAt: time.Now(),
	}
}

// ID returns the session's UUID.
func (s *Session) ID() string { return s.id }

// TopicID returns the topic the session was built for.
func (s *Session) TopicID() int64 { return s.topicID }

// StartedAt returns when the session was created.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// PromptCount returns N.
func (s *Session) PromptCount() int { return len(s.prompts) }

// Len returns the sequence length, always 2N+1.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}

// Position returns the current sequence position.
func (s *Session) Position() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.position
}

// SlotAt returns the slot at pos.
func (s *Session) SlotAt(pos int) (Slot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if pos < 0 || pos >= len(s.slots) {
		return Slot{}, false
	}
	return s.slots[pos], true
}

// Prompt returns prompt i.
func (s *Session) Prompt(i int) (catalog.Prompt, error) {
	if err := s.checkIndex(i); err != nil {
		return catalog.Prompt{}, err
	}
	return s.prompts[i], nil
}

// Answer returns the stored answer for prompt i and whether one exists.
func (s *Session) Answer(i int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.prompts) {
		return "", false
	}
	return s.answers[i], s.answered[i]
}

// Advance moves one step in dir, then keeps going past empty result slots.
// If no reachable slot exists before the boundary the position is left
// unchanged and Advance returns false.
func (s *Session) Advance(dir Direction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	step := 1
	if dir == Backward {
		step = -1
	}
	for pos := s.position + step; pos >= 0 && pos < len(s.slots); pos += step {
		if s.slots[pos].Reachable() {
			s.position = pos
			return true
		}
	}
	return false
}

// StoreAnswer records the answer text for prompt i, replacing any earlier
// answer.
func (s *Session) StoreAnswer(i int, text string) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[i] = text
	s.answered[i] = true
	return nil
}

// RecordResult fills ResultSlot(i), replacing any earlier result. No other
// slot and not the position is touched.
func (s *Session) RecordResult(i int, r *analysis.Result) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("record result for prompt %d: nil result", i)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[ResultPosition(i)].Result = r
	return nil
}

// ShowResult moves the position to ResultSlot(i), which must be filled.
func (s *Session) ShowResult(i int) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	pos := ResultPosition(i)
	if !s.slots[pos].Filled() {
		return fmt.Errorf("%w %d", ErrNoResult, i)
	}
	s.position = pos
	return nil
}

// ShowPrompt moves the position to PromptSlot(i).
func (s *Session) ShowPrompt(i int) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position = PromptPosition(i)
	return nil
}

// Answered returns how many result slots are filled.
func (s *Session) Answered() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.CountBy(s.slots, func(sl Slot) bool { return sl.Filled() })
}

// CanReview reports whether every result slot is filled. A session with no
// prompts has nothing to review. Navigating onto the review slot is always
// allowed; only the review action is gated.
func (s *Session) CanReview() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.prompts) == 0 {
		return false
	}
	return lo.EveryBy(s.slots, func(sl Slot) bool {
		return sl.Kind != KindResult || sl.Result != nil
	})
}

func (s *Session) checkIndex(i int) error {
	if i < 0 || i >= len(s.prompts) {
		return fmt.Errorf("%w: %d (have %d)", ErrPromptIndex, i, len(s.prompts))
	}
	return nil
}

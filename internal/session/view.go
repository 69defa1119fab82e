package session

import (
	"github.com/abhisek/empathiz/internal/analysis"
	"github.com/abhisek/empathiz/internal/catalog"
)

// View is the current slot with the data a screen needs to render it.
// Prompt slots carry the prompt and any stored answer; result slots carry
// the prompt and the result; the review slot carries nothing extra.
type View struct {
	Slot      Slot
	Position  int
	Prompt    *catalog.Prompt
	Answer    string
	HasAnswer bool
	Result    *analysis.Result
}

// CurrentSlot resolves the slot at the current position.
func (s *Session) CurrentSlot() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slot := s.slots[s.position]
	v := View{Slot: slot, Position: s.position}

	switch slot.Kind {
	case KindPrompt:
		p := s.prompts[slot.PromptIndex]
		v.Prompt = &p
		v.Answer = s.answers[slot.PromptIndex]
		v.HasAnswer = s.answered[slot.PromptIndex]
	case KindResult:
		p := s.prompts[slot.PromptIndex]
		v.Prompt = &p
		v.Result = slot.Result
	}
	return v
}

// PromptResult pairs a prompt with its answer and stored result.
type PromptResult struct {
	PromptIndex int
	Prompt      catalog.Prompt
	Answer      string
	Result      *analysis.Result
}

// Results returns every filled result in prompt order.
func (s *Session) Results() []PromptResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []PromptResult
	for i := range s.prompts {
		r := s.slots[ResultPosition(i)].Result
		if r == nil {
			continue
		}
		out = append(out, PromptResult{
			PromptIndex: i,
			Prompt:      s.prompts[i],
			Answer:      s.answers[i],
			Result:      r,
		})
	}
	return out
}

package session

import "github.com/abhisek/empathiz/internal/analysis"

// Kind tags a Slot variant.
type Kind int

const (
	KindPrompt Kind = iota
	KindResult
	KindReview
)

func (k Kind) String() string {
	switch k {
	case KindPrompt:
		return "prompt"
	case KindResult:
		return "result"
	case KindReview:
		return "review"
	}
	return "unknown"
}

// Slot is one position in a session sequence. PromptIndex is meaningful for
// prompt and result slots. Result is set only on filled result slots.
type Slot struct {
	Kind        Kind
	PromptIndex int
	Result      *analysis.Result
}

// Filled reports whether a result slot holds a result.
func (s Slot) Filled() bool {
	return s.Kind == KindResult && s.Result != nil
}

// Reachable reports whether navigation may stop on s. Only empty result
// slots are unreachable.
func (s Slot) Reachable() bool {
	return s.Kind != KindResult || s.Result != nil
}

// Build lays out n prompts as Prompt(0), Result(0), ..., Prompt(n-1),
// Result(n-1), Review: 2n+1 slots with every result empty.
func Build(n int) []Slot {
	if n < 0 {
		n = 0
	}
	slots := make([]Slot, 0, 2*n+1)
	for i := 0; i < n; i++ {
		slots = append(slots,
			Slot{Kind: KindPrompt, PromptIndex: i},
			Slot{Kind: KindResult, PromptIndex: i},
		)
	}
	return append(slots, Slot{Kind: KindReview, PromptIndex: -1})
}

// PromptPosition is the sequence position of PromptSlot(i).
func PromptPosition(i int) int { return 2 * i }

// ResultPosition is the sequence position of ResultSlot(i).
func ResultPosition(i int) int { return 2*i + 1 }

// Package analysis is the boundary to the collaborator that scores a
// free-text answer. Every payload is validated against PayloadSchema
// before it reaches the rest of the system.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/empathiz/internal/catalog"
)

// Service scores one answer to one prompt. Implementations make a single
// attempt; retrying is left to the user.
type Service interface {
	Analyze(ctx context.Context, prompt catalog.Prompt, answer string) (*Result, error)
}

// Score is one raw score entry as it appeared in the payload.
type Score struct {
	Key   string
	Value float64
}

// Reason is one raw reasoning entry as it appeared in the payload.
type Reason struct {
	Key  string
	Text string
}

// Result is an analysis payload with raw keys in payload order. Keys are
// not canonicalized here; see package scoring.
type Result struct {
	Scores    []Score
	Reasoning []Reason
	Raw       json.RawMessage
}

// ScoreFor returns the last score recorded under exactly key.
func (r *Result) ScoreFor(key string) (float64, bool) {
	for i := len(r.Scores) - 1; i >= 0; i-- {
		if r.Scores[i].Key == key {
			return r.Scores[i].Value, true
		}
	}
	return 0, false
}

// MarshalJSON emits the verbatim payload.
func (r *Result) MarshalJSON() ([]byte, error) {
	if len(r.Raw) == 0 {
		return []byte("null"), nil
	}
	return r.Raw, nil
}

// PayloadError reports a response that is not valid JSON or does not match
// PayloadSchema.
type PayloadError struct {
	Raw json.RawMessage
	Err error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("malformed analysis payload: %v", e.Err)
}

func (e *PayloadError) Unwrap() error { return e.Err }

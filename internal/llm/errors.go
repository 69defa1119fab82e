package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the LLM returned content that does not
// conform to the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// Describe returns a short sentence for an LLM failure suitable for showing
// to the person taking the test. ok is false when err carries none of the
// provider error types.
func Describe(err error) (msg string, ok bool) {
	var (
		rl      *ErrRateLimit
		inv     *ErrInvalidResponse
		maxTok  *ErrMaxTokensExceeded
		unavail *ErrProviderUnavailable
	)
	switch {
	case errors.As(err, &rl):
		return "The scoring model is busy right now.", true
	case errors.As(err, &inv):
		return "The scoring model returned scores that could not be read.", true
	case errors.As(err, &maxTok):
		return "The scoring model's reply was cut short.", true
	case errors.As(err, &unavail):
		return "The scoring model could not be reached.", true
	}
	return "", false
}

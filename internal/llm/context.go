package llm

import "context"

type contextKey string

// Request purposes recorded on LLM events.
const (
	PurposeAnalysis = "answer-analysis"
	PurposeCoaching = "coaching"
)

const (
	purposeKey contextKey = "llm_purpose"
	noRetryKey contextKey = "llm_no_retry"
	sessionKey contextKey = "llm_session"
)

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithoutRetry marks a request as single-shot. RetryProvider makes exactly
// one attempt for such requests.
func WithoutRetry(ctx context.Context) context.Context {
	return context.WithValue(ctx, noRetryKey, true)
}

// RetryDisabled reports whether WithoutRetry was applied to ctx.
func RetryDisabled(ctx context.Context) bool {
	v, _ := ctx.Value(noRetryKey).(bool)
	return v
}

// WithSessionID tags the request with the test session it belongs to.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey, id)
}

// SessionIDFrom returns the session tag, or "" when none was set.
func SessionIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(sessionKey).(string)
	return v
}

package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	After     int64     // sequence > After
	Before    int64     // sequence < Before
	From      time.Time // timestamp >= From
	To        time.Time // timestamp <= To
	Purpose   string    // LLM events only
	SessionID string
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	SessionID    string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage for one purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// AnswerEventData records one submission outcome.
type AnswerEventData struct {
	SessionID    string
	TopicID      int64
	PromptID     int64
	PromptIndex  int
	AnswerText   string
	Success      bool
	ErrorMessage string
	Result       string // verbatim analysis payload on success
	LatencyMs    int64
}

// AnswerEventRecord is a stored submission outcome.
type AnswerEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AnswerEventData
}

// Session lifecycle actions.
const (
	SessionStarted   = "start"
	SessionReviewed  = "review"
	SessionAbandoned = "abandon"
)

// SessionEventData records a session lifecycle transition.
type SessionEventData struct {
	SessionID    string
	Action       string
	TopicID      int64
	PromptCount  int
	Answered     int
	DurationSecs int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendAnswerEvent records a submission outcome.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// AppendSessionEvent records a session lifecycle transition.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	// LLMUsageByPurpose aggregates usage per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)

	// QueryAnswerEvents returns submission outcomes in sequence order.
	QueryAnswerEvents(ctx context.Context, opts QueryOpts) ([]AnswerEventRecord, error)
}

// TopicRecord is a stored catalog topic.
type TopicRecord struct {
	ID          int64
	Name        string
	Description string
}

// PromptRecord is a stored catalog prompt. Position orders prompts within
// a topic.
type PromptRecord struct {
	ID       int64
	TopicID  int64
	Position int
	Context  string
	Question string
	ImageURL string
}

// CatalogRepo stores the local topic/prompt catalog.
type CatalogRepo interface {
	// InsertTopic stores a topic and its prompts, assigning positions in
	// slice order. Returns the new topic ID.
	InsertTopic(ctx context.Context, topic TopicRecord, prompts []PromptRecord) (int64, error)

	// Topics returns every topic ordered by ID.
	Topics(ctx context.Context) ([]TopicRecord, error)

	// Prompts returns a topic's prompts ordered by position.
	Prompts(ctx context.Context, topicID int64) ([]PromptRecord, error)

	// CountTopics returns the number of stored topics.
	CountTopics(ctx context.Context) (int, error)
}

// ReviewRecord is a completed test report.
type ReviewRecord struct {
	ID           string
	SessionID    string
	TopicID      int64
	TopicName    string
	PromptCount  int
	OverallScore float64
	Report       []byte // JSON-encoded report
	CreatedAt    time.Time
}

// ReviewRepo stores completed test reports.
type ReviewRepo interface {
	// Save stores a report. Saving a second report for the same session
	// replaces the first.
	Save(ctx context.Context, r ReviewRecord) error

	// List returns reports, newest first. limit <= 0 means unlimited.
	List(ctx context.Context, limit int) ([]ReviewRecord, error)

	// Get returns a report by ID or ID prefix, or nil if none matches.
	Get(ctx context.Context, id string) (*ReviewRecord, error)
}

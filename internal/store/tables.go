package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the repositories.
const (
	tableTopics      = "topics"
	tablePrompts     = "prompts"
	tableLLMEvents   = "llm_request_events"
	tableAnswers     = "answer_events"
	tableSessions    = "session_events"
	tableReviews     = "reviews"
	colID            = "id"
	colSequence      = "sequence"
	colTimestamp     = "timestamp"
	colSessionID     = "session_id"
	colTopicID       = "topic_id"
	colPosition      = "position"
	colPurpose       = "purpose"
	colModel         = "model"
	colSuccess       = "success"
	colInputTokens   = "input_tokens"
	colOutputTokens  = "output_tokens"
	colLatencyMs     = "latency_ms"
	colCreatedAt     = "created_at"
	colOverall       = "overall_score"
	colPromptCount   = "prompt_count"
	colTopicName     = "topic_name"
	colReportPayload = "report"
)

// eventColumns returns the sequence/timestamp pair every event table
// starts with, after its primary key.
func eventColumns() []*schema.Column {
	return []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colSequence, Type: field.TypeInt64, Unique: true},
		{Name: colTimestamp, Type: field.TypeTime},
	}
}

func eventIndexes(table string, cols []*schema.Column) []*schema.Index {
	return []*schema.Index{
		{Name: table + "_sequence", Columns: []*schema.Column{cols[1]}},
		{Name: table + "_timestamp", Columns: []*schema.Column{cols[2]}},
	}
}

var (
	topicsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt64, Increment: true},
		{Name: "name", Type: field.TypeString, Unique: true},
		{Name: "description", Type: field.TypeString, Default: ""},
	}
	topicsTable = &schema.Table{
		Name:       tableTopics,
		Columns:    topicsColumns,
		PrimaryKey: []*schema.Column{topicsColumns[0]},
	}

	promptsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt64, Increment: true},
		{Name: colPosition, Type: field.TypeInt},
		{Name: "context", Type: field.TypeString, Size: 4096},
		{Name: "question", Type: field.TypeString, Size: 2048},
		{Name: "image_url", Type: field.TypeString, Default: ""},
		{Name: colTopicID, Type: field.TypeInt64},
	}
	promptsTable = &schema.Table{
		Name:       tablePrompts,
		Columns:    promptsColumns,
		PrimaryKey: []*schema.Column{promptsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "prompts_topics_prompts",
				Columns:    []*schema.Column{promptsColumns[5]},
				RefColumns: []*schema.Column{topicsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "prompt_topic_position", Unique: true, Columns: []*schema.Column{promptsColumns[5], promptsColumns[1]}},
		},
	}

	llmEventsColumns = append(eventColumns(),
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: colModel, Type: field.TypeString},
		&schema.Column{Name: colPurpose, Type: field.TypeString},
		&schema.Column{Name: colSessionID, Type: field.TypeString, Default: ""},
		&schema.Column{Name: colInputTokens, Type: field.TypeInt, Default: 0},
		&schema.Column{Name: colOutputTokens, Type: field.TypeInt, Default: 0},
		&schema.Column{Name: colLatencyMs, Type: field.TypeInt64, Default: 0},
		&schema.Column{Name: colSuccess, Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "request_body", Type: field.TypeString, Size: 1 << 20, Default: ""},
		&schema.Column{Name: "response_body", Type: field.TypeString, Size: 1 << 20, Default: ""},
	)
	llmEventsTable = &schema.Table{
		Name:       tableLLMEvents,
		Columns:    llmEventsColumns,
		PrimaryKey: []*schema.Column{llmEventsColumns[0]},
		Indexes: append(eventIndexes(tableLLMEvents, llmEventsColumns),
			&schema.Index{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmEventsColumns[5]}},
		),
	}

	answerEventsColumns = append(eventColumns(),
		&schema.Column{Name: colSessionID, Type: field.TypeString},
		&schema.Column{Name: colTopicID, Type: field.TypeInt64},
		&schema.Column{Name: "prompt_id", Type: field.TypeInt64},
		&schema.Column{Name: "prompt_index", Type: field.TypeInt},
		&schema.Column{Name: "answer_text", Type: field.TypeString, Size: 1 << 16},
		&schema.Column{Name: colSuccess, Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "result", Type: field.TypeString, Size: 1 << 16, Default: ""},
		&schema.Column{Name: colLatencyMs, Type: field.TypeInt64, Default: 0},
	)
	answerEventsTable = &schema.Table{
		Name:       tableAnswers,
		Columns:    answerEventsColumns,
		PrimaryKey: []*schema.Column{answerEventsColumns[0]},
		Indexes: append(eventIndexes(tableAnswers, answerEventsColumns),
			&schema.Index{Name: "answerevent_session_id", Columns: []*schema.Column{answerEventsColumns[3]}},
		),
	}

	sessionEventsColumns = append(eventColumns(),
		&schema.Column{Name: colSessionID, Type: field.TypeString},
		&schema.Column{Name: "action", Type: field.TypeString},
		&schema.Column{Name: colTopicID, Type: field.TypeInt64},
		&schema.Column{Name: colPromptCount, Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "answered", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "duration_secs", Type: field.TypeInt, Default: 0},
	)
	sessionEventsTable = &schema.Table{
		Name:       tableSessions,
		Columns:    sessionEventsColumns,
		PrimaryKey: []*schema.Column{sessionEventsColumns[0]},
		Indexes: append(eventIndexes(tableSessions, sessionEventsColumns),
			&schema.Index{Name: "sessionevent_session_id", Columns: []*schema.Column{sessionEventsColumns[3]}},
		),
	}

	reviewsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeString, Size: 36},
		{Name: colSessionID, Type: field.TypeString},
		{Name: colTopicID, Type: field.TypeInt64},
		{Name: colTopicName, Type: field.TypeString, Default: ""},
		{Name: colPromptCount, Type: field.TypeInt},
		{Name: colOverall, Type: field.TypeFloat64},
		{Name: colReportPayload, Type: field.TypeString, Size: 1 << 20},
		{Name: colCreatedAt, Type: field.TypeTime},
	}
	reviewsTable = &schema.Table{
		Name:       tableReviews,
		Columns:    reviewsColumns,
		PrimaryKey: []*schema.Column{reviewsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "review_session_id", Unique: true, Columns: []*schema.Column{reviewsColumns[1]}},
			{Name: "review_created_at", Columns: []*schema.Column{reviewsColumns[7]}},
		},
	}

	globalSequenceColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	globalSequenceTable = &schema.Table{
		Name:       "global_sequence",
		Columns:    globalSequenceColumns,
		PrimaryKey: []*schema.Column{globalSequenceColumns[0]},
	}

	// tables lists every table in creation order.
	tables = []*schema.Table{
		globalSequenceTable,
		topicsTable,
		promptsTable,
		llmEventsTable,
		answerEventsTable,
		sessionEventsTable,
		reviewsTable,
	}
)

func init() {
	promptsTable.ForeignKeys[0].RefTable = topicsTable
}

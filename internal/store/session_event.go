package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

var answerEventFields = []string{
	colID, colSequence, colTimestamp, colSessionID, colTopicID, "prompt_id", "prompt_index",
	"answer_text", colSuccess, "error_message", "result", colLatencyMs,
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	return r.appendEvent(ctx, tableSessions,
		[]string{colSessionID, "action", colTopicID, colPromptCount, "answered", "duration_secs"},
		[]any{data.SessionID, data.Action, data.TopicID, data.PromptCount, data.Answered, data.DurationSecs},
	)
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	return r.appendEvent(ctx, tableAnswers,
		answerEventFields[3:],
		[]any{
			data.SessionID, data.TopicID, data.PromptID, data.PromptIndex,
			data.AnswerText, data.Success, data.ErrorMessage, data.Result, data.LatencyMs,
		},
	)
}

func (r *eventRepo) QueryAnswerEvents(ctx context.Context, opts QueryOpts) ([]AnswerEventRecord, error) {
	sel := sqlite().Select(answerEventFields...).
		From(entsql.Table(tableAnswers)).
		OrderBy(colSequence)
	applyQueryOpts(sel, opts)

	var out []AnswerEventRecord
	err := queryBuilt(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var e AnswerEventRecord
		if err := rows.Scan(
			&e.ID, &e.Sequence, &e.Timestamp, &e.SessionID, &e.TopicID, &e.PromptID, &e.PromptIndex,
			&e.AnswerText, &e.Success, &e.ErrorMessage, &e.Result, &e.LatencyMs,
		); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	return out, nil
}

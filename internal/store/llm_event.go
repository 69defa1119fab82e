package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

var llmEventFields = []string{
	colID, colSequence, colTimestamp, "provider", colModel, colPurpose, colSessionID,
	colInputTokens, colOutputTokens, colLatencyMs, colSuccess, "error_message",
	"request_body", "response_body",
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	return r.appendEvent(ctx, tableLLMEvents,
		llmEventFields[3:],
		[]any{
			data.Provider, data.Model, data.Purpose, data.SessionID,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success,
			data.ErrorMessage, data.RequestBody, data.ResponseBody,
		},
	)
}

func scanLLMEvent(rows *entsql.Rows) (LLMEventRecord, error) {
	var e LLMEventRecord
	err := rows.Scan(
		&e.ID, &e.Sequence, &e.Timestamp, &e.Provider, &e.Model, &e.Purpose, &e.SessionID,
		&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success, &e.ErrorMessage,
		&e.RequestBody, &e.ResponseBody,
	)
	return e, err
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error) {
	sel := sqlite().Select(llmEventFields...).
		From(entsql.Table(tableLLMEvents)).
		OrderBy(entsql.Desc(colSequence))
	if opts.Purpose != "" {
		sel.Where(entsql.EQ(colPurpose, opts.Purpose))
	}
	applyQueryOpts(sel, opts)

	var out []LLMEventRecord
	err := queryBuilt(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	return out, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error) {
	sel := sqlite().Select(llmEventFields...).
		From(entsql.Table(tableLLMEvents)).
		Where(entsql.EQ(colID, id)).
		Limit(1)

	var found *LLMEventRecord
	err := queryBuilt(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return err
		}
		found = &e
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	return found, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	return r.llmUsage(ctx, colPurpose)
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	return r.llmUsage(ctx, colModel)
}

// llmUsage aggregates LLM events grouped by one column, busiest first.
func (r *eventRepo) llmUsage(ctx context.Context, groupBy string) ([]LLMUsage, error) {
	sel := sqlite().Select(
		groupBy,
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As(entsql.Sum(colInputTokens), "input"),
		entsql.As(entsql.Sum(colOutputTokens), "output"),
		entsql.As(entsql.Avg(colLatencyMs), "avg_latency"),
	).
		From(entsql.Table(tableLLMEvents)).
		GroupBy(groupBy).
		OrderBy(entsql.Desc("calls"), groupBy)

	var usage []LLMUsage
	err := queryBuilt(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var (
			key     string
			u       LLMUsage
			in, out int64
			avgLat  float64
		)
		if err := rows.Scan(&key, &u.Calls, &in, &out, &avgLat); err != nil {
			return err
		}
		u.InputTokens = int(in)
		u.OutputTokens = int(out)
		u.AvgLatencyMs = int64(avgLat)
		if groupBy == colPurpose {
			u.Purpose = key
		} else {
			u.Model = key
		}
		usage = append(usage, u)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate LLM usage by %s: %w", groupBy, err)
	}
	return usage, nil
}

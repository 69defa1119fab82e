package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var reviewFields = []string{
	colID, colSessionID, colTopicID, colTopicName, colPromptCount, colOverall, colReportPayload, colCreatedAt,
}

type reviewRepo struct {
	drv *entsql.Driver
}

func (r *reviewRepo) Save(ctx context.Context, rec ReviewRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	del, delArgs := sqlite().Delete(tableReviews).
		Where(entsql.EQ(colSessionID, rec.SessionID)).
		Query()
	if err := tx.Exec(ctx, del, delArgs, nil); err != nil {
		tx.Rollback()
		return fmt.Errorf("replace review for session %s: %w", rec.SessionID, err)
	}

	ins, insArgs := sqlite().Insert(tableReviews).
		Columns(reviewFields...).
		Values(rec.ID, rec.SessionID, rec.TopicID, rec.TopicName, rec.PromptCount,
			rec.OverallScore, string(rec.Report), rec.CreatedAt.UTC()).
		Query()
	if err := tx.Exec(ctx, ins, insArgs, nil); err != nil {
		tx.Rollback()
		return fmt.Errorf("save review %s: %w", rec.ID, err)
	}

	return tx.Commit()
}

func (r *reviewRepo) List(ctx context.Context, limit int) ([]ReviewRecord, error) {
	sel := sqlite().Select(reviewFields...).
		From(entsql.Table(tableReviews)).
		OrderBy(entsql.Desc(colCreatedAt))
	if limit > 0 {
		sel.Limit(limit)
	}

	out, err := r.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return out, nil
}

func (r *reviewRepo) Get(ctx context.Context, id string) (*ReviewRecord, error) {
	sel := sqlite().Select(reviewFields...).
		From(entsql.Table(tableReviews)).
		Where(entsql.HasPrefix(colID, id)).
		OrderBy(entsql.Desc(colCreatedAt)).
		Limit(1)

	out, err := r.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("get review %s: %w", id, err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (r *reviewRepo) query(ctx context.Context, sel *entsql.Selector) ([]ReviewRecord, error) {
	var out []ReviewRecord
	err := queryBuilt(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var (
			rec    ReviewRecord
			report string
		)
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.TopicID, &rec.TopicName,
			&rec.PromptCount, &rec.OverallScore, &report, &rec.CreatedAt); err != nil {
			return err
		}
		rec.Report = []byte(report)
		out = append(out, rec)
		return nil
	})
	return out, err
}

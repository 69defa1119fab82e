package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

type catalogRepo struct {
	drv *entsql.Driver
}

func (r *catalogRepo) InsertTopic(ctx context.Context, topic TopicRecord, prompts []PromptRecord) (int64, error) {
	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}

	id, err := insertTopicTx(ctx, tx, topic, prompts)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

func insertTopicTx(ctx context.Context, tx dialect.Tx, topic TopicRecord, prompts []PromptRecord) (int64, error) {
	query, args := sqlite().Insert(tableTopics).
		Columns("name", "description").
		Values(topic.Name, topic.Description).
		Query()
	var res sql.Result
	if err := tx.Exec(ctx, query, args, &res); err != nil {
		return 0, fmt.Errorf("insert topic %q: %w", topic.Name, err)
	}
	topicID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("topic id: %w", err)
	}

	if len(prompts) == 0 {
		return topicID, nil
	}

	ins := sqlite().Insert(tablePrompts).
		Columns(colTopicID, colPosition, "context", "question", "image_url")
	for i, p := range prompts {
		ins.Values(topicID, i, p.Context, p.Question, p.ImageURL)
	}
	query, args = ins.Query()
	if err := tx.Exec(ctx, query, args, &res); err != nil {
		return 0, fmt.Errorf("insert prompts for %q: %w", topic.Name, err)
	}
	return topicID, nil
}

func (r *catalogRepo) Topics(ctx context.Context) ([]TopicRecord, error) {
	sel := sqlite().Select(colID, "name", "description").
		From(entsql.Table(tableTopics)).
		OrderBy(colID)

	var out []TopicRecord
	err := queryBuilt(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var t TopicRecord
		if err := rows.Scan(&t.ID, &t.Name, &t.Description); err != nil {
			return err
		}
		out = append(out, t)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query topics: %w", err)
	}
	return out, nil
}

func (r *catalogRepo) Prompts(ctx context.Context, topicID int64) ([]PromptRecord, error) {
	sel := sqlite().Select(colID, colTopicID, colPosition, "context", "question", "image_url").
		From(entsql.Table(tablePrompts)).
		Where(entsql.EQ(colTopicID, topicID)).
		OrderBy(colPosition)

	var out []PromptRecord
	err := queryBuilt(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var p PromptRecord
		if err := rows.Scan(&p.ID, &p.TopicID, &p.Position, &p.Context, &p.Question, &p.ImageURL); err != nil {
			return err
		}
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query prompts for topic %d: %w", topicID, err)
	}
	return out, nil
}

func (r *catalogRepo) CountTopics(ctx context.Context) (int, error) {
	sel := sqlite().Select(entsql.Count("*")).From(entsql.Table(tableTopics))

	var n int
	err := queryBuilt(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		return rows.Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("count topics: %w", err)
	}
	return n, nil
}

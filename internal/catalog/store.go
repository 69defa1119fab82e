package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/abhisek/empathiz/internal/store"
)

// ErrUnknownTopic is wrapped in a LoadError when a topic does not exist.
var ErrUnknownTopic = errors.New("unknown topic")

// StoreCatalog serves the catalog from the local database.
type StoreCatalog struct {
	repo store.CatalogRepo
}

// NewStoreCatalog creates a catalog over repo.
func NewStoreCatalog(repo store.CatalogRepo) *StoreCatalog {
	return &StoreCatalog{repo: repo}
}

// Seed inserts the built-in topics when the catalog is empty. It returns
// the number of topics inserted.
func (c *StoreCatalog) Seed(ctx context.Context) (int, error) {
	n, err := c.repo.CountTopics(ctx)
	if err != nil {
		return 0, fmt.Errorf("count topics: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	for _, st := range builtinTopics {
		prompts := make([]store.PromptRecord, len(st.prompts))
		for i, p := range st.prompts {
			prompts[i] = store.PromptRecord{Context: p.context, Question: p.question}
		}
		topic := store.TopicRecord{Name: st.name, Description: st.description}
		if _, err := c.repo.InsertTopic(ctx, topic, prompts); err != nil {
			return 0, fmt.Errorf("seed %s: %w", st.name, err)
		}
	}
	return len(builtinTopics), nil
}

func (c *StoreCatalog) Topics(ctx context.Context) ([]Topic, error) {
	recs, err := c.repo.Topics(ctx)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	topics := make([]Topic, len(recs))
	for i, r := range recs {
		topics[i] = Topic{ID: r.ID, Name: r.Name, Description: r.Description}
	}
	return topics, nil
}

func (c *StoreCatalog) Prompts(ctx context.Context, topicID int64) ([]Prompt, error) {
	recs, err := c.repo.Prompts(ctx, topicID)
	if err != nil {
		return nil, &LoadError{TopicID: topicID, Err: err}
	}
	if len(recs) == 0 {
		topics, err := c.repo.Topics(ctx)
		if err != nil {
			return nil, &LoadError{TopicID: topicID, Err: err}
		}
		if !lo.ContainsBy(topics, func(t store.TopicRecord) bool { return t.ID == topicID }) {
			return nil, &LoadError{TopicID: topicID, Err: ErrUnknownTopic}
		}
	}
	prompts := make([]Prompt, len(recs))
	for i, r := range recs {
		prompts[i] = Prompt{
			ID:       r.ID,
			TopicID:  r.TopicID,
			Context:  r.Context,
			Question: r.Question,
			ImageURL: r.ImageURL,
		}
	}
	return prompts, nil
}

package catalog

import (
	"context"
	"fmt"
)

// Topic is a themed group of situations (e.g. "Workplace").
type Topic struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Prompt is one situation presented to the user. The order of prompts
// returned by a Catalog is the order they are asked in.
type Prompt struct {
	ID       int64  `json:"id"`
	TopicID  int64  `json:"topic_id"`
	Context  string `json:"context"`
	Question string `json:"question"`
	ImageURL string `json:"image_url,omitempty"`
}

// Catalog supplies topics and the ordered prompt list for a topic.
type Catalog interface {
	// Topics returns every topic available for testing.
	Topics(ctx context.Context) ([]Topic, error)

	// Prompts returns the prompts for a topic in catalog order.
	Prompts(ctx context.Context, topicID int64) ([]Prompt, error)
}

// LoadError reports that the catalog could not be reached or decoded.
// A session must not be built when prompts fail to load.
type LoadError struct {
	TopicID int64 // 0 when loading the topic list
	Err     error
}

func (e *LoadError) Error() string {
	if e.TopicID == 0 {
		return fmt.Sprintf("cannot load topics: %v", e.Err)
	}
	return fmt.Sprintf("cannot load prompts for topic %d: %v", e.TopicID, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// FindTopic returns the topic with the given ID from a list.
func FindTopic(topics []Topic, id int64) (Topic, bool) {
	for _, t := range topics {
		if t.ID == id {
			return t, true
		}
	}
	return Topic{}, false
}

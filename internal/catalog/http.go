package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// HTTPCatalog reads topics and situations from the EQ test backend.
//
//	GET {base}/topics
//	GET {base}/situations?topic_id={id}
type HTTPCatalog struct {
	baseURL string
	client  *http.Client
}

// NewHTTPCatalog creates a catalog client for baseURL. A nil client uses a
// client with a 15s timeout.
func NewHTTPCatalog(baseURL string, client *http.Client) *HTTPCatalog {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPCatalog{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// situationWire is the backend's situation shape. topic_id may be omitted.
type situationWire struct {
	ID       int64  `json:"id"`
	TopicID  int64  `json:"topic_id"`
	Context  string `json:"context"`
	Question string `json:"question"`
	ImageURL string `json:"image_url"`
}

func (c *HTTPCatalog) Topics(ctx context.Context) ([]Topic, error) {
	var topics []Topic
	if err := c.getJSON(ctx, "/topics", nil, &topics); err != nil {
		return nil, &LoadError{Err: err}
	}
	return topics, nil
}

func (c *HTTPCatalog) Prompts(ctx context.Context, topicID int64) ([]Prompt, error) {
	q := url.Values{}
	q.Set("topic_id", strconv.FormatInt(topicID, 10))

	var raw []situationWire
	if err := c.getJSON(ctx, "/situations", q, &raw); err != nil {
		return nil, &LoadError{TopicID: topicID, Err: err}
	}

	prompts := make([]Prompt, len(raw))
	for i, s := range raw {
		tid := s.TopicID
		if tid == 0 {
			tid = topicID
		}
		prompts[i] = Prompt{
			ID:       s.ID,
			TopicID:  tid,
			Context:  s.Context,
			Question: s.Question,
			ImageURL: s.ImageURL,
		}
	}
	return prompts, nil
}

func (c *HTTPCatalog) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/abhisek/empathiz/internal/catalog"
)

// maxPayloadBytes caps how much of a response body is read.
const maxPayloadBytes = 1 << 20

// HTTPService calls the EQ backend's scoring endpoint:
//
//	POST {base}/analyze {"situation_id": <prompt id>, "answer_text": "..."}
type HTTPService struct {
	baseURL string
	client  *http.Client
}

// NewHTTPService creates a client for baseURL. The client should not carry
// a timeout; the caller's context is the only bound on a submission.
func NewHTTPService(baseURL string, client *http.Client) *HTTPService {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type analyzeRequest struct {
	SituationID int64  `json:"situation_id"`
	AnswerText  string `json:"answer_text"`
}

func (s *HTTPService) Analyze(ctx context.Context, prompt catalog.Prompt, answer string) (*Result, error) {
	body, err := json.Marshal(analyzeRequest{SituationID: prompt.ID, AnswerText: answer})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST /analyze: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read /analyze response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(payload))}
	}

	return ParseResult(payload)
}

// StatusError reports a non-200 response from the scoring endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("analysis service returned %d", e.Code)
	}
	return fmt.Sprintf("analysis service returned %d: %s", e.Code, e.Body)
}

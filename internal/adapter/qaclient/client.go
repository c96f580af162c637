package qaclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
)

// Client is the HTTP client for the backend /ask endpoint.
type Client struct {
	baseURL     string
	resultCount int
	mode        string
	httpClient  *http.Client
}

// NewClient creates a new backend client. resultCount and mode are sent
// unchanged with every request.
func NewClient(baseURL string, resultCount int, mode string, timeout time.Duration) *Client {
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		resultCount: resultCount,
		mode:        mode,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Ask posts the question to /ask. A single attempt is made.
func (c *Client) Ask(ctx context.Context, question string) (*domain.AnswerResult, error) {
	body, err := json.Marshal(domain.AskRequest{
		Q:    question,
		K:    c.resultCount,
		Mode: c.mode,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %w", domain.ErrTransport, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ask", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", domain.ErrTransport, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to send request: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", domain.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: backend returned status %d: %s", domain.ErrTransport, resp.StatusCode, string(respBody))
	}

	return decodeAnswer(respBody)
}

// decodeAnswer accepts only a JSON object matching the answer shape.
func decodeAnswer(body []byte) (*domain.AnswerResult, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: response is not a JSON object", domain.ErrTransport)
	}

	var result domain.AnswerResult
	if err := json.Unmarshal(trimmed, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal response: %w", domain.ErrTransport, err)
	}
	if result.Contexts == nil {
		result.Contexts = []domain.Citation{}
	}
	return &result, nil
}

// Package batch loads the evaluation question set and drives it through the
// backend one question at a time.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
)

// Source loads the static batch question set.
type Source struct {
	location   string
	httpClient *http.Client
}

// NewSource creates a source reading from a file path or an http(s) URL.
func NewSource(location string, timeout time.Duration) *Source {
	return &Source{
		location: location,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Location returns where the questions are read from.
func (s *Source) Location() string {
	return s.location
}

// Load reads and validates the question list. Any problem is reported as
// domain.ErrMalformedBatchSource.
func (s *Source) Load(ctx context.Context) ([]string, error) {
	data, err := s.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedBatchSource, err)
	}
	return ParseQuestions(data)
}

func (s *Source) read(ctx context.Context) ([]byte, error) {
	if s.location == "" {
		return nil, fmt.Errorf("no batch question source configured")
	}

	if !strings.HasPrefix(s.location, "http://") && !strings.HasPrefix(s.location, "https://") {
		return os.ReadFile(s.location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch questions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("question source returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// ParseQuestions decodes a JSON array of {"question": "..."} objects or bare
// strings. The list must be non-empty and every question non-blank.
func ParseQuestions(data []byte) ([]string, error) {
	var items []domain.BatchQuestion
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedBatchSource, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: question list is empty", domain.ErrMalformedBatchSource)
	}

	questions := make([]string, 0, len(items))
	for i, item := range items {
		if strings.TrimSpace(item.Question) == "" {
			return nil, fmt.Errorf("%w: question %d is blank", domain.ErrMalformedBatchSource, i)
		}
		questions = append(questions, item.Question)
	}
	return questions, nil
}

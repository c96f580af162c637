package qaclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
)

// MockClient is an in-process QueryClient that answers without a backend.
type MockClient struct {
	mode string
}

// NewMockClient creates a new mock backend client.
func NewMockClient(mode string) *MockClient {
	return &MockClient{mode: mode}
}

// Ensure MockClient implements QueryClient interface.
var _ QueryClient = (*MockClient)(nil)

// Ask returns a canned answer that echoes the question.
func (m *MockClient) Ask(ctx context.Context, question string) (*domain.AnswerResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}

	answer := fmt.Sprintf("[MOCK] Safety guidance for: %s", truncate(strings.TrimSpace(question), 100))
	return &domain.AnswerResult{
		Answer: &answer,
		Contexts: []domain.Citation{
			{
				ChunkID:     "mock-1",
				SourceTitle: "Mock Safety Manual",
				SourceURL:   "https://example.invalid/mock-safety-manual.pdf",
				Text:        answer,
				FinalScore:  domain.NewScore(0.5),
			},
		},
		RerankerUsed: m.mode,
	}, nil
}

// truncate truncates a string to the given length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Package qaclient provides clients for the remote question-answering backend.
package qaclient

import (
	"context"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
)

// QueryClient issues a single question to the Q&A backend.
type QueryClient interface {
	// Ask sends one request and returns the backend answer. Any failure is
	// reported as an error wrapping domain.ErrTransport, with no partial data.
	Ask(ctx context.Context, question string) (*domain.AnswerResult, error)
}

// Ensure Client implements QueryClient interface.
var _ QueryClient = (*Client)(nil)

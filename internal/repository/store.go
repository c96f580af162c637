// Package store defines the trace storage interface and its SQLite implementation.
package store

import (
	"context"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
)

// Store records the trace of asks and batch runs. It is diagnostic only:
// session state is never reloaded from it.
type Store interface {
	// Run operations
	CreateRun(ctx context.Context, run *domain.Run) error
	GetRun(ctx context.Context, runID string) (*domain.Run, error)
	ListRuns(ctx context.Context, kind domain.RunKind, limit int) ([]domain.Run, error)
	UpdateRunCompleted(ctx context.Context, runID string, status domain.RunStatus, summary []byte) error

	// Event operations
	CreateEvent(ctx context.Context, event *domain.Event) error
	GetEvents(ctx context.Context, runID string, afterTs int64, types []string, limit int) ([]domain.Event, error)

	// Lifecycle
	Close() error
}

// Ensure SQLiteStore implements Store interface.
var _ Store = (*SQLiteStore)(nil)

package service

import (
	"context"
	"fmt"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
)

func (s *Service) GetRunEvents(ctx context.Context, runID string, afterTs int64, types []string, limit int) ([]domain.Event, error) {
	run, err := s.store.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	if run == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrRunNotFound, runID)
	}

	events, err := s.store.GetEvents(ctx, runID, afterTs, types, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get run events: %w", err)
	}
	return events, nil
}

func (s *Service) ListRuns(ctx context.Context, kind domain.RunKind, limit int) ([]domain.Run, error) {
	runs, err := s.store.ListRuns(ctx, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

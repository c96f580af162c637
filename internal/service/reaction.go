package service

import (
	"context"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
)

// SetReaction sets the reaction of the message at index. Only that message's
// reaction changes.
func (s *Service) SetReaction(ctx context.Context, index int, r domain.Reaction) (domain.Message, error) {
	s.mu.Lock()
	msg, err := s.log.SetReaction(index, r)
	if err != nil {
		s.mu.Unlock()
		return domain.Message{}, err
	}
	s.unlockAndPublish(domain.Change{Type: domain.ChangeMessageUpdated, Index: index, Message: &msg})

	s.metrics.ObserveReaction(r)

	ctx = context.WithoutCancel(ctx)
	s.trace(ctx, s.sessionRun(ctx), domain.EventTypeReactionSet, domain.ReactionPayload{Index: index, Reaction: r})
	return msg, nil
}

// SetBatchVisible shows or hides batch rows in the evaluation view. Records
// are never touched.
func (s *Service) SetBatchVisible(visible bool) domain.StateView {
	s.mu.Lock()
	s.batchVisible = visible
	view := s.viewLocked()
	s.unlockAndPublish(domain.Change{Type: domain.ChangeState, State: &view})
	return view
}

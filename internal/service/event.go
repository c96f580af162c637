package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
)

// recordEvent records an event to the store.
func (s *Service) recordEvent(ctx context.Context, runID string, eventType domain.EventType, payload interface{}) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	event := &domain.Event{
		EventID: "evt_" + uuid.New().String()[:8],
		RunID:   runID,
		Ts:      time.Now().UnixMilli(),
		Type:    eventType,
		Payload: payloadBytes,
	}

	return s.store.CreateEvent(ctx, event)
}

// trace records an event and only logs failures. The trace is diagnostic and
// never blocks a session transition.
func (s *Service) trace(ctx context.Context, runID string, eventType domain.EventType, payload interface{}) {
	if runID == "" {
		return
	}
	if err := s.recordEvent(ctx, runID, eventType, payload); err != nil {
		log.Printf("ERROR: failed to record %s event for %s: %v", eventType, runID, err)
	}
}

// startRun creates a traced run and returns its ID, or "" if the store refused it.
func (s *Service) startRun(ctx context.Context, kind domain.RunKind) string {
	runID := string(kind) + "_" + uuid.New().String()[:8]
	run := &domain.Run{
		RunID:     runID,
		Kind:      kind,
		Status:    domain.RunStatusRunning,
		StartedAt: time.Now(),
	}
	if err := s.store.CreateRun(ctx, run); err != nil {
		log.Printf("ERROR: failed to create %s run: %v", kind, err)
		return ""
	}
	return runID
}

func (s *Service) completeRun(ctx context.Context, runID string, status domain.RunStatus, summary interface{}) {
	if runID == "" {
		return
	}
	data, err := json.Marshal(summary)
	if err != nil {
		log.Printf("ERROR: failed to marshal summary for %s: %v", runID, err)
		data = nil
	}
	if err := s.store.UpdateRunCompleted(ctx, runID, status, data); err != nil {
		log.Printf("ERROR: failed to complete run %s: %v", runID, err)
	}
}

// sessionRun returns the session-wide run used for events outside an ask or
// batch, creating it on first use.
func (s *Service) sessionRun(ctx context.Context) string {
	s.sessionOnce.Do(func() {
		runID := s.startRun(ctx, domain.RunKindSession)
		s.mu.Lock()
		s.sessionRunID = runID
		s.mu.Unlock()
	})
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionRunID
}

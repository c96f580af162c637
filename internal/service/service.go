// Package service implements the session controller: the conversation log,
// the evaluation ledger and the idle/asking/batch_running state machine.
package service

import (
	"context"
	"sync"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/adapter/qaclient"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/batch"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/conversation"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/ledger"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/metrics"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/repository"
)

// Publisher receives every session change, in the order it happened.
type Publisher interface {
	Publish(ch domain.Change)
}

// QuestionSource loads the batch question set.
type QuestionSource interface {
	Load(ctx context.Context) ([]string, error)
	Location() string
}

type Service struct {
	store     store.Store
	client    qaclient.QueryClient
	source    QuestionSource
	decider   batch.Decider
	metrics   *metrics.Metrics
	publisher Publisher

	// mu guards the fields below and makes a bot message and its record
	// appear together.
	mu           sync.RWMutex
	log          *conversation.Log
	ledger       *ledger.Ledger
	state        domain.SessionState
	batchVisible bool
	batchRunID   string

	// pubMu orders published changes. It is taken before mu is released, so
	// changes reach the publisher in the order they were made.
	pubMu sync.Mutex

	sessionOnce  sync.Once
	sessionRunID string

	batches sync.WaitGroup
}

func New(store store.Store, client qaclient.QueryClient, source QuestionSource, decider batch.Decider, m *metrics.Metrics, publisher Publisher) *Service {
	if m == nil {
		m = metrics.New()
	}
	return &Service{
		store:     store,
		client:    client,
		source:    source,
		decider:   decider,
		metrics:   m,
		publisher: publisher,
		log:       conversation.New(),
		ledger:    ledger.New(),
		state:     domain.StateIdle,
	}
}

// Metrics returns the metrics the service reports to.
func (s *Service) Metrics() *metrics.Metrics {
	return s.metrics
}

// Wait blocks until background batch runs have finished.
func (s *Service) Wait() {
	s.batches.Wait()
}

// State returns the current controller state.
func (s *Service) State() domain.StateView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewLocked()
}

// Messages returns the conversation log in order.
func (s *Service) Messages() []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.log.Snapshot()
}

// Records returns the whole evaluation ledger in order.
func (s *Service) Records() []domain.EvaluationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Records()
}

// VisibleRows returns the evaluation rows under the current batch visibility.
func (s *Service) VisibleRows() []domain.EvaluationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ledger.VisibleRows(s.ledger.Records(), s.batchVisible)
}

// Snapshot returns a consistent view of the log, the visible rows and the state.
func (s *Service) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Attach calls join with a snapshot. Changes made after the snapshot are not
// published until join returns, so a viewer subscribed inside join sees
// exactly the changes that follow its snapshot. join must not call back into
// the Service.
func (s *Service) Attach(join func(domain.Snapshot)) {
	s.mu.RLock()
	snap := s.snapshotLocked()
	s.pubMu.Lock()
	s.mu.RUnlock()
	defer s.pubMu.Unlock()
	join(snap)
}

func (s *Service) snapshotLocked() domain.Snapshot {
	records := s.ledger.Records()
	return domain.Snapshot{
		State:    s.viewLocked(),
		Messages: s.log.Snapshot(),
		Records:  records,
		Rows:     ledger.VisibleRows(records, s.batchVisible),
	}
}

func (s *Service) viewLocked() domain.StateView {
	return domain.StateView{
		State:        s.state,
		BatchVisible: s.batchVisible,
		BatchRunID:   s.batchRunID,
		SessionRunID: s.sessionRunID,
		Messages:     s.log.Len(),
		Records:      s.ledger.Len(),
	}
}

// setStateLocked moves the state machine and returns the change to publish.
func (s *Service) setStateLocked(state domain.SessionState) domain.Change {
	s.state = state
	s.metrics.SetState(state)
	view := s.viewLocked()
	return domain.Change{Type: domain.ChangeState, State: &view}
}

// unlockAndPublish releases mu and publishes changes made under it, ahead of
// any change made later.
func (s *Service) unlockAndPublish(changes ...domain.Change) {
	s.pubMu.Lock()
	s.mu.Unlock()
	defer s.pubMu.Unlock()
	s.publish(changes...)
}

func (s *Service) publish(changes ...domain.Change) {
	if s.publisher == nil {
		return
	}
	for _, ch := range changes {
		s.publisher.Publish(ch)
	}
}

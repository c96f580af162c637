package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/batch"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
)

// StartBatch loads the question set and runs it in the background. The run
// is detached from ctx and cannot be cancelled.
func (s *Service) StartBatch(ctx context.Context) (*domain.BatchStart, error) {
	if err := s.checkIdle(); err != nil {
		return nil, err
	}

	if s.source == nil {
		return nil, fmt.Errorf("%w: no question source configured", domain.ErrMalformedBatchSource)
	}
	questions, err := s.source.Load(ctx)
	if err != nil {
		log.Printf("WARN: batch not started: %v", err)
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)
	runID, err := s.beginBatch(ctx, questions)
	if err != nil {
		return nil, err
	}

	s.batches.Add(1)
	go func() {
		defer s.batches.Done()
		s.runBatch(ctx, runID, questions)
	}()

	return &domain.BatchStart{RunID: runID, Source: s.source.Location(), Questions: len(questions)}, nil
}

// RunBatch runs questions to completion and returns the summary. It holds the
// session in batch_running for the whole run.
func (s *Service) RunBatch(ctx context.Context, questions []string) (*domain.BatchSummary, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions", domain.ErrMalformedBatchSource)
	}
	runID, err := s.beginBatch(ctx, questions)
	if err != nil {
		return nil, err
	}
	return s.runBatch(ctx, runID, questions), nil
}

func (s *Service) checkIdle() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != domain.StateIdle {
		return fmt.Errorf("%w: %s", domain.ErrBusy, s.state)
	}
	return nil
}

// beginBatch moves idle to batch_running and makes batch rows visible before
// any request is issued.
func (s *Service) beginBatch(ctx context.Context, questions []string) (string, error) {
	s.mu.Lock()
	if s.state != domain.StateIdle {
		state := s.state
		s.mu.Unlock()
		return "", fmt.Errorf("%w: %s", domain.ErrBusy, state)
	}
	// The trace run exists only for accepted batches.
	runID := s.startRun(ctx, domain.RunKindBatch)
	s.batchVisible = true
	s.batchRunID = runID
	running := s.setStateLocked(domain.StateBatchRunning)
	s.unlockAndPublish(running)
	s.trace(ctx, runID, domain.EventTypeBatchStarted, domain.BatchStartedPayload{
		Source:    s.sourceLocation(),
		Questions: len(questions),
	})
	log.Printf("INFO: batch %s started with %d questions", runID, len(questions))
	return runID, nil
}

func (s *Service) runBatch(ctx context.Context, runID string, questions []string) *domain.BatchSummary {
	start := time.Now()

	runner := batch.NewRunner(s.batchStep(runID), s.decider)
	res := runner.Run(ctx, len(questions), batch.Questions(questions), func(_ int, rec domain.EvaluationRecord) {
		s.mu.Lock()
		idx := s.ledger.Record(rec)
		stored, _ := s.ledger.Get(idx)
		s.unlockAndPublish(domain.Change{Type: domain.ChangeRecordAppended, Index: idx, Record: &stored})

		s.metrics.ObserveBatchItem(rec.Failed)
	})

	summary := &domain.BatchSummary{
		RunID:     runID,
		Total:     res.Total,
		Recorded:  res.Recorded,
		Failed:    res.Failed,
		Aborted:   res.Aborted,
		LatencyMs: time.Since(start).Milliseconds(),
	}
	s.finishBatch(ctx, summary)
	return summary
}

// batchStep asks one batch question. Batch items never touch the conversation log.
func (s *Service) batchStep(runID string) batch.Step {
	return func(ctx context.Context, index int, question string) (domain.EvaluationRecord, error) {
		start := time.Now()
		res, err := s.client.Ask(ctx, question)
		latency := time.Since(start)
		s.metrics.ObserveBackend(domain.OriginBatch, err, latency)

		if err != nil {
			err = asTransport(err)
			s.trace(ctx, runID, domain.EventTypeBatchItemFailed, domain.AskFailedPayload{
				Question:  question,
				Error:     err.Error(),
				LatencyMs: latency.Milliseconds(),
			})
			return domain.EvaluationRecord{}, err
		}

		rec := newRecord(question, res, domain.OriginBatch)
		s.trace(ctx, runID, domain.EventTypeBatchItemDone, askDonePayload(rec, latency))
		return rec, nil
	}
}

// finishBatch returns the session to idle. Batch rows stay visible.
func (s *Service) finishBatch(ctx context.Context, summary *domain.BatchSummary) {
	s.mu.Lock()
	s.batchRunID = ""
	idle := s.setStateLocked(domain.StateIdle)
	s.unlockAndPublish(idle, domain.Change{Type: domain.ChangeBatchDone, Summary: summary})

	status, eventType := domain.RunStatusDone, domain.EventTypeBatchDone
	if summary.Aborted {
		status, eventType = domain.RunStatusAborted, domain.EventTypeBatchAborted
	}
	s.trace(ctx, summary.RunID, eventType, summary)
	s.completeRun(ctx, summary.RunID, status, summary)
	s.metrics.ObserveBatchRun(status)

	log.Printf("INFO: batch %s finished: %d/%d recorded, %d failed, aborted=%v",
		summary.RunID, summary.Recorded, summary.Total, summary.Failed, summary.Aborted)
}

func (s *Service) sourceLocation() string {
	if s.source == nil {
		return ""
	}
	return s.source.Location()
}

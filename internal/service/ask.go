package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/highlight"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/metrics"
)

// SubmitQuery runs one manual ask. The user message is appended before the
// backend is called; the bot message and its manual record are appended
// together once it answers.
//
// A backend failure still appends the fixed error bot message and returns the
// outcome together with an error wrapping domain.ErrTransport. No record is
// added in that case.
func (s *Service) SubmitQuery(ctx context.Context, text string) (*domain.AskOutcome, error) {
	if strings.TrimSpace(text) == "" {
		s.metrics.ObserveAsk(metrics.OutcomeRejected)
		return nil, domain.ErrEmptyQuery
	}

	// Asks cannot be cancelled once accepted.
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	if s.state != domain.StateIdle {
		state := s.state
		s.mu.Unlock()
		s.metrics.ObserveAsk(metrics.OutcomeRejected)
		return nil, fmt.Errorf("%w: %s", domain.ErrBusy, state)
	}
	userIdx := s.log.AppendUser(text)
	userMsg, _ := s.log.Get(userIdx)
	asking := s.setStateLocked(domain.StateAsking)
	s.unlockAndPublish(domain.Change{Type: domain.ChangeMessageAppended, Index: userIdx, Message: &userMsg}, asking)

	runID := s.startRun(ctx, domain.RunKindAsk)
	s.trace(ctx, runID, domain.EventTypeAskStarted, domain.AskStartedPayload{
		Question: text,
		Origin:   domain.OriginManual,
		Index:    userIdx,
	})

	start := time.Now()
	res, err := s.client.Ask(ctx, text)
	latency := time.Since(start)
	s.metrics.ObserveBackend(domain.OriginManual, err, latency)
	err = asTransport(err)

	outcome := &domain.AskOutcome{RunID: runID, UserIndex: userIdx}
	var changes []domain.Change

	s.mu.Lock()
	if err != nil {
		outcome.BotIndex = s.log.AppendBot(domain.ErrorAnswerText, nil)
		outcome.Message, _ = s.log.Get(outcome.BotIndex)
		changes = append(changes, domain.Change{Type: domain.ChangeMessageAppended, Index: outcome.BotIndex, Message: &outcome.Message})
	} else {
		rec := newRecord(text, res, domain.OriginManual)
		outcome.BotIndex = s.log.AppendBot(highlight.Highlight(res.AnswerText(), text), sourceViews(res.Contexts))
		outcome.Message, _ = s.log.Get(outcome.BotIndex)
		recIdx := s.ledger.Record(rec)
		stored, _ := s.ledger.Get(recIdx)
		outcome.Record = &stored
		changes = append(changes,
			domain.Change{Type: domain.ChangeMessageAppended, Index: outcome.BotIndex, Message: &outcome.Message},
			domain.Change{Type: domain.ChangeRecordAppended, Index: recIdx, Record: &stored},
		)
	}
	changes = append(changes, s.setStateLocked(domain.StateIdle))
	s.unlockAndPublish(changes...)

	if err != nil {
		log.Printf("WARN: ask failed after %s: %v", latency, err)
		s.metrics.ObserveAsk(metrics.OutcomeFailed)
		failed := domain.AskFailedPayload{Question: text, Error: err.Error(), LatencyMs: latency.Milliseconds()}
		s.trace(ctx, runID, domain.EventTypeAskFailed, failed)
		s.completeRun(ctx, runID, domain.RunStatusFailed, failed)
		return outcome, fmt.Errorf("ask failed: %w", err)
	}

	if outcome.Record.Abstained {
		s.metrics.ObserveAsk(metrics.OutcomeAbstained)
	} else {
		s.metrics.ObserveAsk(metrics.OutcomeAnswered)
	}
	done := askDonePayload(*outcome.Record, latency)
	s.trace(ctx, runID, domain.EventTypeAskDone, done)
	s.completeRun(ctx, runID, domain.RunStatusDone, done)
	return outcome, nil
}

// newRecord builds the evaluation record for a successful backend answer.
func newRecord(question string, res *domain.AnswerResult, origin domain.Origin) domain.EvaluationRecord {
	reranker := res.RerankerUsed
	if reranker == "" {
		reranker = domain.DefaultReranker
	}
	reason := res.Reason
	if reason == "" {
		reason = domain.PlaceholderText
	}
	rows := make([]domain.ContextRow, 0, len(res.Contexts))
	for _, c := range res.Contexts {
		rows = append(rows, c.ContextRow())
	}
	return domain.EvaluationRecord{
		Question:  question,
		Answer:    res.AnswerText(),
		Reranker:  reranker,
		Abstained: res.Abstained,
		Reason:    reason,
		Threshold: res.Threshold,
		Contexts:  rows,
		Origin:    origin,
	}
}

// asTransport makes every backend failure match domain.ErrTransport.
func asTransport(err error) error {
	if err == nil || errors.Is(err, domain.ErrTransport) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrTransport, err)
}

func sourceViews(citations []domain.Citation) []domain.SourceView {
	views := make([]domain.SourceView, 0, len(citations))
	for _, c := range citations {
		views = append(views, c.SourceView())
	}
	return views
}

func askDonePayload(rec domain.EvaluationRecord, latency time.Duration) domain.AskDonePayload {
	return domain.AskDonePayload{
		Question:  rec.Question,
		Reranker:  rec.Reranker,
		Abstained: rec.Abstained,
		Contexts:  len(rec.Contexts),
		LatencyMs: latency.Milliseconds(),
	}
}

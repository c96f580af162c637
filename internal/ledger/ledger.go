// Package ledger holds the append-only evaluation ledger and its view projection.
package ledger

import (
	"slices"
	"sync"
	"time"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
)

// Ledger is an ordered, append-only sequence of evaluation records.
type Ledger struct {
	mu      sync.RWMutex
	records []domain.EvaluationRecord
	now     func() time.Time
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{now: time.Now}
}

// Record appends rec and returns its index. Identical questions produce
// separate records.
func (l *Ledger) Record(rec domain.EvaluationRecord) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = l.now()
	}
	rec.Contexts = cloneContexts(rec.Contexts)
	l.records = append(l.records, rec)
	return len(l.records) - 1
}

// Records returns a copy of all records in ledger order.
func (l *Ledger) Records() []domain.EvaluationRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.EvaluationRecord, len(l.records))
	for i, r := range l.records {
		r.Contexts = cloneContexts(r.Contexts)
		out[i] = r
	}
	return out
}

// Get returns the record at index.
func (l *Ledger) Get(index int) (domain.EvaluationRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if index < 0 || index >= len(l.records) {
		return domain.EvaluationRecord{}, false
	}
	r := l.records[index]
	r.Contexts = cloneContexts(r.Contexts)
	return r, true
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// VisibleRows returns, in ledger order, every manual record plus every batch
// record when batchVisible is set.
func VisibleRows(records []domain.EvaluationRecord, batchVisible bool) []domain.EvaluationRecord {
	rows := make([]domain.EvaluationRecord, 0, len(records))
	for _, r := range records {
		if r.Origin == domain.OriginManual || batchVisible {
			rows = append(rows, r)
		}
	}
	return rows
}

func cloneContexts(ctxs []domain.ContextRow) []domain.ContextRow {
	if ctxs == nil {
		return []domain.ContextRow{}
	}
	return slices.Clone(ctxs)
}

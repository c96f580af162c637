package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func TestSQLiteStoreRunLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	run := &domain.Run{
		RunID:     "batch_1",
		Kind:      domain.RunKindBatch,
		Status:    domain.RunStatusRunning,
		StartedAt: time.Now(),
	}
	if err := store.CreateRun(ctx, run); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	summary := json.RawMessage(`{"total":8,"recorded":8}`)
	if err := store.UpdateRunCompleted(ctx, "batch_1", domain.RunStatusDone, summary); err != nil {
		t.Fatalf("UpdateRunCompleted failed: %v", err)
	}

	got, err := store.GetRun(ctx, "batch_1")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got == nil || got.Status != domain.RunStatusDone || got.EndedAt == nil {
		t.Fatalf("unexpected run: %+v", got)
	}
	if string(got.Summary) != string(summary) {
		t.Fatalf("unexpected summary: %s", got.Summary)
	}

	missing, err := store.GetRun(ctx, "nope")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil run, got %+v", missing)
	}
}

func TestSQLiteStoreListRuns(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	now := time.Now()
	for i, kind := range []domain.RunKind{domain.RunKindAsk, domain.RunKindBatch, domain.RunKindAsk} {
		run := &domain.Run{
			RunID:     string(kind) + "_" + string(rune('a'+i)),
			Kind:      kind,
			Status:    domain.RunStatusRunning,
			StartedAt: now.Add(time.Duration(i) * time.Second),
		}
		if err := store.CreateRun(ctx, run); err != nil {
			t.Fatalf("CreateRun failed: %v", err)
		}
	}

	asks, err := store.ListRuns(ctx, domain.RunKindAsk, 10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(asks) != 2 || asks[0].RunID != "ask_c" {
		t.Fatalf("unexpected runs: %+v", asks)
	}

	all, err := store.ListRuns(ctx, "", 1)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 run, got %d", len(all))
	}
}

func TestSQLiteStoreEvents(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	if err := store.CreateRun(ctx, &domain.Run{RunID: "ask_1", Kind: domain.RunKindAsk, Status: domain.RunStatusRunning, StartedAt: time.Now()}); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	ts := time.Now().UnixMilli()
	events := []*domain.Event{
		{EventID: "e1", RunID: "ask_1", Ts: ts, Type: domain.EventTypeAskStarted, Payload: json.RawMessage(`{"question":"q"}`)},
		{EventID: "e2", RunID: "ask_1", Ts: ts + 1, Type: domain.EventTypeAskDone},
	}
	for _, e := range events {
		if err := store.CreateEvent(ctx, e); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
	}

	got, err := store.GetEvents(ctx, "ask_1", 0, nil, 10)
	if err != nil {
		t.Fatalf("GetEvents failed: %v", err)
	}
	if len(got) != 2 || got[0].EventID != "e1" || got[1].Payload != nil {
		t.Fatalf("unexpected events: %+v", got)
	}

	filtered, err := store.GetEvents(ctx, "ask_1", 0, []string{string(domain.EventTypeAskDone)}, 10)
	if err != nil {
		t.Fatalf("GetEvents failed: %v", err)
	}
	if len(filtered) != 1 || filtered[0].EventID != "e2" {
		t.Fatalf("unexpected filtered events: %+v", filtered)
	}

	after, err := store.GetEvents(ctx, "ask_1", ts, nil, 0)
	if err != nil {
		t.Fatalf("GetEvents failed: %v", err)
	}
	if len(after) != 1 {
		t.Fatalf("expected 1 event after ts, got %d", len(after))
	}
}

func TestSQLiteStoreEventRequiresRun(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	err := store.CreateEvent(ctx, &domain.Event{EventID: "e1", RunID: "missing", Ts: 1, Type: domain.EventTypeAskStarted})
	if err == nil {
		t.Fatalf("expected foreign key error")
	}
}

package domain

import (
	"encoding/json"
	"time"
)

// Run is one traced ask or batch run.
type Run struct {
	RunID     string          `json:"run_id"`
	Kind      RunKind         `json:"kind"`
	Status    RunStatus       `json:"status"`
	StartedAt time.Time       `json:"started_at"`
	EndedAt   *time.Time      `json:"ended_at,omitempty"`
	Summary   json.RawMessage `json:"summary,omitempty"`
}

// Event represents a trace event of an ask or a batch run.
type Event struct {
	EventID string          `json:"event_id"`
	RunID   string          `json:"run_id"`
	Ts      int64           `json:"ts"` // Unix milliseconds
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// AskStartedPayload is the payload for ask_started events.
type AskStartedPayload struct {
	Question string `json:"question"`
	Origin   Origin `json:"origin"`
	Index    int    `json:"index,omitempty"`
}

// AskDonePayload is the payload for ask_done and batch_item_done events.
type AskDonePayload struct {
	Question  string `json:"question"`
	Reranker  string `json:"reranker"`
	Abstained bool   `json:"abstained"`
	Contexts  int    `json:"contexts"`
	LatencyMs int64  `json:"latency_ms"`
}

// AskFailedPayload is the payload for ask_failed and batch_item_failed events.
type AskFailedPayload struct {
	Question  string `json:"question"`
	Error     string `json:"error"`
	LatencyMs int64  `json:"latency_ms"`
}

// BatchStartedPayload is the payload for batch_started events.
type BatchStartedPayload struct {
	Source    string `json:"source"`
	Questions int    `json:"questions"`
}

// BatchSummary describes a finished batch run.
type BatchSummary struct {
	RunID     string `json:"run_id"`
	Total     int    `json:"total"`
	Recorded  int    `json:"recorded"`
	Failed    int    `json:"failed"`
	Aborted   bool   `json:"aborted"`
	LatencyMs int64  `json:"latency_ms"`
}

// ReactionPayload is the payload for reaction_set events.
type ReactionPayload struct {
	Index    int      `json:"index"`
	Reaction Reaction `json:"reaction"`
}

// Package protocol defines the WebSocket message protocol between viewers and the session server.
package protocol

import (
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
)

// Message types from client to server
const (
	TypeHello           = "hello"
	TypeAsk             = "ask"
	TypeRunBatch        = "run_batch"
	TypeReact           = "react"
	TypeSetBatchVisible = "set_batch_visible"
)

// Message types from server to client
const (
	TypeHelloAck        = "hello_ack"
	TypeSnapshot        = "snapshot"
	TypeMessageAppended = string(domain.ChangeMessageAppended)
	TypeMessageUpdated  = string(domain.ChangeMessageUpdated)
	TypeRecordAppended  = string(domain.ChangeRecordAppended)
	TypeState           = string(domain.ChangeState)
	TypeBatchDone       = string(domain.ChangeBatchDone)
	TypeError           = "error"
)

// BaseMessage contains common fields for all messages.
type BaseMessage struct {
	Type      string `json:"type"`
	Ts        int64  `json:"ts"`
	RequestID string `json:"request_id,omitempty"`
}

// HelloMessage is sent by a client to start receiving updates.
type HelloMessage struct {
	BaseMessage
	ClientMeta map[string]string `json:"client_meta,omitempty"`
}

// HelloAckMessage is sent after a successful hello.
type HelloAckMessage struct {
	BaseMessage
	ConnectionID string `json:"connection_id"`
}

// SnapshotMessage carries the full rendering state.
type SnapshotMessage struct {
	BaseMessage
	Snapshot domain.Snapshot `json:"snapshot"`
}

// AskMessage submits a manual question.
type AskMessage struct {
	BaseMessage
	Question string `json:"question"`
}

// RunBatchMessage starts a batch run.
type RunBatchMessage struct {
	BaseMessage
}

// ReactMessage sets a reaction on a message.
type ReactMessage struct {
	BaseMessage
	Index    int             `json:"index"`
	Reaction domain.Reaction `json:"reaction"`
}

// SetBatchVisibleMessage toggles batch rows in the evaluation view.
type SetBatchVisibleMessage struct {
	BaseMessage
	Visible bool `json:"visible"`
}

// ChangeMessage wraps a published session change.
type ChangeMessage struct {
	BaseMessage
	Index   int                      `json:"index"`
	Message *domain.Message          `json:"message,omitempty"`
	Record  *domain.EvaluationRecord `json:"record,omitempty"`
	State   *domain.StateView        `json:"state,omitempty"`
	Summary *domain.BatchSummary     `json:"summary,omitempty"`
}

// NewChangeMessage converts a session change into its wire form.
func NewChangeMessage(ch domain.Change, ts int64) ChangeMessage {
	return ChangeMessage{
		BaseMessage: BaseMessage{Type: string(ch.Type), Ts: ts},
		Index:       ch.Index,
		Message:     ch.Message,
		Record:      ch.Record,
		State:       ch.State,
		Summary:     ch.Summary,
	}
}

// ErrorMessage is sent when a client request fails.
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrorCodeInvalidMessage     = "invalid_message"
	ErrorCodeHelloRequired      = "hello_required"
	ErrorCodeEmptyQuery         = "empty_query"
	ErrorCodeBusy               = "busy"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeInvalidReaction    = "invalid_reaction"
	ErrorCodeBatchSource        = "malformed_batch_source"
	ErrorCodeBackendUnavailable = "backend_unavailable"
	ErrorCodeInternalError      = "internal_error"
)


package domain

// StateView is a point-in-time view of the session controller.
type StateView struct {
	State        SessionState `json:"state"`
	BatchVisible bool         `json:"batch_visible"`
	BatchRunID   string       `json:"batch_run_id,omitempty"`
	SessionRunID string       `json:"session_run_id,omitempty"`
	Messages     int          `json:"messages"`
	Records      int          `json:"records"`
}

// Snapshot is the full rendering state handed to a new viewer. Rows is the
// projection of Records under State.BatchVisible.
type Snapshot struct {
	State    StateView          `json:"state"`
	Messages []Message          `json:"messages"`
	Records  []EvaluationRecord `json:"records"`
	Rows     []EvaluationRecord `json:"rows"`
}

// ChangeType identifies a published session change.
type ChangeType string

const (
	ChangeMessageAppended ChangeType = "message_appended"
	ChangeMessageUpdated  ChangeType = "message_updated"
	ChangeRecordAppended  ChangeType = "record_appended"
	ChangeState           ChangeType = "state"
	ChangeBatchDone       ChangeType = "batch_done"
)

// Change is published to viewers whenever session state moves.
type Change struct {
	Type    ChangeType        `json:"type"`
	Index   int               `json:"index"`
	Message *Message          `json:"message,omitempty"`
	Record  *EvaluationRecord `json:"record,omitempty"`
	State   *StateView        `json:"state,omitempty"`
	Summary *BatchSummary     `json:"summary,omitempty"`
}

// AskOutcome is the result of a manual ask. Record is nil when the backend
// call failed.
type AskOutcome struct {
	RunID     string            `json:"run_id"`
	UserIndex int               `json:"user_index"`
	BotIndex  int               `json:"bot_index"`
	Message   Message           `json:"message"`
	Record    *EvaluationRecord `json:"record,omitempty"`
}

// BatchStart is returned when a batch run has been accepted.
type BatchStart struct {
	RunID     string `json:"run_id"`
	Source    string `json:"source"`
	Questions int    `json:"questions"`
}

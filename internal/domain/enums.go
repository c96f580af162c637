// Package domain defines the core domain models for the Q&A session.
package domain

// Role identifies who authored a conversation message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Origin records whether an evaluation record came from a manual ask or a batch run.
type Origin string

const (
	OriginManual Origin = "manual"
	OriginBatch  Origin = "batch"
)

// Reaction is one of the fixed emoji a user may attach to a message.
type Reaction string

const (
	ReactionThumbsUp   Reaction = "👍"
	ReactionThumbsDown Reaction = "👎"
	ReactionHeart      Reaction = "❤️"
)

// Reactions lists the allowed reactions in display order.
var Reactions = []Reaction{ReactionThumbsUp, ReactionThumbsDown, ReactionHeart}

// Valid reports whether r is one of the fixed reactions.
func (r Reaction) Valid() bool {
	for _, allowed := range Reactions {
		if r == allowed {
			return true
		}
	}
	return false
}

// SessionState is the controller state.
type SessionState string

const (
	StateIdle         SessionState = "idle"
	StateAsking       SessionState = "asking"
	StateBatchRunning SessionState = "batch_running"
)

// RunKind distinguishes traced manual asks, batch runs and the session-wide
// run that carries reactions.
type RunKind string

const (
	RunKindAsk     RunKind = "ask"
	RunKindBatch   RunKind = "batch"
	RunKindSession RunKind = "session"
)

// RunStatus represents the status of a traced run.
type RunStatus string

const (
	RunStatusRunning RunStatus = "RUNNING"
	RunStatusDone    RunStatus = "DONE"
	RunStatusFailed  RunStatus = "FAILED"
	RunStatusAborted RunStatus = "ABORTED"
)

// EventType represents the type of a trace event.
type EventType string

const (
	EventTypeAskStarted      EventType = "ask_started"
	EventTypeAskDone         EventType = "ask_done"
	EventTypeAskFailed       EventType = "ask_failed"
	EventTypeBatchStarted    EventType = "batch_started"
	EventTypeBatchItemDone   EventType = "batch_item_done"
	EventTypeBatchItemFailed EventType = "batch_item_failed"
	EventTypeBatchDone       EventType = "batch_done"
	EventTypeBatchAborted    EventType = "batch_aborted"
	EventTypeReactionSet     EventType = "reaction_set"
)

// Fixed display strings.
const (
	NoAnswerText     = "No answer found"
	ErrorAnswerText  = "Error fetching answer."
	DefaultReranker  = "hybrid"
	FailedReranker   = "N/A"
	PlaceholderText  = "-"
	ReasonReqFailure = "request_failed"
)

package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Score is a relevance score reported by the backend.
// Absent or unparseable values decode to an invalid Score instead of failing.
type Score struct {
	Value float64
	Valid bool
}

// NewScore returns a valid score.
func NewScore(v float64) Score {
	return Score{Value: v, Valid: true}
}

// String renders the score with two decimals, or "-" when invalid.
func (s Score) String() string {
	if !s.Valid {
		return PlaceholderText
	}
	return strconv.FormatFloat(s.Value, 'f', 2, 64)
}

// UnmarshalJSON accepts numbers, numeric strings and null.
func (s *Score) UnmarshalJSON(data []byte) error {
	*s = Score{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return nil
		}
		raw = strings.TrimSpace(str)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*s = NewScore(v)
	return nil
}

// MarshalJSON writes a number or null.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// Citation is a single supporting source returned by the backend.
type Citation struct {
	ChunkID     string `json:"chunk_id"`
	SourceTitle string `json:"source_title"`
	SourceURL   string `json:"source_url"`
	Text        string `json:"text"`
	FinalScore  Score  `json:"final_score"`

	// BaselineScore is only sent by the backend's baseline mode.
	BaselineScore Score `json:"score"`
}

// Relevance returns the final score, falling back to the baseline score.
func (c Citation) Relevance() Score {
	if c.FinalScore.Valid {
		return c.FinalScore
	}
	return c.BaselineScore
}

// ContextRow is a citation as shown in the evaluation table, with its score
// already formatted.
type ContextRow struct {
	ChunkID     string `json:"chunk_id"`
	SourceTitle string `json:"source_title"`
	SourceURL   string `json:"source_url"`
	Text        string `json:"text"`
	FinalScore  string `json:"final_score"`
}

// SourceView is a citation attached to a bot message.
type SourceView struct {
	ChunkID     string `json:"chunk_id"`
	SourceTitle string `json:"source_title"`
	SourceURL   string `json:"source_url"`
	Text        string `json:"text"`
	Score       string `json:"score"`
}

// Message is one turn in the conversation.
type Message struct {
	Role      Role         `json:"role"`
	Text      string       `json:"text"`
	Sources   []SourceView `json:"sources"`
	Reaction  Reaction     `json:"reaction,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// WithReaction returns a copy of m carrying the given reaction.
func (m Message) WithReaction(r Reaction) Message {
	m.Reaction = r
	return m
}

// EvaluationRecord is one completed question/answer cycle.
type EvaluationRecord struct {
	Question  string       `json:"question"`
	Answer    string       `json:"answer"`
	Reranker  string       `json:"reranker"`
	Abstained bool         `json:"abstained"`
	Reason    string       `json:"reason"`
	Threshold *float64     `json:"threshold,omitempty"`
	Contexts  []ContextRow `json:"contexts"`
	Origin    Origin       `json:"origin"`
	Failed    bool         `json:"failed,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// AbstainedLabel renders the abstention flag as "Yes" or "No".
func (r EvaluationRecord) AbstainedLabel() string {
	if r.Abstained {
		return "Yes"
	}
	return "No"
}

// AnswerResult is a successful backend response.
type AnswerResult struct {
	Answer       *string    `json:"answer"`
	Contexts     []Citation `json:"contexts"`
	RerankerUsed string     `json:"reranker_used"`
	Abstained    bool       `json:"abstained"`
	Reason       string     `json:"reason"`
	Threshold    *float64   `json:"threshold"`
}

// AnswerText returns the answer or the fixed fallback when none was returned.
func (a *AnswerResult) AnswerText() string {
	if a.Answer == nil || *a.Answer == "" {
		return NoAnswerText
	}
	return *a.Answer
}

// AskRequest is the request body sent to the backend /ask endpoint.
type AskRequest struct {
	Q    string `json:"q"`
	K    int    `json:"k"`
	Mode string `json:"mode"`
}

// BatchQuestion is one entry of the static batch question set.
type BatchQuestion struct {
	Question string `json:"question"`
}

// UnmarshalJSON accepts either {"question": "..."} or a bare string.
func (q *BatchQuestion) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &q.Question)
	}
	type plain BatchQuestion
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*q = BatchQuestion(p)
	return nil
}

// SourceView converts the citation for display under a bot message.
func (c Citation) SourceView() SourceView {
	return SourceView{
		ChunkID:     c.ChunkID,
		SourceTitle: c.SourceTitle,
		SourceURL:   c.SourceURL,
		Text:        c.Text,
		Score:       c.Relevance().String(),
	}
}

// ContextRow converts the citation for the evaluation table.
func (c Citation) ContextRow() ContextRow {
	return ContextRow{
		ChunkID:     c.ChunkID,
		SourceTitle: c.SourceTitle,
		SourceURL:   c.SourceURL,
		Text:        c.Text,
		FinalScore:  c.Relevance().String(),
	}
}

package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/highlight"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/ledger"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/protocol"
)

const (
	ansiMark  = "\x1b[1;33m"
	ansiReset = "\x1b[0m"
)

// view mirrors the server session from the snapshot and the change stream.
// Changes are keyed by index, so applying one twice is harmless.
type view struct {
	mu       sync.Mutex
	state    domain.StateView
	messages []domain.Message
	records  []domain.EvaluationRecord
}

func (v *view) applySnapshot(s domain.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state = s.State
	v.messages = append([]domain.Message(nil), s.Messages...)
	v.records = append([]domain.EvaluationRecord(nil), s.Records...)
}

// applyChange updates the mirror and reports whether the change is new.
func (v *view) applyChange(ch protocol.ChangeMessage) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch ch.Type {
	case protocol.TypeMessageAppended, protocol.TypeMessageUpdated:
		if ch.Message == nil || ch.Index < 0 {
			return false
		}
		fresh := ch.Index >= len(v.messages) || ch.Type == protocol.TypeMessageUpdated
		v.messages = setAt(v.messages, ch.Index, *ch.Message)
		return fresh
	case protocol.TypeRecordAppended:
		if ch.Record == nil || ch.Index < 0 {
			return false
		}
		fresh := ch.Index >= len(v.records)
		v.records = setAt(v.records, ch.Index, *ch.Record)
		return fresh
	case protocol.TypeState:
		if ch.State == nil {
			return false
		}
		v.state = *ch.State
		return true
	}
	return true
}

func (v *view) rows() []domain.EvaluationRecord {
	v.mu.Lock()
	defer v.mu.Unlock()
	return ledger.VisibleRows(v.records, v.state.BatchVisible)
}

func (v *view) messageAt(i int) (domain.Message, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if i < 0 || i >= len(v.messages) {
		return domain.Message{}, false
	}
	return v.messages[i], true
}

func (v *view) allMessages() []domain.Message {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]domain.Message(nil), v.messages...)
}

func setAt[T any](items []T, i int, item T) []T {
	for len(items) <= i {
		var zero T
		items = append(items, zero)
	}
	items[i] = item
	return items
}

// questionFor returns the user question a bot message answers. Asks are
// serialized, so that is the user message right before it.
func (v *view) questionFor(i int) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if i < 1 || i >= len(v.messages) || v.messages[i].Role != domain.RoleBot {
		return ""
	}
	if prev := v.messages[i-1]; prev.Role == domain.RoleUser {
		return prev.Text
	}
	return ""
}

// renderText drops the server's emphasis markers, which may be nested, and
// marks the question terms again for the terminal.
func renderText(text, question string) string {
	return highlight.Wrap(highlight.Strip(text), question, ansiMark, ansiReset)
}

func printMessage(w io.Writer, index int, msg domain.Message, question string) {
	who, text := "you", msg.Text
	if msg.Role == domain.RoleBot {
		who, text = "bot", renderText(msg.Text, question)
	}
	reaction := ""
	if msg.Reaction != "" {
		reaction = " " + string(msg.Reaction)
	}
	fmt.Fprintf(w, "[%d] %s: %s%s\n", index, who, text, reaction)
	for _, src := range msg.Sources {
		fmt.Fprintf(w, "      (%s) %s %s\n", src.Score, src.SourceTitle, src.SourceURL)
	}
}

func printTable(w io.Writer, rows []domain.EvaluationRecord) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tORIGIN\tQUESTION\tANSWER\tRERANKER\tABSTAINED\tREASON\tCONTEXTS")
	for i, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i, r.Origin, truncate(r.Question, 40), truncate(r.Answer, 50),
			r.Reranker, r.AbstainedLabel(), r.Reason, contextScores(r.Contexts))
	}
	tw.Flush()
}

func contextScores(ctxs []domain.ContextRow) string {
	if len(ctxs) == 0 {
		return domain.PlaceholderText
	}
	scores := make([]string, len(ctxs))
	for i, c := range ctxs {
		scores[i] = c.FinalScore
	}
	return strings.Join(scores, ",")
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// parseReaction accepts the emoji or a short alias.
func parseReaction(s string) (domain.Reaction, bool) {
	switch strings.ToLower(s) {
	case "up", "+1":
		return domain.ReactionThumbsUp, true
	case "down", "-1":
		return domain.ReactionThumbsDown, true
	case "heart", "love":
		return domain.ReactionHeart, true
	}
	r := domain.Reaction(s)
	return r, r.Valid()
}

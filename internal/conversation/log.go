// Package conversation holds the append-only conversation log.
package conversation

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
)

// Log is an ordered, append-only sequence of messages.
// The only post-creation change is a message's reaction, applied copy-on-write.
type Log struct {
	mu       sync.RWMutex
	messages []domain.Message
	now      func() time.Time
}

// New creates an empty log.
func New() *Log {
	return &Log{now: time.Now}
}

// AppendUser appends a user message and returns its index.
func (l *Log) AppendUser(text string) int {
	return l.append(domain.Message{
		Role:    domain.RoleUser,
		Text:    text,
		Sources: []domain.SourceView{},
	})
}

// AppendBot appends a bot message and returns its index.
func (l *Log) AppendBot(text string, sources []domain.SourceView) int {
	src := slices.Clone(sources)
	if src == nil {
		src = []domain.SourceView{}
	}
	return l.append(domain.Message{
		Role:    domain.RoleBot,
		Text:    text,
		Sources: src,
	})
}

func (l *Log) append(msg domain.Message) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg.CreatedAt = l.now()
	l.messages = append(l.messages, msg)
	return len(l.messages) - 1
}

// SetReaction sets the reaction on the message at index, replacing any
// earlier one. Setting the same reaction again leaves it set.
func (l *Log) SetReaction(index int, r domain.Reaction) (domain.Message, error) {
	if !r.Valid() {
		return domain.Message{}, fmt.Errorf("%w: %q", domain.ErrInvalidReaction, r)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if index < 0 || index >= len(l.messages) {
		return domain.Message{}, fmt.Errorf("%w: index %d", domain.ErrMessageNotFound, index)
	}

	next := slices.Clone(l.messages)
	next[index] = next[index].WithReaction(r)
	l.messages = next
	return next[index], nil
}

// Get returns the message at index.
func (l *Log) Get(index int) (domain.Message, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if index < 0 || index >= len(l.messages) {
		return domain.Message{}, false
	}
	return l.messages[index], true
}

// Snapshot returns a copy of all messages in order.
func (l *Log) Snapshot() []domain.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Message, len(l.messages))
	for i, m := range l.messages {
		m.Sources = slices.Clone(m.Sources)
		out[i] = m
	}
	return out
}

// Len returns the number of messages.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

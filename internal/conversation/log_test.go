package conversation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
)

func TestLogAppendOrder(t *testing.T) {
	l := New()

	assert.Equal(t, 0, l.AppendUser("What is the PEL for benzene?"))
	assert.Equal(t, 1, l.AppendBot("1 ppm", []domain.SourceView{{ChunkID: "c1", Score: "0.93"}}))

	msgs := l.Snapshot()
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.RoleUser, msgs[0].Role)
	assert.Empty(t, msgs[0].Sources)
	assert.NotNil(t, msgs[0].Sources)
	assert.Equal(t, domain.RoleBot, msgs[1].Role)
	assert.Equal(t, "0.93", msgs[1].Sources[0].Score)
	assert.Empty(t, msgs[1].Reaction)
}

func TestSetReactionOnlyTouchesTarget(t *testing.T) {
	l := New()
	l.AppendUser("q1")
	l.AppendBot("a1", nil)
	l.AppendUser("q2")
	l.AppendBot("a2", nil)

	before := l.Snapshot()

	msg, err := l.SetReaction(1, domain.ReactionHeart)
	require.NoError(t, err)
	assert.Equal(t, domain.ReactionHeart, msg.Reaction)

	after := l.Snapshot()
	require.Len(t, after, len(before))
	for i := range before {
		if i == 1 {
			want := before[i]
			want.Reaction = domain.ReactionHeart
			assert.Equal(t, want, after[i])
			continue
		}
		assert.Equal(t, before[i], after[i])
	}

	// The earlier snapshot is not affected by the update.
	assert.Empty(t, before[1].Reaction)
}

func TestSetReactionOverwrites(t *testing.T) {
	l := New()
	l.AppendBot("a", nil)

	_, err := l.SetReaction(0, domain.ReactionThumbsUp)
	require.NoError(t, err)
	_, err = l.SetReaction(0, domain.ReactionThumbsDown)
	require.NoError(t, err)
	msg, err := l.SetReaction(0, domain.ReactionThumbsDown)
	require.NoError(t, err)

	assert.Equal(t, domain.ReactionThumbsDown, msg.Reaction)
}

func TestSetReactionGuards(t *testing.T) {
	l := New()
	l.AppendBot("a", nil)

	_, err := l.SetReaction(1, domain.ReactionHeart)
	assert.ErrorIs(t, err, domain.ErrMessageNotFound)
	_, err = l.SetReaction(-1, domain.ReactionHeart)
	assert.ErrorIs(t, err, domain.ErrMessageNotFound)
	_, err = l.SetReaction(0, domain.Reaction("🔥"))
	assert.ErrorIs(t, err, domain.ErrInvalidReaction)

	msg, ok := l.Get(0)
	require.True(t, ok)
	assert.Empty(t, msg.Reaction)
}

func TestSnapshotIsIndependent(t *testing.T) {
	l := New()
	l.AppendBot("a", []domain.SourceView{{SourceTitle: "OSHA"}})

	snap := l.Snapshot()
	snap[0].Text = "changed"
	snap[0].Sources[0].SourceTitle = "changed"

	msg, _ := l.Get(0)
	assert.Equal(t, "a", msg.Text)
	assert.Equal(t, "OSHA", msg.Sources[0].SourceTitle)
}

func TestConcurrentAppendsAndReactions(t *testing.T) {
	l := New()
	l.AppendBot("seed", nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			l.AppendUser("q")
		}()
		go func() {
			defer wg.Done()
			_, _ = l.SetReaction(0, domain.ReactionThumbsUp)
		}()
	}
	wg.Wait()

	assert.Equal(t, 51, l.Len())
	msg, _ := l.Get(0)
	assert.Equal(t, domain.ReactionThumbsUp, msg.Reaction)
}

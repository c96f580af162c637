package hub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/protocol"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := NewHub()
	go h.Run(ctx)
	return h
}

func registered(t *testing.T, h *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.GetConnectionCount() == n }, time.Second, 5*time.Millisecond)
}

func viewing(t *testing.T, h *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.GetViewerCount() == n }, time.Second, 5*time.Millisecond)
}

func receive(t *testing.T, conn *Connection) protocol.ChangeMessage {
	t.Helper()
	select {
	case data := <-conn.Send:
		var got protocol.ChangeMessage
		require.NoError(t, json.Unmarshal(data, &got))
		return got
	case <-time.After(time.Second):
		t.Fatalf("connection %s received nothing", conn.ID)
	}
	return protocol.ChangeMessage{}
}

func TestPublishReachesViewersOnly(t *testing.T) {
	h := startHub(t)

	viewer := h.NewConnection(nil)
	idle := h.NewConnection(nil)
	h.Register(viewer)
	h.Register(idle)
	registered(t, h, 2)
	require.NoError(t, h.Join(viewer))
	viewing(t, h, 1)

	msg := domain.Message{Role: domain.RoleBot, Text: "8-hour TWA of 1 ppm"}
	h.Publish(domain.Change{Type: domain.ChangeMessageAppended, Index: 1, Message: &msg})

	select {
	case data := <-viewer.Send:
		var got protocol.ChangeMessage
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, protocol.TypeMessageAppended, got.Type)
		assert.Equal(t, 1, got.Index)
		require.NotNil(t, got.Message)
		assert.Equal(t, msg.Text, got.Message.Text)
	case <-time.After(time.Second):
		t.Fatalf("viewer did not receive change")
	}

	select {
	case data := <-idle.Send:
		t.Fatalf("connection without hello received %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestJoinSeesOnlyLaterChanges(t *testing.T) {
	h := startHub(t)
	conn := h.NewConnection(nil)
	h.Register(conn)

	before := domain.StateView{State: domain.StateAsking}
	h.Publish(domain.Change{Type: domain.ChangeState, State: &before})

	greeting := protocol.BaseMessage{Type: protocol.TypeSnapshot}
	require.NoError(t, h.Join(conn, greeting))
	assert.True(t, h.IsViewer(conn))

	after := domain.StateView{State: domain.StateIdle, BatchVisible: true}
	h.Publish(domain.Change{Type: domain.ChangeState, State: &after})

	assert.Equal(t, protocol.TypeSnapshot, receive(t, conn).Type)
	got := receive(t, conn)
	assert.Equal(t, protocol.TypeState, got.Type)
	require.NotNil(t, got.State)
	assert.Equal(t, after, *got.State)

	select {
	case data := <-conn.Send:
		t.Fatalf("unexpected frame %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnregisterClosesSend(t *testing.T) {
	h := startHub(t)

	conn := h.NewConnection(nil)
	h.Register(conn)
	registered(t, h, 1)
	require.NoError(t, h.Join(conn))
	assert.True(t, h.IsViewer(conn))
	viewing(t, h, 1)

	h.Unregister(conn)
	registered(t, h, 0)

	_, ok := <-conn.Send
	assert.False(t, ok)
	assert.False(t, h.IsViewer(conn))
}

func TestSendToConnectionBufferFull(t *testing.T) {
	h := NewHub()
	conn := h.NewConnection(nil)
	assert.ErrorIs(t, h.SendToConnection(conn, []byte("x")), ErrNotConnected)

	h.Register(conn)
	for i := 0; i < cap(conn.Send); i++ {
		require.NoError(t, h.SendToConnection(conn, []byte("x")))
	}
	assert.ErrorIs(t, h.SendToConnection(conn, []byte("x")), ErrBufferFull)
}

func TestSendAfterUnregisterDoesNotPanic(t *testing.T) {
	h := startHub(t)
	conn := h.NewConnection(nil)
	h.Register(conn)
	h.Unregister(conn)
	registered(t, h, 0)

	assert.ErrorIs(t, h.SendJSONToConnection(conn, map[string]string{"type": "error"}), ErrNotConnected)
}

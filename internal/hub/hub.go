// Package hub provides connection management for WebSocket viewers.
package hub

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/protocol"
)

// Connection represents a single WebSocket connection.
type Connection struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
	hub  *Hub
	mu   sync.Mutex
}

// Hub manages all WebSocket connections. Every connection that completed the
// hello handshake receives every published change.
type Hub struct {
	// Connections indexed by connection ID
	connections map[string]*Connection

	// Connections whose hello was accepted
	joined map[string]bool

	// Connections receiving published changes, set by the run loop
	viewers map[string]bool

	// Unregistration goes through the run loop, which owns closing Send
	unregister chan *Connection

	// Published changes and joins, delivered in the order they were queued
	broadcast chan outbound

	mu sync.RWMutex
}

// outbound is either a change for all viewers or a join: a connection that
// starts receiving changes right after its greeting frames.
type outbound struct {
	data     []byte
	join     *Connection
	greeting [][]byte
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*Connection),
		joined:      make(map[string]bool),
		viewers:     make(map[string]bool),
		unregister:  make(chan *Connection),
		broadcast:   make(chan outbound, 256),
	}
}

// Run starts the hub's main loop. It returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.connections[conn.ID]; ok {
				delete(h.connections, conn.ID)
				delete(h.joined, conn.ID)
				delete(h.viewers, conn.ID)
				close(conn.Send)
			}
			h.mu.Unlock()
			log.Printf("Connection unregistered: %s", conn.ID)

		case out := <-h.broadcast:
			if out.join != nil {
				h.subscribe(out.join, out.greeting)
				continue
			}
			h.mu.RLock()
			for connID := range h.viewers {
				conn, exists := h.connections[connID]
				if !exists {
					continue
				}
				select {
				case conn.Send <- out.data:
				default:
					// Buffer full, close the connection
					log.Printf("WARN: connection %s buffer full, closing", connID)
					go h.Unregister(conn)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// subscribe sends the greeting and adds conn to the viewers. It runs on the
// run loop, so no change queued before the join reaches conn.
func (h *Hub) subscribe(conn *Connection, greeting [][]byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.connections[conn.ID]; !ok {
		return
	}
	for _, data := range greeting {
		select {
		case conn.Send <- data:
		default:
			log.Printf("WARN: connection %s buffer full on join, closing", conn.ID)
			go h.Unregister(conn)
			return
		}
	}
	h.viewers[conn.ID] = true
}

// NewConnection creates a new connection. Call Register to add it to the hub.
func (h *Hub) NewConnection(ws *websocket.Conn) *Connection {
	return &Connection{
		ID:   "conn_" + uuid.New().String()[:8],
		Conn: ws,
		Send: make(chan []byte, 256),
		hub:  h,
	}
}

// Register registers a connection with the hub.
func (h *Hub) Register(conn *Connection) {
	h.mu.Lock()
	h.connections[conn.ID] = conn
	h.mu.Unlock()
	log.Printf("Connection registered: %s", conn.ID)
}

// Unregister unregisters a connection from the hub.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Join accepts the hello of conn. The greeting frames are sent first, then
// every change published after Join was called. Changes published before it
// are not delivered to conn.
func (h *Hub) Join(conn *Connection, greeting ...interface{}) error {
	frames := make([][]byte, 0, len(greeting))
	for _, v := range greeting {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		frames = append(frames, data)
	}

	h.mu.Lock()
	h.joined[conn.ID] = true
	h.mu.Unlock()

	h.broadcast <- outbound{join: conn, greeting: frames}
	return nil
}

// IsViewer reports whether conn completed the hello handshake.
func (h *Hub) IsViewer(conn *Connection) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.joined[conn.ID]
}

// Publish sends a session change to all viewers.
func (h *Hub) Publish(ch domain.Change) {
	if err := h.BroadcastJSON(protocol.NewChangeMessage(ch, time.Now().UnixMilli())); err != nil {
		log.Printf("ERROR: failed to encode %s change: %v", ch.Type, err)
	}
}

// Broadcast sends raw data to all viewers.
func (h *Hub) Broadcast(data []byte) {
	h.broadcast <- outbound{data: data}
}

// BroadcastJSON sends a JSON message to all viewers.
func (h *Hub) BroadcastJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(data)
	return nil
}

// SendToConnection sends a message to a specific connection. It fails once
// the connection has been unregistered.
func (h *Hub) SendToConnection(conn *Connection, data []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.connections[conn.ID]; !ok {
		return ErrNotConnected
	}
	select {
	case conn.Send <- data:
		return nil
	default:
		return ErrBufferFull
	}
}

// SendJSONToConnection sends a JSON message to a specific connection.
func (h *Hub) SendJSONToConnection(conn *Connection, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return h.SendToConnection(conn, data)
}

// GetConnectionCount returns the number of active connections.
func (h *Hub) GetConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// GetViewerCount returns the number of connections receiving changes.
func (h *Hub) GetViewerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers)
}

// WriteMessage writes a message to the connection with proper locking.
func (c *Connection) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}

// SetWriteDeadline sets the write deadline for the connection.
func (c *Connection) SetWriteDeadline(t time.Time) error {
	return c.Conn.SetWriteDeadline(t)
}

// SetReadDeadline sets the read deadline for the connection.
func (c *Connection) SetReadDeadline(t time.Time) error {
	return c.Conn.SetReadDeadline(t)
}

// Close closes the connection.
func (c *Connection) Close() error {
	return c.Conn.Close()
}

// ErrNotConnected is returned when sending to an unregistered connection.
var ErrNotConnected = errors.New("connection not registered")

// ErrBufferFull is returned when the send buffer is full.
var ErrBufferFull = &BufferFullError{}

// BufferFullError represents a buffer full error.
type BufferFullError struct{}

func (e *BufferFullError) Error() string {
	return "send buffer full"
}

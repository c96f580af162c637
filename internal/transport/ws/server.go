// Package ws provides WebSocket server functionality for live viewers.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/config"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/hub"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/protocol"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/service"
)

// Server handles WebSocket connections.
type Server struct {
	cfg      *config.Config
	hub      *hub.Hub
	service  *service.Service
	upgrader websocket.Upgrader
}

// NewServer creates a new WebSocket server.
func NewServer(cfg *config.Config, h *hub.Hub, svc *service.Service) *Server {
	return &Server{
		cfg:     cfg,
		hub:     h,
		service: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWebSocket handles WebSocket upgrade and connection lifecycle.
func (s *Server) HandleWebSocket(c echo.Context) error {
	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("Failed to upgrade WebSocket: %v", err)
		return err
	}

	// Create and register connection
	conn := s.hub.NewConnection(ws)
	s.hub.Register(conn)

	// Set up connection parameters
	ws.SetReadLimit(s.cfg.MaxMessageSize)

	// Start reader and writer goroutines
	go s.writePump(conn)
	go s.readPump(conn)

	return nil
}

// readPump reads messages from the WebSocket connection.
func (s *Server) readPump(conn *hub.Connection) {
	defer func() {
		s.hub.Unregister(conn)
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	conn.Conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		return nil
	})

	for {
		_, message, err := conn.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		s.handleMessage(conn, message)
	}
}

// writePump writes messages to the WebSocket connection.
func (s *Server) writePump(conn *hub.Connection) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if !ok {
				// Hub closed the channel
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Failed to write message: %v", err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage dispatches incoming messages to appropriate handlers.
func (s *Server) handleMessage(conn *hub.Connection, data []byte) {
	var baseMsg protocol.BaseMessage
	if err := json.Unmarshal(data, &baseMsg); err != nil {
		s.sendError(conn, "", protocol.ErrorCodeInvalidMessage, "invalid JSON message")
		return
	}

	if baseMsg.Type == protocol.TypeHello {
		s.handleHello(conn, data)
		return
	}

	// Everything else requires a completed handshake
	if !s.hub.IsViewer(conn) {
		s.sendError(conn, baseMsg.RequestID, protocol.ErrorCodeHelloRequired, "must send hello first")
		return
	}

	switch baseMsg.Type {
	case protocol.TypeAsk:
		s.handleAsk(conn, data)
	case protocol.TypeRunBatch:
		s.handleRunBatch(conn, baseMsg)
	case protocol.TypeReact:
		s.handleReact(conn, data)
	case protocol.TypeSetBatchVisible:
		s.handleSetBatchVisible(conn, data)
	default:
		s.sendError(conn, baseMsg.RequestID, protocol.ErrorCodeInvalidMessage, "unknown message type: "+baseMsg.Type)
	}
}

// handleHello sends hello_ack and the current snapshot, then subscribes the
// connection. The viewer receives exactly the changes made after its snapshot.
func (s *Server) handleHello(conn *hub.Connection, data []byte) {
	var msg protocol.HelloMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(conn, "", protocol.ErrorCodeInvalidMessage, "invalid hello message")
		return
	}

	now := time.Now().UnixMilli()
	var err error
	s.service.Attach(func(snap domain.Snapshot) {
		err = s.hub.Join(conn,
			protocol.HelloAckMessage{
				BaseMessage:  protocol.BaseMessage{Type: protocol.TypeHelloAck, Ts: now, RequestID: msg.RequestID},
				ConnectionID: conn.ID,
			},
			protocol.SnapshotMessage{
				BaseMessage: protocol.BaseMessage{Type: protocol.TypeSnapshot, Ts: now, RequestID: msg.RequestID},
				Snapshot:    snap,
			},
		)
	})
	if err != nil {
		log.Printf("ERROR: failed to encode snapshot for %s: %v", conn.ID, err)
		s.sendError(conn, msg.RequestID, protocol.ErrorCodeInternalError, "failed to encode snapshot")
		return
	}

	log.Printf("Hello handshake completed for connection: %s", conn.ID)
}

// handleAsk runs a manual ask without blocking the read loop. Results reach
// every viewer as published changes.
func (s *Server) handleAsk(conn *hub.Connection, data []byte) {
	var msg protocol.AskMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(conn, "", protocol.ErrorCodeInvalidMessage, "invalid ask message")
		return
	}

	go func() {
		if _, err := s.service.SubmitQuery(context.Background(), msg.Question); err != nil {
			s.sendServiceError(conn, msg.RequestID, err)
		}
	}()
}

// handleRunBatch starts a batch run.
func (s *Server) handleRunBatch(conn *hub.Connection, base protocol.BaseMessage) {
	go func() {
		if _, err := s.service.StartBatch(context.Background()); err != nil {
			s.sendServiceError(conn, base.RequestID, err)
		}
	}()
}

// handleReact sets a reaction on a message.
func (s *Server) handleReact(conn *hub.Connection, data []byte) {
	var msg protocol.ReactMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(conn, "", protocol.ErrorCodeInvalidMessage, "invalid react message")
		return
	}

	if _, err := s.service.SetReaction(context.Background(), msg.Index, msg.Reaction); err != nil {
		s.sendServiceError(conn, msg.RequestID, err)
	}
}

// handleSetBatchVisible toggles batch rows for all viewers.
func (s *Server) handleSetBatchVisible(conn *hub.Connection, data []byte) {
	var msg protocol.SetBatchVisibleMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(conn, "", protocol.ErrorCodeInvalidMessage, "invalid set_batch_visible message")
		return
	}

	s.service.SetBatchVisible(msg.Visible)
}

func (s *Server) sendServiceError(conn *hub.Connection, requestID string, err error) {
	code := protocol.CodeFor(err)
	if errors.Is(err, domain.ErrTransport) {
		log.Printf("WARN: ask from %s failed: %v", conn.ID, err)
	}
	s.sendError(conn, requestID, code, err.Error())
}

// sendError sends an error message to a connection.
func (s *Server) sendError(conn *hub.Connection, requestID, code, message string) {
	errMsg := protocol.ErrorMessage{
		BaseMessage: protocol.BaseMessage{
			Type:      protocol.TypeError,
			Ts:        time.Now().UnixMilli(),
			RequestID: requestID,
		},
		Code:    code,
		Message: message,
	}
	if err := s.hub.SendJSONToConnection(conn, errMsg); err != nil {
		log.Printf("WARN: failed to send error to %s: %v", conn.ID, err)
	}
}

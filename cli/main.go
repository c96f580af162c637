// Package main provides a terminal client for the Q&A session WebSocket server.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/protocol"
)

// Client represents a WebSocket client.
type Client struct {
	conn         *websocket.Conn
	connectionID string
	view         *view
	done         chan struct{}
}

// NewClient creates a new client and connects to the server.
func NewClient(addr string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}

	return &Client{
		conn: conn,
		view: &view{},
		done: make(chan struct{}),
	}, nil
}

// Close closes the client connection.
func (c *Client) Close() error {
	close(c.done)
	return c.conn.Close()
}

// SendHello sends a hello message, waits for hello_ack and applies the
// snapshot that follows it.
func (c *Client) SendHello() error {
	msg := protocol.HelloMessage{
		BaseMessage: c.base(protocol.TypeHello),
		ClientMeta: map[string]string{
			"client": "qa-cli",
		},
	}

	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("write hello: %w", err)
	}

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read hello reply: %w", err)
		}

		var base protocol.BaseMessage
		if err := json.Unmarshal(data, &base); err != nil {
			return fmt.Errorf("unmarshal hello reply: %w", err)
		}

		switch base.Type {
		case protocol.TypeError:
			var errMsg protocol.ErrorMessage
			json.Unmarshal(data, &errMsg)
			return fmt.Errorf("hello failed: %s - %s", errMsg.Code, errMsg.Message)
		case protocol.TypeHelloAck:
			var ack protocol.HelloAckMessage
			if err := json.Unmarshal(data, &ack); err != nil {
				return fmt.Errorf("unmarshal hello_ack: %w", err)
			}
			c.connectionID = ack.ConnectionID
		case protocol.TypeSnapshot:
			var snap protocol.SnapshotMessage
			if err := json.Unmarshal(data, &snap); err != nil {
				return fmt.Errorf("unmarshal snapshot: %w", err)
			}
			c.view.applySnapshot(snap.Snapshot)
			return nil
		default:
			return fmt.Errorf("expected hello_ack, got: %s", base.Type)
		}
	}
}

func (c *Client) base(typ string) protocol.BaseMessage {
	return protocol.BaseMessage{
		Type:      typ,
		Ts:        time.Now().UnixMilli(),
		RequestID: fmt.Sprintf("req_%d", time.Now().UnixNano()),
	}
}

// Ask submits a manual question.
func (c *Client) Ask(question string) error {
	return c.conn.WriteJSON(protocol.AskMessage{
		BaseMessage: c.base(protocol.TypeAsk),
		Question:    question,
	})
}

// RunBatch starts a batch run.
func (c *Client) RunBatch() error {
	return c.conn.WriteJSON(protocol.RunBatchMessage{BaseMessage: c.base(protocol.TypeRunBatch)})
}

// React sets a reaction on a message.
func (c *Client) React(index int, reaction string) error {
	r, ok := parseReaction(reaction)
	if !ok {
		return fmt.Errorf("unknown reaction %q (use up, down or heart)", reaction)
	}
	return c.conn.WriteJSON(protocol.ReactMessage{
		BaseMessage: c.base(protocol.TypeReact),
		Index:       index,
		Reaction:    r,
	})
}

// SetBatchVisible toggles batch rows in the evaluation table.
func (c *Client) SetBatchVisible(visible bool) error {
	return c.conn.WriteJSON(protocol.SetBatchVisibleMessage{
		BaseMessage: c.base(protocol.TypeSetBatchVisible),
		Visible:     visible,
	})
}

// ReadMessages reads changes from the server, applies them and prints what is new.
func (c *Client) ReadMessages() {
	for {
		select {
		case <-c.done:
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					log.Printf("Read error: %v", err)
				}
				return
			}

			var base protocol.BaseMessage
			if err := json.Unmarshal(data, &base); err != nil {
				log.Printf("Unmarshal error: %v", err)
				continue
			}

			switch base.Type {
			case protocol.TypeError:
				var errMsg protocol.ErrorMessage
				json.Unmarshal(data, &errMsg)
				fmt.Printf("\n! %s: %s\n", errMsg.Code, errMsg.Message)
			default:
				var ch protocol.ChangeMessage
				if err := json.Unmarshal(data, &ch); err != nil {
					log.Printf("Unmarshal error: %v", err)
					continue
				}
				if c.view.applyChange(ch) {
					c.printChange(ch)
				}
			}
		}
	}
}

func (c *Client) printChange(ch protocol.ChangeMessage) {
	switch ch.Type {
	case protocol.TypeMessageAppended, protocol.TypeMessageUpdated:
		fmt.Println()
		printMessage(os.Stdout, ch.Index, *ch.Message, c.view.questionFor(ch.Index))
	case protocol.TypeRecordAppended:
		if ch.Record.Origin == domain.OriginBatch {
			fmt.Printf("\n  batch %d: %s\n", ch.Index, truncate(ch.Record.Question, 60))
		}
	case protocol.TypeState:
		fmt.Printf("\n  state: %s (batch rows shown: %t)\n", ch.State.State, ch.State.BatchVisible)
	case protocol.TypeBatchDone:
		if s := ch.Summary; s != nil {
			fmt.Printf("\n  batch %s done: %d/%d recorded, %d failed, aborted=%t (%dms)\n",
				s.RunID, s.Recorded, s.Total, s.Failed, s.Aborted, s.LatencyMs)
		}
	}
}

const usage = `Type a question and press Enter to ask.
Commands:
  /batch              run the batch question set
  /react N up|down|heart
  /show-batch on|off  show or hide batch rows in the table
  /table              print the evaluation table
  /history            print the conversation
  /quit               exit`

func (c *Client) command(input string) (quit bool, err error) {
	fields := strings.Fields(input)
	switch fields[0] {
	case "/quit":
		return true, nil
	case "/batch":
		return false, c.RunBatch()
	case "/react":
		if len(fields) != 3 {
			return false, fmt.Errorf("usage: /react N up|down|heart")
		}
		index, err := strconv.Atoi(fields[1])
		if err != nil {
			return false, fmt.Errorf("invalid message index %q", fields[1])
		}
		if _, ok := c.view.messageAt(index); !ok {
			return false, fmt.Errorf("no message %d", index)
		}
		return false, c.React(index, fields[2])
	case "/show-batch":
		if len(fields) != 2 || (fields[1] != "on" && fields[1] != "off") {
			return false, fmt.Errorf("usage: /show-batch on|off")
		}
		return false, c.SetBatchVisible(fields[1] == "on")
	case "/table":
		printTable(os.Stdout, c.view.rows())
	case "/history":
		for i, msg := range c.view.allMessages() {
			printMessage(os.Stdout, i, msg, c.view.questionFor(i))
		}
	default:
		fmt.Println(usage)
	}
	return false, nil
}

func main() {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket server address")
	flag.Parse()

	log.SetFlags(log.Ltime)

	fmt.Printf("Connecting to %s...\n", *addr)

	client, err := NewClient(*addr)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer client.Close()

	fmt.Println("Connected. Sending hello...")

	if err := client.SendHello(); err != nil {
		log.Fatalf("Hello failed: %v", err)
	}

	fmt.Printf("Viewer established: %s\n", client.connectionID)
	for i, msg := range client.view.allMessages() {
		printMessage(os.Stdout, i, msg, client.view.questionFor(i))
	}
	fmt.Printf("\n%s\n\n", usage)

	// Start reading messages in background
	go client.ReadMessages()

	// Handle Ctrl+C
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		fmt.Println("\nInterrupted")
		client.Close()
		os.Exit(0)
	}()

	// Read user input
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			quit, err := client.command(input)
			if err != nil {
				log.Printf("%v", err)
			}
			if quit {
				fmt.Println("Bye!")
				return
			}
			continue
		}

		if err := client.Ask(input); err != nil {
			log.Printf("Send error: %v", err)
			continue
		}
	}
}

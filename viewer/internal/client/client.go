package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultURL matches the server's default listen address and path.
const DefaultURL = "ws://localhost:8080/"

const (
	handshakeTimeout = 10 * time.Second
	closeGrace       = time.Second
	maxMessageSize   = 16 << 20
)

// EventKind enumerates the connection lifecycle.
type EventKind int

const (
	EventOpen EventKind = iota
	EventMessage
	EventClose
)

func (k EventKind) String() string {
	switch k {
	case EventOpen:
		return "open"
	case EventMessage:
		return "message"
	case EventClose:
		return "close"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one lifecycle step. Data is set for EventMessage; Err may be set
// for EventClose when the connection ended abnormally.
type Event struct {
	Kind EventKind
	Data []byte
	Err  error
}

// Client owns one connection attempt to a server.
type Client struct {
	url    string
	dialer *websocket.Dialer
}

// New returns a Client for url.
func New(url string) *Client {
	return &Client{
		url: url,
		dialer: &websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
		},
	}
}

// URL returns the address the client dials.
func (c *Client) URL() string { return c.url }

// Run dials the server and delivers events to handle until the connection
// closes or ctx is cancelled. handle is called from Run's goroutine only.
// A dial failure is returned without any event; every successful dial yields
// exactly one EventOpen and one EventClose.
func (c *Client) Run(ctx context.Context, handle func(Event)) error {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("client: dial %s: %w", c.url, err)
	}
	conn.SetReadLimit(maxMessageSize)

	slog.Info("client: connected", "url", c.url)
	handle(Event{Kind: EventOpen})

	// Closing on cancel unblocks ReadMessage below.
	stop := context.AfterFunc(ctx, func() {
		deadline := time.Now().Add(closeGrace)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		conn.Close()
	})
	defer stop()

	var closeErr error
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && !isNormalClose(err) {
				closeErr = err
			}
			break
		}
		if mt != websocket.TextMessage {
			continue
		}
		handle(Event{Kind: EventMessage, Data: data})
	}
	conn.Close()

	slog.Info("client: disconnected", "url", c.url, "err", closeErr)
	handle(Event{Kind: EventClose, Err: closeErr})
	return nil
}

func isNormalClose(err error) bool {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code == websocket.CloseNormalClosure || ce.Code == websocket.CloseGoingAway
	}
	return false
}

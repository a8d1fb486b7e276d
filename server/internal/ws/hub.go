package ws

import (
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/obsidianstack/graphcast/server/internal/metrics"
)

const (
	// writeTimeout is the deadline for a single write to a client.
	writeTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong response before treating the
	// connection as dead.
	pongWait = 60 * time.Second

	// pingPeriod controls how often the server sends WebSocket ping frames.
	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxInbound caps frames read from viewers; they are discarded anyway.
	maxInbound = 512

	defaultBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Event is a connection lifecycle event.
type Event int

const (
	EventOpen Event = iota
	EventMessage
	EventClose
)

func (e Event) String() string {
	switch e {
	case EventOpen:
		return "open"
	case EventMessage:
		return "message"
	case EventClose:
		return "close"
	default:
		return "unknown"
	}
}

// Connection states. Only connOpen clients receive broadcasts.
const (
	connOpen int32 = iota
	connClosing
	connClosed
)

// LatestFunc returns the encoded snapshot currently held, if any.
type LatestFunc func() (data []byte, ok bool)

// Options configures a Hub.
type Options struct {
	// Buffer is the per-client outgoing queue depth (default 16).
	Buffer int

	// SendOnConnect sends Latest() to a client right after it connects.
	SendOnConnect bool
	Latest        LatestFunc

	Metrics *metrics.Metrics
}

// Hub manages viewer connections.
type Hub struct {
	opts Options

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

// client represents one connected viewer.
type client struct {
	id     string
	remote string
	conn   *websocket.Conn
	send   chan []byte
	state  atomic.Int32
}

// New creates a Hub.
func New(opts Options) *Hub {
	if opts.Buffer <= 0 {
		opts.Buffer = defaultBuffer
	}
	return &Hub{
		opts:    opts,
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the HTTP connection to WebSocket and serves the viewer
// until the connection closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		slog.Debug("ws: upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	c := &client{
		id:     uuid.NewString(),
		remote: r.RemoteAddr,
		conn:   conn,
		send:   make(chan []byte, h.opts.Buffer),
	}
	if !h.handle(c, EventOpen, nil, nil) {
		conn.Close()
		return
	}

	go c.writePump()
	c.readPump(h) // blocks until connection closes
}

// Broadcast queues data to every open client. The same slice is handed to each
// client and must not be modified afterwards. Clients that are not open or
// whose buffer is full are skipped.
func (h *Hub) Broadcast(data []byte) (sent, skipped int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if c.state.Load() != connOpen {
			skipped++
			continue
		}
		select {
		case c.send <- data:
			sent++
		default:
			skipped++
		}
	}
	return sent, skipped
}

// Count returns the number of currently connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll sends a close frame to every client and stops accepting new ones.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}

// --- internal ---------------------------------------------------------------

// handle is the single dispatch point for connection events. For EventOpen it
// reports whether the client was accepted.
func (h *Hub) handle(c *client, ev Event, payload []byte, err error) bool {
	switch ev {
	case EventOpen:
		if !h.register(c) {
			slog.Warn("ws: rejecting client, hub is closed", "remote", c.remote)
			return false
		}
		slog.Info("ws: client connected", "client", c.id, "remote", c.remote, "clients", h.Count())
		if h.opts.SendOnConnect && h.opts.Latest != nil {
			h.sendLatest(c)
		}

	case EventMessage:
		slog.Debug("ws: ignoring inbound message", "client", c.id, "bytes", len(payload))

	case EventClose:
		c.state.CompareAndSwap(connOpen, connClosing)
		h.unregister(c)
		slog.Info("ws: client disconnected", "client", c.id, "remote", c.remote, "reason", closeReason(err))
	}
	return true
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	c.state.Store(connOpen)
	h.clients[c] = struct{}{}
	h.opts.Metrics.ClientConnected()
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		h.removeLocked(c)
	}
}

// removeLocked must be called with h.mu held for writing.
func (h *Hub) removeLocked(c *client) {
	c.state.Store(connClosed)
	delete(h.clients, c)
	close(c.send)
	h.opts.Metrics.ClientDisconnected()
}

func (h *Hub) sendLatest(c *client) {
	data, ok := h.opts.Latest()
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if c.state.Load() != connOpen {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func closeReason(err error) string {
	if err == nil {
		return "closed"
	}
	if ce, ok := err.(*websocket.CloseError); ok {
		return ce.Error()
	}
	return err.Error()
}

// writePump drains the client's send channel and forwards messages to the
// WebSocket connection. It also sends periodic ping frames. Runs in its own
// goroutine per client.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck
			if !ok {
				// Channel was closed (hub is shutting down or client removed).
				c.conn.WriteMessage(websocket.CloseMessage, //nolint:errcheck
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.state.CompareAndSwap(connOpen, connClosing)
				slog.Debug("ws: write failed", "client", c.id, "err", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.state.CompareAndSwap(connOpen, connClosing)
				return
			}
		}
	}
}

// readPump reads frames to process control messages (pong, close) and detect
// disconnects. Blocks until the connection closes, then dispatches EventClose.
func (c *client) readPump(h *Hub) {
	defer c.conn.Close()
	c.conn.SetReadLimit(maxInbound)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			h.handle(c, EventClose, nil, err)
			return
		}
		h.handle(c, EventMessage, msg, nil)
	}
}

package ws

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"clickarena/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to the peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size in bytes
	maxMessageSize = 1024

	// Buffer size for outgoing messages; a connection that falls this far
	// behind is disconnected by the hub
	sendBufferSize = 256
)

// Client is the per-connection session state: one Client per open transport.
// An identity may hold several concurrent sessions.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	identityID  model.IdentityID
	role        model.Role
	send        chan []byte
	connectedAt time.Time
	logger      *slog.Logger

	// mu guards closed. The hub may cut a session loose while its read
	// goroutine is still enqueueing a direct reply; once closed is set the
	// send channel must never be written to again.
	mu     sync.Mutex
	closed bool
}

// newClient creates a session for an authenticated connection
func newClient(hub *Hub, conn *websocket.Conn, id model.IdentityID, role model.Role, logger *slog.Logger) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		identityID:  id,
		role:        role,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
		logger:      logger.With(slog.String("identity_id", string(id))),
	}
}

// enqueue queues a message for this connection only. Non-blocking: if the
// buffer is full the message is dropped, delivery is best-effort. After the
// hub has disconnected the session the message is dropped as well.
func (c *Client) enqueue(message []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		c.logger.Debug("direct message dropped - session closed")
		return
	}
	select {
	case c.send <- message:
	default:
		c.logger.Warn("direct message dropped - client buffer full")
	}
}

// closeSend closes the send buffer, which stops the write pump. Only the hub
// calls this, and at most once per session.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// readPump reads inbound messages and hands them to onMessage until the
// transport closes or errors. It runs on the connection's serving goroutine.
func (c *Client) readPump(onMessage func(*Client, []byte)) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("unexpected close", slog.Any("error", err))
			}
			return
		}
		onMessage(c, message)
	}
}

// writePump drains the send buffer onto the transport and keeps the
// connection alive with pings. It exits when the hub closes the send
// channel or a write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

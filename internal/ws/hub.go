package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"clickarena/internal/model"
)

// Envelope is the wire format for every message on the live channel
type Envelope struct {
	Type    model.EventKind `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub owns the connection registry and fans events out to every live
// connection. There is no topic filtering: every registered connection
// receives every published event, best-effort and at-most-once. A connection
// whose outbound buffer saturates is disconnected rather than allowed to
// stall the publisher.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex
	logger  *slog.Logger

	broadcast chan []byte
	done      chan struct{}
}

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:   make(map[*Client]bool),
		logger:    logger.With(slog.String("component", "ws-hub")),
		broadcast: make(chan []byte, 256),
		done:      make(chan struct{}),
	}
}

// Run starts the hub's delivery loop
func (h *Hub) Run() {
	h.logger.Info("hub started")
	for {
		select {
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Saturated consumer: cut it loose instead of
					// stalling or silently dropping events for it
					delete(h.clients, client)
					client.closeSend()
					h.logger.Warn("client disconnected - send buffer full",
						slog.String("identity_id", string(client.identityID)))
				}
			}
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				client.closeSend()
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

// Register adds a client to the registry. The client observes every event
// published after Register returns.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client registered",
		slog.String("identity_id", string(client.identityID)),
		slog.Int("total_clients", clientCount))
}

// Unregister removes a client from the registry and closes its send buffer.
// Safe to call for a client the hub already disconnected.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		client.closeSend()
	}
	clientCount := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.logger.Info("client unregistered",
			slog.String("identity_id", string(client.identityID)),
			slog.Duration("connection_duration", time.Since(client.connectedAt)),
			slog.Int("total_clients", clientCount))
	}
}

// Publish delivers an event to every registered connection. Per-connection
// delivery is best-effort, but the hand-off to the delivery loop is not: the
// loop only does non-blocking per-client enqueues, so waiting here is brief
// and no event is lost for every consumer at once. After Close the event is
// discarded.
func (h *Hub) Publish(kind model.EventKind, payload any) {
	message, err := marshalEnvelope(kind, payload)
	if err != nil {
		h.logger.Error("failed to marshal event",
			slog.String("kind", string(kind)),
			slog.Any("error", err))
		return
	}

	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

// Close shuts down the hub
func (h *Hub) Close() {
	close(h.done)
}

// ClientCount returns the number of registered connections
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// marshalEnvelope encodes an event kind and payload into the wire format
func marshalEnvelope(kind model.EventKind, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: kind, Payload: data})
}

package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"clickarena/internal/model"
)

// queryTimeout bounds storage reads triggered by channel requests
const queryTimeout = 5 * time.Second

// CredentialVerifier turns a bearer token into an identity id and role
type CredentialVerifier interface {
	Verify(token string) (model.IdentityID, model.Role, error)
}

// PresenceTracker records connection lifecycle transitions
type PresenceTracker interface {
	MarkOnline(id model.IdentityID)
	MarkOffline(id model.IdentityID)
}

// CountReader reads the current counter value for an identity
type CountReader interface {
	Count(ctx context.Context, id model.IdentityID) (uint64, error)
}

// Handler serves the live channel: it gates the handshake on a valid
// credential, then wires the connection into the hub and the presence
// tracker for its lifetime.
type Handler struct {
	hub      *Hub
	verifier CredentialVerifier
	presence PresenceTracker
	counts   CountReader
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a new live channel handler
func NewHandler(hub *Hub, verifier CredentialVerifier, presence PresenceTracker, counts CountReader, logger *slog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		verifier: verifier,
		presence: presence,
		counts:   counts,
		logger:   logger.With(slog.String("component", "ws")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The API is bearer-token authenticated, not cookie
			// authenticated, so cross-origin upgrades are safe
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP handles the channel handshake. The credential is checked once,
// before the upgrade: a missing or invalid token is refused with 401 and no
// session state is allocated and no event is published.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	id, role, err := h.verifier.Verify(token)
	if err != nil {
		h.logger.Info("handshake refused", slog.Any("error", err))
		http.Error(w, "authentication failed", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response
		h.logger.Debug("upgrade failed", slog.Any("error", err))
		return
	}

	client := newClient(h.hub, conn, id, role, h.logger)
	h.hub.Register(client)
	h.presence.MarkOnline(id)

	// The offline transition must happen however the session ends, including
	// a panic escaping a message handler
	defer func() {
		h.hub.Unregister(client)
		h.presence.MarkOffline(id)
	}()

	go client.writePump()

	// Serve reads on this goroutine; returning means the transport closed
	// or errored, which triggers the offline transition
	client.readPump(h.handleMessage)
}

// handleMessage dispatches one inbound channel message. Failures are scoped
// to the message: they are logged and the connection lives on.
func (h *Handler) handleMessage(c *Client, message []byte) {
	var envelope struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(message, &envelope); err != nil {
		c.logger.Debug("malformed channel message", slog.Any("error", err))
		return
	}

	switch envelope.Type {
	case model.MessageQueryCount:
		h.handleQueryCount(c, envelope.Payload)
	default:
		c.logger.Debug("unknown channel message", slog.String("type", envelope.Type))
	}
}

// handleQueryCount answers a query-count request with a count-result sent to
// the requesting connection only
func (h *Handler) handleQueryCount(c *Client, payload json.RawMessage) {
	var query model.QueryCountPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &query); err != nil {
			c.logger.Debug("malformed query-count payload", slog.Any("error", err))
			return
		}
	}
	// No explicit id means the caller asks about itself
	if query.IdentityID == "" {
		query.IdentityID = c.identityID
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	count, err := h.counts.Count(ctx, query.IdentityID)
	if err != nil {
		c.logger.Warn("query-count failed",
			slog.String("queried_id", string(query.IdentityID)),
			slog.Any("error", err))
		return
	}

	message, err := marshalEnvelope(model.EventCountResult, model.CountResultPayload{
		IdentityID: query.IdentityID,
		Count:      count,
	})
	if err != nil {
		c.logger.Error("failed to marshal count-result", slog.Any("error", err))
		return
	}
	c.enqueue(message)
}

package presence

import (
	"log/slog"
	"sync"

	"clickarena/internal/model"
)

// Publisher delivers an event to all live connections
type Publisher interface {
	Publish(kind model.EventKind, payload any)
}

// Tracker maintains the online/offline flag per identity. It is the only
// writer of presence state.
//
// Presence is a single boolean per identity, not a connection count: if an
// identity holds several concurrent sessions, a disconnect on any of them
// flips the flag to offline. The flag reflects the most recent lifecycle
// event.
type Tracker struct {
	mu        sync.RWMutex
	online    map[model.IdentityID]bool
	publisher Publisher
	logger    *slog.Logger
}

// New creates a new presence tracker
func New(publisher Publisher, logger *slog.Logger) *Tracker {
	return &Tracker{
		online:    make(map[model.IdentityID]bool),
		publisher: publisher,
		logger:    logger.With(slog.String("component", "presence")),
	}
}

// MarkOnline flags an identity as online. A presence-changed event is
// published exactly once per false-to-true transition.
func (t *Tracker) MarkOnline(id model.IdentityID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.online[id] {
		return
	}
	t.online[id] = true

	t.logger.Info("identity online", slog.String("identity_id", string(id)))
	t.publisher.Publish(model.EventPresenceChanged, model.PresenceChangedPayload{
		IdentityID: id,
		Online:     true,
	})
}

// MarkOffline flags an identity as offline. A presence-changed event is
// published exactly once per true-to-false transition.
func (t *Tracker) MarkOffline(id model.IdentityID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.online[id] {
		return
	}
	delete(t.online, id)

	t.logger.Info("identity offline", slog.String("identity_id", string(id)))
	t.publisher.Publish(model.EventPresenceChanged, model.PresenceChangedPayload{
		IdentityID: id,
		Online:     false,
	})
}

// Query returns the current flag for an identity, false for unknown ones
func (t *Tracker) Query(id model.IdentityID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.online[id]
}

// Snapshot returns a copy of the current presence state
func (t *Tracker) Snapshot() map[model.IdentityID]bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snapshot := make(map[model.IdentityID]bool, len(t.online))
	for id, online := range t.online {
		snapshot[id] = online
	}
	return snapshot
}

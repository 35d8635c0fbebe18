package score

import (
	"context"
	"log/slog"
	"sync"

	"clickarena/internal/model"
	"clickarena/internal/storage"
)

// Publisher delivers an event to all live connections
type Publisher interface {
	Publish(kind model.EventKind, payload any)
}

// Ledger owns the authoritative per-identity counter. Increments for one
// identity are serialized through a keyed mutex so concurrent calls never
// lose updates and their score-changed events carry consecutive counts;
// increments for different identities never contend.
//
// The ledger does not guard against an external administrative override of a
// count: if one races an increment, the last physical write wins.
type Ledger struct {
	storage   storage.Storage
	publisher Publisher
	logger    *slog.Logger

	mu    sync.Mutex
	locks map[model.IdentityID]*sync.Mutex
}

// New creates a new score ledger
func New(store storage.Storage, publisher Publisher, logger *slog.Logger) *Ledger {
	return &Ledger{
		storage:   store,
		publisher: publisher,
		logger:    logger.With(slog.String("component", "score")),
		locks:     make(map[model.IdentityID]*sync.Mutex),
	}
}

// Increment adds one to an identity's counter and returns the new count.
// Returns model.ErrScoreNotFound for identities without a score record and
// model.ErrIdentityBlocked for blocked identities; both leave the count
// unchanged. A score-changed event is published per successful increment.
func (l *Ledger) Increment(ctx context.Context, id model.IdentityID) (uint64, error) {
	lock := l.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	identity, err := l.storage.GetIdentity(ctx, id)
	if err != nil {
		return 0, err
	}
	if identity.Blocked {
		return 0, model.ErrIdentityBlocked
	}

	count, err := l.storage.IncrementScore(ctx, id, 1)
	if err != nil {
		return 0, err
	}

	l.logger.Debug("score incremented",
		slog.String("identity_id", string(id)),
		slog.Uint64("count", count))

	l.publisher.Publish(model.EventScoreChanged, model.ScoreChangedPayload{
		IdentityID: id,
		Count:      count,
	})

	return count, nil
}

// Count returns the current counter value for an identity
func (l *Ledger) Count(ctx context.Context, id model.IdentityID) (uint64, error) {
	score, err := l.storage.GetScore(ctx, id)
	if err != nil {
		return 0, err
	}
	return score.Count, nil
}

// lockFor returns the mutex serializing increments for one identity,
// creating it on first use
func (l *Ledger) lockFor(id model.IdentityID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[id] = lock
	}
	return lock
}

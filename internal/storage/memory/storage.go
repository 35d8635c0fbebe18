package memory

import (
	"context"
	"sync"

	"clickarena/internal/model"
	"clickarena/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	identities    map[model.IdentityID]*model.Identity
	usernameIndex map[string]model.IdentityID
	scores        map[model.IdentityID]uint64
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		identities:    make(map[model.IdentityID]*model.Identity),
		usernameIndex: make(map[string]model.IdentityID),
		scores:        make(map[model.IdentityID]uint64),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Identity operations

func (s *Storage) SaveIdentity(ctx context.Context, identity *model.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.identities[identity.ID]; ok && prev.Username != identity.Username {
		delete(s.usernameIndex, prev.Username)
	}
	s.identities[identity.ID] = identity
	s.usernameIndex[identity.Username] = identity.ID
	return nil
}

func (s *Storage) GetIdentity(ctx context.Context, id model.IdentityID) (*model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	identity, ok := s.identities[id]
	if !ok {
		return nil, model.ErrIdentityNotFound
	}
	return identity, nil
}

func (s *Storage) GetIdentityByUsername(ctx context.Context, username string) (*model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrIdentityNotFound
	}
	identity, ok := s.identities[id]
	if !ok {
		return nil, model.ErrIdentityNotFound
	}
	return identity, nil
}

func (s *Storage) ListIdentities(ctx context.Context) ([]*model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	identities := make([]*model.Identity, 0, len(s.identities))
	for _, identity := range s.identities {
		identities = append(identities, identity)
	}
	return identities, nil
}

func (s *Storage) DeleteIdentity(ctx context.Context, id model.IdentityID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if identity, ok := s.identities[id]; ok {
		delete(s.usernameIndex, identity.Username)
	}
	delete(s.identities, id)
	delete(s.scores, id)
	return nil
}

// Score operations

func (s *Storage) SetScore(ctx context.Context, score *model.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[score.OwnerID] = score.Count
	return nil
}

func (s *Storage) GetScore(ctx context.Context, id model.IdentityID) (*model.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count, ok := s.scores[id]
	if !ok {
		return nil, model.ErrScoreNotFound
	}
	return &model.ScoreRecord{OwnerID: id, Count: count}, nil
}

func (s *Storage) ListScores(ctx context.Context) (map[model.IdentityID]uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scores := make(map[model.IdentityID]uint64, len(s.scores))
	for id, count := range s.scores {
		scores[id] = count
	}
	return scores, nil
}

func (s *Storage) IncrementScore(ctx context.Context, id model.IdentityID, delta uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count, ok := s.scores[id]
	if !ok {
		return 0, model.ErrScoreNotFound
	}
	count += delta
	s.scores[id] = count
	return count, nil
}

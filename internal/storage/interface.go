package storage

import (
	"context"

	"clickarena/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Identity operations. The game core only reads identities; writes come
	// from seeding tooling and external account management.
	SaveIdentity(ctx context.Context, identity *model.Identity) error
	GetIdentity(ctx context.Context, id model.IdentityID) (*model.Identity, error)
	GetIdentityByUsername(ctx context.Context, username string) (*model.Identity, error)
	ListIdentities(ctx context.Context) ([]*model.Identity, error)
	DeleteIdentity(ctx context.Context, id model.IdentityID) error

	// Score operations
	SetScore(ctx context.Context, score *model.ScoreRecord) error
	GetScore(ctx context.Context, id model.IdentityID) (*model.ScoreRecord, error)
	ListScores(ctx context.Context) (map[model.IdentityID]uint64, error)

	// IncrementScore atomically adds delta to an existing score record and
	// returns the new count. Returns model.ErrScoreNotFound if no record
	// exists for the identity.
	IncrementScore(ctx context.Context, id model.IdentityID, delta uint64) (uint64, error)
}

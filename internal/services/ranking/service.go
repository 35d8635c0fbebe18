package ranking

import (
	"context"
	"log/slog"
	"sort"

	"clickarena/internal/model"
	"clickarena/internal/storage"
)

// PresenceReader exposes the presence snapshot the leaderboard decorates
// entries with
type PresenceReader interface {
	Snapshot() map[model.IdentityID]bool
}

// Service recomputes the leaderboard on demand. There is no maintained
// index: every call reads all identities and scores, filters to unblocked
// players and sorts by count descending, ties by identity id. The order is a
// total one, so recomputing without intervening writes returns the same
// listing.
type Service struct {
	storage  storage.Storage
	presence PresenceReader
	logger   *slog.Logger
}

// New creates a new ranking service
func New(store storage.Storage, presence PresenceReader, logger *slog.Logger) *Service {
	return &Service{
		storage:  store,
		presence: presence,
		logger:   logger.With(slog.String("component", "ranking")),
	}
}

// Compute returns an ordered leaderboard snapshot. The snapshot reflects
// score and presence state at the instant of computation and is never
// corrected retroactively.
func (s *Service) Compute(ctx context.Context) ([]model.RankingEntry, error) {
	identities, err := s.storage.ListIdentities(ctx)
	if err != nil {
		return nil, err
	}

	scores, err := s.storage.ListScores(ctx)
	if err != nil {
		return nil, err
	}

	online := s.presence.Snapshot()

	entries := make([]model.RankingEntry, 0, len(identities))
	for _, identity := range identities {
		if identity.Role != model.RolePlayer || identity.Blocked {
			continue
		}
		entries = append(entries, model.RankingEntry{
			ID:       identity.ID,
			Username: identity.Username,
			Count:    scores[identity.ID],
			Online:   online[identity.ID],
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].ID < entries[j].ID
	})

	return entries, nil
}

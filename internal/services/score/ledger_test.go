package score

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"clickarena/internal/model"
	"clickarena/internal/storage/memory"
	"clickarena/internal/testutil"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []model.ScoreChangedPayload
}

func (p *capturePublisher) Publish(kind model.EventKind, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if kind == model.EventScoreChanged {
		p.events = append(p.events, payload.(model.ScoreChangedPayload))
	}
}

func (p *capturePublisher) Events() []model.ScoreChangedPayload {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.ScoreChangedPayload(nil), p.events...)
}

type LedgerSuite struct {
	suite.Suite
	storage   *memory.Storage
	publisher *capturePublisher
	ledger    *Ledger
	ctx       context.Context
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) SetupTest() {
	s.storage = memory.New()
	s.publisher = &capturePublisher{}
	s.ledger = New(s.storage, s.publisher, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *LedgerSuite) seedPlayer(id model.IdentityID, count uint64, blocked bool) {
	s.Require().NoError(s.storage.SaveIdentity(s.ctx, &model.Identity{
		ID:       id,
		Username: string(id),
		Role:     model.RolePlayer,
		Blocked:  blocked,
	}))
	s.Require().NoError(s.storage.SetScore(s.ctx, &model.ScoreRecord{OwnerID: id, Count: count}))
}

func (s *LedgerSuite) TestIncrement() {
	s.seedPlayer("id-1", 0, false)

	count, err := s.ledger.Increment(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal(uint64(1), count)

	count, err = s.ledger.Increment(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal(uint64(2), count)
}

func (s *LedgerSuite) TestIncrementUnknownIdentity() {
	_, err := s.ledger.Increment(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrIdentityNotFound)
	s.Empty(s.publisher.Events())
}

func (s *LedgerSuite) TestIncrementMissingScoreRecord() {
	s.Require().NoError(s.storage.SaveIdentity(s.ctx, &model.Identity{
		ID:   "id-1",
		Role: model.RolePlayer,
	}))

	_, err := s.ledger.Increment(s.ctx, "id-1")
	s.ErrorIs(err, model.ErrScoreNotFound)
	s.Empty(s.publisher.Events())
}

func (s *LedgerSuite) TestIncrementBlockedIdentity() {
	s.seedPlayer("id-1", 7, true)

	_, err := s.ledger.Increment(s.ctx, "id-1")
	s.ErrorIs(err, model.ErrIdentityBlocked)

	// Count unchanged, no event published
	score, err := s.storage.GetScore(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal(uint64(7), score.Count)
	s.Empty(s.publisher.Events())
}

func (s *LedgerSuite) TestIncrementPublishesEvent() {
	s.seedPlayer("id-1", 41, false)

	_, err := s.ledger.Increment(s.ctx, "id-1")
	s.Require().NoError(err)

	events := s.publisher.Events()
	s.Require().Len(events, 1)
	s.Equal(model.ScoreChangedPayload{IdentityID: "id-1", Count: 42}, events[0])
}

func (s *LedgerSuite) TestConcurrentIncrementsLoseNoUpdates() {
	s.seedPlayer("id-1", 0, false)

	const n = 300
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := s.ledger.Increment(s.ctx, "id-1")
			s.NoError(err)
		}()
	}
	wg.Wait()

	count, err := s.ledger.Count(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal(uint64(n), count)
	s.Len(s.publisher.Events(), n)
}

func (s *LedgerSuite) TestConcurrentIncrementsPublishConsecutiveCounts() {
	s.seedPlayer("id-1", 10, false)

	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			_, err := s.ledger.Increment(s.ctx, "id-1")
			s.NoError(err)
		}()
	}
	wg.Wait()

	events := s.publisher.Events()
	s.Require().Len(events, 2)

	// Increments are serialized per identity, so the events carry 11 then 12:
	// never a duplicate, never a skipped value
	s.Equal(uint64(11), events[0].Count)
	s.Equal(uint64(12), events[1].Count)
}

func (s *LedgerSuite) TestConcurrentIncrementsAcrossIdentities() {
	s.seedPlayer("id-1", 0, false)
	s.seedPlayer("id-2", 100, false)

	const n = 100
	var wg sync.WaitGroup
	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := s.ledger.Increment(s.ctx, "id-1")
			s.NoError(err)
		}()
		go func() {
			defer wg.Done()
			_, err := s.ledger.Increment(s.ctx, "id-2")
			s.NoError(err)
		}()
	}
	wg.Wait()

	count1, err := s.ledger.Count(s.ctx, "id-1")
	s.Require().NoError(err)
	count2, err := s.ledger.Count(s.ctx, "id-2")
	s.Require().NoError(err)
	s.Equal(uint64(n), count1)
	s.Equal(uint64(100+n), count2)
}

func (s *LedgerSuite) TestCountUnknownIdentity() {
	_, err := s.ledger.Count(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrScoreNotFound)
}

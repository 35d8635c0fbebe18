package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"clickarena/internal/model"
	"clickarena/internal/storage"
)

// incrScoreScript increments a score field only if it already exists, so an
// increment on an unknown identity surfaces as not-found instead of quietly
// creating a record.
var incrScoreScript = redis.NewScript(`
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 0 then
	return false
end
return redis.call("HINCRBY", KEYS[1], ARGV[1], ARGV[2])
`)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Identity operations

func (s *Storage) SaveIdentity(ctx context.Context, identity *model.Identity) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return err
	}

	// Pipeline the record, the username index and the id set together
	pipe := s.client.Pipeline()
	pipe.Set(ctx, identityKey(identity.ID), data, 0)
	pipe.Set(ctx, usernameIndexKey(identity.Username), string(identity.ID), 0)
	pipe.SAdd(ctx, identitySetKey(), string(identity.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetIdentity(ctx context.Context, id model.IdentityID) (*model.Identity, error) {
	data, err := s.client.Get(ctx, identityKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrIdentityNotFound
		}
		return nil, err
	}

	var identity model.Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (s *Storage) GetIdentityByUsername(ctx context.Context, username string) (*model.Identity, error) {
	idStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrIdentityNotFound
		}
		return nil, err
	}

	return s.GetIdentity(ctx, model.IdentityID(idStr))
}

func (s *Storage) ListIdentities(ctx context.Context) ([]*model.Identity, error) {
	ids, err := s.client.SMembers(ctx, identitySetKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Identity{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = identityKey(model.IdentityID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	identities := make([]*model.Identity, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			// Record expired or deleted out from under the id set
			continue
		}
		var identity model.Identity
		if err := json.Unmarshal([]byte(str), &identity); err != nil {
			return nil, err
		}
		identities = append(identities, &identity)
	}
	return identities, nil
}

func (s *Storage) DeleteIdentity(ctx context.Context, id model.IdentityID) error {
	identity, err := s.GetIdentity(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrIdentityNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, identityKey(id))
	pipe.Del(ctx, usernameIndexKey(identity.Username))
	pipe.SRem(ctx, identitySetKey(), string(id))
	pipe.HDel(ctx, scoresKey(), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

// Score operations

func (s *Storage) SetScore(ctx context.Context, score *model.ScoreRecord) error {
	return s.client.HSet(ctx, scoresKey(), string(score.OwnerID), score.Count).Err()
}

func (s *Storage) GetScore(ctx context.Context, id model.IdentityID) (*model.ScoreRecord, error) {
	value, err := s.client.HGet(ctx, scoresKey(), string(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrScoreNotFound
		}
		return nil, err
	}

	count, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil, err
	}
	return &model.ScoreRecord{OwnerID: id, Count: count}, nil
}

func (s *Storage) ListScores(ctx context.Context) (map[model.IdentityID]uint64, error) {
	values, err := s.client.HGetAll(ctx, scoresKey()).Result()
	if err != nil {
		return nil, err
	}

	scores := make(map[model.IdentityID]uint64, len(values))
	for id, value := range values {
		count, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, err
		}
		scores[model.IdentityID(id)] = count
	}
	return scores, nil
}

func (s *Storage) IncrementScore(ctx context.Context, id model.IdentityID, delta uint64) (uint64, error) {
	result, err := incrScoreScript.Run(ctx, s.client, []string{scoresKey()}, string(id), delta).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Script returned false: no score field for this identity
			return 0, model.ErrScoreNotFound
		}
		return 0, err
	}

	count, ok := result.(int64)
	if !ok {
		return 0, errors.New("unexpected reply type from score increment script")
	}
	return uint64(count), nil
}

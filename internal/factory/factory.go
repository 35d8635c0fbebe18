package factory

import (
	"errors"
	"io"
	"log/slog"

	"clickarena/internal/dependencies/clock"
	"clickarena/internal/services/presence"
	"clickarena/internal/services/ranking"
	"clickarena/internal/services/score"
	"clickarena/internal/services/token"
	"clickarena/internal/storage"
	"clickarena/internal/storage/memory"
	redisstorage "clickarena/internal/storage/redis"
	"clickarena/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	TokenService    *token.Service
	PresenceTracker *presence.Tracker
	ScoreLedger     *score.Ledger
	RankingService  *ranking.Service
	Hub             *ws.Hub
}

// Config holds configuration for the application factory
type Config struct {
	// TokenConfig holds settings for the token service (secret is required)
	TokenConfig token.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	if len(cfg.TokenConfig.Secret) == 0 {
		return nil, errors.New("TokenConfig.Secret is required")
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()

	return newWithDependencies(store, clk, cfg.TokenConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, tokenCfg token.Config, logger *slog.Logger) *App {
	hub := ws.NewHub(logger)
	tokenService := token.New(tokenCfg, clk)
	presenceTracker := presence.New(hub, logger)
	scoreLedger := score.New(store, hub, logger)
	rankingService := ranking.New(store, presenceTracker, logger)

	return &App{
		Storage:         store,
		Clock:           clk,
		TokenService:    tokenService,
		PresenceTracker: presenceTracker,
		ScoreLedger:     scoreLedger,
		RankingService:  rankingService,
		Hub:             hub,
	}
}

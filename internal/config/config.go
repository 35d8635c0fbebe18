package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds server configuration, loaded from CLICKARENA_* environment
// variables
type Config struct {
	Host string `env:"CLICKARENA_HOST" envDefault:""`
	Port int    `env:"CLICKARENA_PORT" envDefault:"8080"`

	// StorageType selects the storage backend ("memory" or "redis")
	StorageType string `env:"CLICKARENA_STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"CLICKARENA_REDIS_URL"`

	TokenSecret string        `env:"CLICKARENA_TOKEN_SECRET"`
	TokenIssuer string        `env:"CLICKARENA_TOKEN_ISSUER" envDefault:"clickarena"`
	TokenTTL    time.Duration `env:"CLICKARENA_TOKEN_TTL" envDefault:"24h"`

	LogLevel string `env:"CLICKARENA_LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from the environment
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that required settings are present and consistent
func (c Config) Validate() error {
	if c.TokenSecret == "" {
		return errors.New("CLICKARENA_TOKEN_SECRET is required")
	}
	if c.StorageType == "redis" && c.RedisURL == "" {
		return errors.New("CLICKARENA_REDIS_URL required when CLICKARENA_STORAGE_TYPE=redis")
	}
	return nil
}

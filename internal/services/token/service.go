package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"clickarena/internal/dependencies/clock"
	"clickarena/internal/model"
)

// Config holds settings for issuing and verifying bearer tokens
type Config struct {
	// Secret is the HMAC signing key shared with the external account system
	Secret []byte
	// Issuer is the expected token issuer
	Issuer string
	// TTL is the lifetime of issued tokens
	TTL time.Duration
}

// DefaultConfig returns default token configuration (without a secret)
func DefaultConfig() Config {
	return Config{
		Issuer: "clickarena",
		TTL:    24 * time.Hour,
	}
}

// Claims are the JWT claims carried by a bearer token
type Claims struct {
	jwt.RegisteredClaims
	Role model.Role `json:"role"`
}

// Service verifies bearer credentials and mints tokens for tooling.
// Verification is a pure token -> (identity, role) mapping; it does not
// consult the identity store.
type Service struct {
	cfg   Config
	clock clock.Clock
}

// New creates a new token service
func New(cfg Config, clk clock.Clock) *Service {
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultConfig().Issuer
	}
	if cfg.TTL == 0 {
		cfg.TTL = DefaultConfig().TTL
	}
	return &Service{cfg: cfg, clock: clk}
}

// Verify decodes a bearer token and returns the identity id and role it
// carries. Any failure (malformed, bad signature, expired, unknown role)
// returns model.ErrInvalidToken.
func (s *Service) Verify(tokenString string) (model.IdentityID, model.Role, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (any, error) {
			return s.cfg.Secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return "", "", model.ErrInvalidToken
	}

	if claims.Subject == "" || !claims.Role.Valid() {
		return "", "", model.ErrInvalidToken
	}

	return model.IdentityID(claims.Subject), claims.Role, nil
}

// Issue mints a signed token for an identity. Used by ops tooling and tests;
// the server itself never hands out credentials.
func (s *Service) Issue(id model.IdentityID, role model.Role) (string, error) {
	now := s.clock.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(id),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
		},
		Role: role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

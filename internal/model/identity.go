package model

import "time"

// IdentityID uniquely identifies an account
type IdentityID string

// Role is an account's role
type Role string

// Account roles
const (
	RoleAdmin  Role = "admin"
	RolePlayer Role = "player"
)

// Valid reports whether the role is a known role
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RolePlayer
}

// Identity represents an account. Role, Blocked and the credential fields are
// managed externally; the game core only reads them.
type Identity struct {
	ID           IdentityID `json:"id"`
	Username     string     `json:"username"`
	Role         Role       `json:"role"`
	Blocked      bool       `json:"blocked"`
	PasswordHash string     `json:"password_hash,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ScoreRecord is the authoritative per-identity counter
type ScoreRecord struct {
	OwnerID IdentityID `json:"owner_id"`
	Count   uint64     `json:"count"`
}

// RankingEntry is one row of a computed leaderboard snapshot.
// Snapshots are derived and never persisted.
type RankingEntry struct {
	ID       IdentityID `json:"id"`
	Username string     `json:"username"`
	Count    uint64     `json:"count"`
	Online   bool       `json:"online"`
}

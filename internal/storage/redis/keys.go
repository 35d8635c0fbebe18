package redis

import (
	"fmt"

	"clickarena/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "clickarena"

// identityKey returns the Redis key for an Identity
func identityKey(id model.IdentityID) string {
	return fmt.Sprintf("%s:identity:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> identity_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// identitySetKey returns the Redis key for the SET of all identity ids
func identitySetKey() string {
	return fmt.Sprintf("%s:identities", keyPrefix)
}

// scoresKey returns the Redis key for the HASH of identity_id -> count
func scoresKey() string {
	return fmt.Sprintf("%s:scores", keyPrefix)
}

package response

import (
	"time"

	"clickarena/internal/model"
)

// ClickResponse is the response after a successful increment
type ClickResponse struct {
	Count uint64 `json:"count"`
}

// RankingEntry represents one leaderboard row in API responses
type RankingEntry struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Count    uint64 `json:"count"`
	Online   bool   `json:"online"`
}

// RankingEntryFromModel converts a model.RankingEntry
func RankingEntryFromModel(e model.RankingEntry) RankingEntry {
	return RankingEntry{
		ID:       string(e.ID),
		Username: e.Username,
		Count:    e.Count,
		Online:   e.Online,
	}
}

// RankingsResponse is the response for the rankings endpoint
type RankingsResponse struct {
	Rankings []RankingEntry `json:"rankings"`
}

// RankingsFromModel converts a computed snapshot
func RankingsFromModel(entries []model.RankingEntry) RankingsResponse {
	rankings := make([]RankingEntry, len(entries))
	for i, e := range entries {
		rankings[i] = RankingEntryFromModel(e)
	}
	return RankingsResponse{Rankings: rankings}
}

// User represents an identity in admin API responses.
// Credential fields are never exposed.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Blocked   bool      `json:"blocked"`
	Count     uint64    `json:"count"`
	Online    bool      `json:"online"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromModel converts a model.Identity plus its score and presence state
func UserFromModel(identity *model.Identity, count uint64, online bool) User {
	return User{
		ID:        string(identity.ID),
		Username:  identity.Username,
		Role:      string(identity.Role),
		Blocked:   identity.Blocked,
		Count:     count,
		Online:    online,
		CreatedAt: identity.CreatedAt,
	}
}

// UsersResponse is the response for the admin user listing
type UsersResponse struct {
	Users []User `json:"users"`
}

package model

// EventKind identifies a real-time event type on the live channel
type EventKind string

// Event kinds produced by the game core
const (
	// EventPresenceChanged is broadcast when an identity goes online or offline
	EventPresenceChanged EventKind = "presence-changed"
	// EventScoreChanged is broadcast when an identity's counter changes
	EventScoreChanged EventKind = "score-changed"
	// EventCountResult is sent to a single connection in reply to a
	// query-count request
	EventCountResult EventKind = "count-result"
)

// MessageQueryCount is the only client-to-server message kind
const MessageQueryCount = "query-count"

// PresenceChangedPayload is the payload of a presence-changed event
type PresenceChangedPayload struct {
	IdentityID IdentityID `json:"identity_id"`
	Online     bool       `json:"online"`
}

// ScoreChangedPayload is the payload of a score-changed event
type ScoreChangedPayload struct {
	IdentityID IdentityID `json:"identity_id"`
	Count      uint64     `json:"count"`
}

// QueryCountPayload is the payload of a query-count request
type QueryCountPayload struct {
	IdentityID IdentityID `json:"identity_id"`
}

// CountResultPayload is the payload of a count-result reply
type CountResultPayload struct {
	IdentityID IdentityID `json:"identity_id"`
	Count      uint64     `json:"count"`
}

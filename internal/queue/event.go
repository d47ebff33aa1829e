// Package queue defines session lifecycle events exchanged over the message
// broker, the publisher that emits them and the audit consumer that records
// them.
package queue

// Session event actions.
const (
	ActionLogin   = "login"
	ActionRefresh = "refresh"
	ActionSignOut = "signout"
)

// SessionEvent is published whenever a session transition succeeds: a login
// issued a pair, a refresh rotated it, or a sign-out revoked it. It carries
// enough for downstream consumers to audit or alert without querying the
// primary database. Token material is never included.
type SessionEvent struct {
	UserID     uint64 `json:"user_id"`
	Email      string `json:"email"`
	Action     string `json:"action"`
	ClientIP   string `json:"client_ip,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

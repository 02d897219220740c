package entity

import "time"

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
)

// ChatMessage is one turn in a session's history. History is append-only;
// ordering is insertion order with timestamps assigned at append time.
type ChatMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}

// Session binds a conversation to exactly one document. DocumentKey is
// immutable after creation; a query against the session with a different
// document key is rejected, never silently reassigned.
type Session struct {
	UserId         string        `json:"userId"`
	SessionId      string        `json:"sessionId"`
	DocumentKey    string        `json:"documentKey"`
	ChatHistory    []ChatMessage `json:"chatHistory"`
	LastAccessedAt int64         `json:"lastAccessedAt"` // unix milliseconds
	ExpiresAt      int64         `json:"expiresAt"`      // unix seconds, the storage ttl attribute
}

// Expired reports whether the session's expiry has elapsed. Readers must
// treat an expired session as not found even if the store has not yet
// physically removed the record.
func (s *Session) Expired(now time.Time) bool {
	return now.Unix() >= s.ExpiresAt
}

package contract

import (
	"context"

	"ai-qa-agent-be/internal/entity"
)

// SessionRepository persists per-user, per-document conversation sessions
// with sliding retention. Get returns (nil, nil) when the record is absent;
// a physically present but expired record is returned as-is, and it is the
// caller's job to re-check expiry (the store's own retention removal has no
// guaranteed instant).
type SessionRepository interface {
	Create(ctx context.Context, userId, documentKey string, initialMessages []entity.ChatMessage) (*entity.Session, error)
	Get(ctx context.Context, userId, sessionId string) (*entity.Session, error)
	// AddMessage appends to the history and slides lastAccessedAt/expiresAt
	// forward by the retention period.
	AddMessage(ctx context.Context, userId, sessionId string, message entity.ChatMessage) error
	// GetLatest returns the most recently created or updated session for a
	// user, or (nil, nil) when the user has none.
	GetLatest(ctx context.Context, userId string) (*entity.Session, error)
}

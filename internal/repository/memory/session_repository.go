package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ai-qa-agent-be/internal/entity"
	"ai-qa-agent-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps sessions in-process. Suitable for single-node
// deployments and tests; the redis implementation covers everything else.
type SessionRepository struct {
	store     *cache.Cache
	retention time.Duration

	mu     sync.Mutex
	latest map[string]string // userId -> most recently touched sessionId
}

func NewSessionRepository(retention time.Duration) contract.SessionRepository {
	// Cache TTL is the retention plus a grace window so readers can still
	// observe an expired record and report it as expired instead of absent.
	return &SessionRepository{
		store:     cache.New(retention+time.Hour, 10*time.Minute),
		retention: retention,
		latest:    make(map[string]string),
	}
}

func sessionKey(userId, sessionId string) string {
	return fmt.Sprintf("%s:%s", userId, sessionId)
}

func (r *SessionRepository) Create(ctx context.Context, userId, documentKey string, initialMessages []entity.ChatMessage) (*entity.Session, error) {
	now := time.Now()
	session := &entity.Session{
		UserId:         userId,
		SessionId:      uuid.NewString(),
		DocumentKey:    documentKey,
		ChatHistory:    append([]entity.ChatMessage{}, initialMessages...),
		LastAccessedAt: now.UnixMilli(),
		ExpiresAt:      now.Add(r.retention).Unix(),
	}

	r.store.Set(sessionKey(userId, session.SessionId), session, cache.DefaultExpiration)

	r.mu.Lock()
	r.latest[userId] = session.SessionId
	r.mu.Unlock()

	return session, nil
}

func (r *SessionRepository) Get(ctx context.Context, userId, sessionId string) (*entity.Session, error) {
	raw, found := r.store.Get(sessionKey(userId, sessionId))
	if !found {
		return nil, nil
	}
	session := raw.(*entity.Session)

	// Return a copy so callers cannot mutate the stored history in place.
	copied := *session
	copied.ChatHistory = append([]entity.ChatMessage{}, session.ChatHistory...)
	return &copied, nil
}

func (r *SessionRepository) AddMessage(ctx context.Context, userId, sessionId string, message entity.ChatMessage) error {
	key := sessionKey(userId, sessionId)
	raw, found := r.store.Get(key)
	if !found {
		return fmt.Errorf("session %s not found for user %s", sessionId, userId)
	}
	session := raw.(*entity.Session)

	now := time.Now()
	updated := *session
	updated.ChatHistory = append(append([]entity.ChatMessage{}, session.ChatHistory...), message)
	updated.LastAccessedAt = now.UnixMilli()
	updated.ExpiresAt = now.Add(r.retention).Unix()

	r.store.Set(key, &updated, cache.DefaultExpiration)

	r.mu.Lock()
	r.latest[userId] = sessionId
	r.mu.Unlock()

	return nil
}

func (r *SessionRepository) GetLatest(ctx context.Context, userId string) (*entity.Session, error) {
	r.mu.Lock()
	sessionId, ok := r.latest[userId]
	r.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return r.Get(ctx, userId, sessionId)
}

package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-qa-agent-be/internal/entity"
	"ai-qa-agent-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionRepository stores each session as a JSON value with a sliding
// redis TTL, plus a per-user sorted set scored by last access time so
// GetLatest stays a single ZREVRANGE away.
type SessionRepository struct {
	client    *redis.Client
	retention time.Duration
}

func NewSessionRepository(client *redis.Client, retention time.Duration) contract.SessionRepository {
	return &SessionRepository{client: client, retention: retention}
}

func sessionKey(userId, sessionId string) string {
	return fmt.Sprintf("session:%s:%s", userId, sessionId)
}

func recencyKey(userId string) string {
	return fmt.Sprintf("sessions:%s", userId)
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

	if err := r.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (r *SessionRepository) Get(ctx context.Context, userId, sessionId string) (*entity.Session, error) {
	raw, err := r.client.Get(ctx, sessionKey(userId, sessionId)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var session entity.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionId, err)
	}
	return &session, nil
}

func (r *SessionRepository) AddMessage(ctx context.Context, userId, sessionId string, message entity.ChatMessage) error {
	session, err := r.Get(ctx, userId, sessionId)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session %s not found for user %s", sessionId, userId)
	}

	now := time.Now()
	session.ChatHistory = append(session.ChatHistory, message)
	session.LastAccessedAt = now.UnixMilli()
	session.ExpiresAt = now.Add(r.retention).Unix()

	return r.save(ctx, session)
}

func (r *SessionRepository) GetLatest(ctx context.Context, userId string) (*entity.Session, error) {
	// Walk the recency set newest-first, skipping entries whose session key
	// has already aged out of redis.
	ids, err := r.client.ZRevRange(ctx, recencyKey(userId), 0, 9).Result()
	if err != nil {
		return nil, fmt.Errorf("redis latest sessions: %w", err)
	}

	for _, sessionId := range ids {
		session, err := r.Get(ctx, userId, sessionId)
		if err != nil {
			return nil, err
		}
		if session != nil {
			return session, nil
		}
		r.client.ZRem(ctx, recencyKey(userId), sessionId)
	}
	return nil, nil
}

func (r *SessionRepository) save(ctx context.Context, session *entity.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.SessionId, err)
	}

	// Keep the value a little past the logical expiry so readers can still
	// distinguish "expired" from "never existed".
	ttl := r.retention + time.Hour

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.UserId, session.SessionId), payload, ttl)
	pipe.ZAdd(ctx, recencyKey(session.UserId), redis.Z{
		Score:  float64(session.LastAccessedAt),
		Member: session.SessionId,
	})
	pipe.Expire(ctx, recencyKey(session.UserId), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ai-qa-agent-be/internal/entity"
	"ai-qa-agent-be/pkg/embedding"
	"ai-qa-agent-be/pkg/llm"

	"github.com/ThreeDotsLabs/watermill/message"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// capturingPublisher records every Publish call and optionally fails
// specific calls by index.
type capturingPublisher struct {
	mu        sync.Mutex
	calls     [][]*message.Message
	failCalls map[int]error
}

func (p *capturingPublisher) Publish(topic string, messages ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	call := len(p.calls)
	p.calls = append(p.calls, messages)
	if err, ok := p.failCalls[call]; ok {
		return err
	}
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

// fakeEmbeddingProvider returns a fixed-size vector derived from the input
// length, or a configured error.
type fakeEmbeddingProvider struct {
	err   error
	empty bool

	mu    sync.Mutex
	calls []string
}

func (f *fakeEmbeddingProvider) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	if f.empty {
		return &embedding.EmbeddingResponse{}, nil
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{
			Values: []float32{float32(len(text)), 1, 0},
		},
	}, nil
}

// fakeVectorRepository stores records in a map keyed by id, so duplicate
// upserts collapse the way the real store does.
type fakeVectorRepository struct {
	mu      sync.Mutex
	records map[string]*entity.VectorRecord
	upserts int
	queryFn func(vector []float32, topK int, documentKey string) ([]*entity.VectorMatch, error)
	failErr error
}

func newFakeVectorRepository() *fakeVectorRepository {
	return &fakeVectorRepository{records: map[string]*entity.VectorRecord{}}
}

func (f *fakeVectorRepository) Upsert(ctx context.Context, records []*entity.VectorRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	f.upserts++
	for _, rec := range records {
		f.records[rec.Id] = rec
	}
	return nil
}

func (f *fakeVectorRepository) Query(ctx context.Context, vector []float32, topK int, documentKey string) ([]*entity.VectorMatch, error) {
	if f.queryFn != nil {
		return f.queryFn(vector, topK, documentKey)
	}
	return nil, nil
}

func (f *fakeVectorRepository) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

func (f *fakeVectorRepository) get(id string) *entity.VectorRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[id]
}

// fakeLLM returns a canned answer and records the history it saw.
type fakeLLM struct {
	answer string
	err    error

	mu        sync.Mutex
	histories [][]llm.Message
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.mu.Lock()
	f.histories = append(f.histories, history)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func (f *fakeLLM) lastHistory() []llm.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.histories) == 0 {
		return nil
	}
	return f.histories[len(f.histories)-1]
}

var errBoom = fmt.Errorf("boom")

// fakeSessionRepo is a map-backed store whose records the tests can reach
// into directly, e.g. to force an expiry.
type fakeSessionRepo struct {
	mu        sync.Mutex
	sessions  map[string]*entity.Session
	retention time.Duration
	addCalls  int
	getErr    error
	addErr    error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions:  map[string]*entity.Session{},
		retention: 24 * time.Hour,
	}
}

func (f *fakeSessionRepo) key(userId, sessionId string) string {
	return userId + ":" + sessionId
}

func (f *fakeSessionRepo) Create(ctx context.Context, userId, documentKey string, initialMessages []entity.ChatMessage) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	session := &entity.Session{
		UserId:         userId,
		SessionId:      fmt.Sprintf("session-%d", len(f.sessions)+1),
		DocumentKey:    documentKey,
		ChatHistory:    append([]entity.ChatMessage{}, initialMessages...),
		LastAccessedAt: now.UnixMilli(),
		ExpiresAt:      now.Add(f.retention).Unix(),
	}
	f.sessions[f.key(userId, session.SessionId)] = session
	return session, nil
}

func (f *fakeSessionRepo) Get(ctx context.Context, userId, sessionId string) (*entity.Session, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[f.key(userId, sessionId)]
	if !ok {
		return nil, nil
	}
	copied := *session
	copied.ChatHistory = append([]entity.ChatMessage{}, session.ChatHistory...)
	return &copied, nil
}

func (f *fakeSessionRepo) AddMessage(ctx context.Context, userId, sessionId string, msg entity.ChatMessage) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls++
	session, ok := f.sessions[f.key(userId, sessionId)]
	if !ok {
		return fmt.Errorf("session %s not found", sessionId)
	}
	now := time.Now()
	session.ChatHistory = append(session.ChatHistory, msg)
	session.LastAccessedAt = now.UnixMilli()
	session.ExpiresAt = now.Add(f.retention).Unix()
	return nil
}

func (f *fakeSessionRepo) GetLatest(ctx context.Context, userId string) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *entity.Session
	for _, session := range f.sessions {
		if session.UserId != userId {
			continue
		}
		if latest == nil || session.LastAccessedAt > latest.LastAccessedAt {
			latest = session
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	copied.ChatHistory = append([]entity.ChatMessage{}, latest.ChatHistory...)
	return &copied, nil
}

func (f *fakeSessionRepo) expire(userId, sessionId string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if session, ok := f.sessions[f.key(userId, sessionId)]; ok {
		session.ExpiresAt = time.Now().Add(-time.Minute).Unix()
	}
}

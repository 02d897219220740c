package service

import (
	"context"
	"strings"
	"testing"

	"ai-qa-agent-be/internal/apperr"
	"ai-qa-agent-be/internal/dto"
	"ai-qa-agent-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAskFixture(matches []*entity.VectorMatch) (IAskService, *fakeSessionRepo, *fakeLLM) {
	vectors := newFakeVectorRepository()
	vectors.queryFn = func(vector []float32, topK int, documentKey string) ([]*entity.VectorMatch, error) {
		return matches, nil
	}
	sessions := newFakeSessionRepo()
	llmFake := &fakeLLM{answer: "Paris is the capital."}
	svc := NewAskService(&fakeEmbeddingProvider{}, vectors, sessions, llmFake, 5, nopLogger{})
	return svc, sessions, llmFake
}

func TestAskFirstQuestionCreatesSession(t *testing.T) {
	svc, _, llmFake := newAskFixture([]*entity.VectorMatch{match("France's capital is Paris.")})

	resp, err := svc.Ask(context.Background(), &dto.AskRequest{
		Question:    "What is the capital of France?",
		DocumentKey: "docs/europe.txt",
		UserId:      "user-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Paris is the capital.", resp.Answer)
	assert.NotEmpty(t, resp.SessionId)
	require.Len(t, resp.ChatHistory, 2)
	assert.Equal(t, entity.ChatMessageRoleUser, resp.ChatHistory[0].Role)
	assert.Equal(t, "What is the capital of France?", resp.ChatHistory[0].Content)
	assert.Equal(t, entity.ChatMessageRoleAssistant, resp.ChatHistory[1].Role)
	assert.Equal(t, "Paris is the capital.", resp.ChatHistory[1].Content)

	// The prompt grounds the model on the retrieved chunk.
	history := llmFake.lastHistory()
	require.Len(t, history, 2)
	assert.Equal(t, "system", history[0].Role)
	assert.Contains(t, history[1].Content, "France's capital is Paris.")
	assert.Contains(t, history[1].Content, "Question: What is the capital of France?")
}

func TestAskAppendsToExistingSession(t *testing.T) {
	svc, sessions, _ := newAskFixture(nil)

	first, err := svc.Ask(context.Background(), &dto.AskRequest{
		Question: "First?", DocumentKey: "docs/a.txt", UserId: "user-1",
	})
	require.NoError(t, err)

	second, err := svc.Ask(context.Background(), &dto.AskRequest{
		Question: "Second?", DocumentKey: "docs/a.txt", UserId: "user-1", SessionId: first.SessionId,
	})
	require.NoError(t, err)

	assert.Equal(t, first.SessionId, second.SessionId)
	require.Len(t, second.ChatHistory, 4)
	assert.Equal(t, "Second?", second.ChatHistory[2].Content)
	// Question and answer are recorded as two separate appends.
	assert.Equal(t, 2, sessions.addCalls)
}

func TestAskUnknownSession(t *testing.T) {
	svc, _, _ := newAskFixture(nil)

	_, err := svc.Ask(context.Background(), &dto.AskRequest{
		Question: "Q?", DocumentKey: "docs/a.txt", UserId: "user-1", SessionId: "missing",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestAskExpiredSessionTreatedAsNotFound(t *testing.T) {
	svc, sessions, _ := newAskFixture(nil)

	first, err := svc.Ask(context.Background(), &dto.AskRequest{
		Question: "Q?", DocumentKey: "docs/a.txt", UserId: "user-1",
	})
	require.NoError(t, err)

	sessions.expire("user-1", first.SessionId)

	_, err = svc.Ask(context.Background(), &dto.AskRequest{
		Question: "Again?", DocumentKey: "docs/a.txt", UserId: "user-1", SessionId: first.SessionId,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestAskDocumentKeyMismatch(t *testing.T) {
	svc, sessions, _ := newAskFixture(nil)

	first, err := svc.Ask(context.Background(), &dto.AskRequest{
		Question: "Q?", DocumentKey: "docs/a.txt", UserId: "user-1",
	})
	require.NoError(t, err)

	_, err = svc.Ask(context.Background(), &dto.AskRequest{
		Question: "Q2?", DocumentKey: "docs/b.txt", UserId: "user-1", SessionId: first.SessionId,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindBindingConflict, apperr.KindOf(err))

	// The bound session is left untouched.
	session, err := sessions.Get(context.Background(), "user-1", first.SessionId)
	require.NoError(t, err)
	assert.Len(t, session.ChatHistory, 2)
}

func TestAskEmbeddingFailure(t *testing.T) {
	vectors := newFakeVectorRepository()
	sessions := newFakeSessionRepo()
	svc := NewAskService(&fakeEmbeddingProvider{err: errBoom}, vectors, sessions, &fakeLLM{answer: "x"}, 5, nopLogger{})

	_, err := svc.Ask(context.Background(), &dto.AskRequest{
		Question: "Q?", DocumentKey: "docs/a.txt", UserId: "user-1",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
	assert.Empty(t, sessions.sessions)
}

func TestAskCompletionFailureLeavesNoSession(t *testing.T) {
	vectors := newFakeVectorRepository()
	sessions := newFakeSessionRepo()
	svc := NewAskService(&fakeEmbeddingProvider{}, vectors, sessions, &fakeLLM{err: errBoom}, 5, nopLogger{})

	_, err := svc.Ask(context.Background(), &dto.AskRequest{
		Question: "Q?", DocumentKey: "docs/a.txt", UserId: "user-1",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
	assert.Empty(t, sessions.sessions)
}

func TestAskNoMatchesStillAnswers(t *testing.T) {
	svc, _, llmFake := newAskFixture(nil)

	resp, err := svc.Ask(context.Background(), &dto.AskRequest{
		Question: "Anything?", DocumentKey: "docs/empty.txt", UserId: "user-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.SessionId)

	// Empty retrieval produces an empty context block, not an error.
	history := llmFake.lastHistory()
	require.Len(t, history, 2)
	assert.True(t, strings.HasPrefix(history[1].Content, "Context:\n\n"))
}

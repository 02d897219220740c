package service

import (
	"context"
	"fmt"
	"time"

	"ai-qa-agent-be/internal/apperr"
	"ai-qa-agent-be/internal/dto"
	"ai-qa-agent-be/internal/entity"
	"ai-qa-agent-be/internal/pkg/logger"
	"ai-qa-agent-be/internal/repository/contract"
	"ai-qa-agent-be/pkg/embedding"
	"ai-qa-agent-be/pkg/llm"
)

const answerSystemPrompt = "You are a helpful assistant that answers questions based only on the provided context. If the answer is not in the context, say 'I could not find an answer in the document.'"

type IAskService interface {
	// Ask answers one question against a processed document, creating or
	// continuing a session bound to that document.
	Ask(ctx context.Context, request *dto.AskRequest) (*dto.AskResponse, error)
}

type askService struct {
	embeddingProvider embedding.EmbeddingProvider
	vectorRepo        contract.VectorRepository
	sessionRepo       contract.SessionRepository
	llmProvider       llm.LLMProvider
	topK              int
	log               logger.ILogger
}

func NewAskService(
	embeddingProvider embedding.EmbeddingProvider,
	vectorRepo contract.VectorRepository,
	sessionRepo contract.SessionRepository,
	llmProvider llm.LLMProvider,
	topK int,
	log logger.ILogger,
) IAskService {
	if topK <= 0 {
		topK = 5
	}
	return &askService{
		embeddingProvider: embeddingProvider,
		vectorRepo:        vectorRepo,
		sessionRepo:       sessionRepo,
		llmProvider:       llmProvider,
		topK:              topK,
		log:               log,
	}
}

// Ask runs retrieval and completion first, then resolves the session. The
// completion never sees another document's chunks because retrieval filters
// on the request's document key; the session's only job afterwards is to
// record the exchange.
func (as *askService) Ask(ctx context.Context, request *dto.AskRequest) (*dto.AskResponse, error) {
	res, err := as.embeddingProvider.Generate(request.Question, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, apperr.Upstream("question embedding failed", err)
	}
	if len(res.Embedding.Values) == 0 {
		return nil, apperr.Upstream("embedding provider returned an empty vector", nil)
	}

	matches, err := as.vectorRepo.Query(ctx, res.Embedding.Values, as.topK, request.DocumentKey)
	if err != nil {
		return nil, apperr.Upstream("vector search failed", err)
	}

	contextBlock := AssembleContext(matches)

	answer, err := as.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: answerSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextBlock, request.Question)},
	})
	if err != nil {
		return nil, apperr.Upstream("completion failed", err)
	}

	session, err := as.resolveSession(ctx, request, answer)
	if err != nil {
		return nil, err
	}

	as.log.Info("AskService", "Question answered", map[string]interface{}{
		"userId":      request.UserId,
		"sessionId":   session.SessionId,
		"documentKey": request.DocumentKey,
		"matches":     len(matches),
	})

	return &dto.AskResponse{
		Answer:      answer,
		SessionId:   session.SessionId,
		ChatHistory: session.ChatHistory,
	}, nil
}

func (as *askService) resolveSession(ctx context.Context, request *dto.AskRequest, answer string) (*entity.Session, error) {
	now := time.Now().UnixMilli()
	userTurn := entity.ChatMessage{Role: entity.ChatMessageRoleUser, Content: request.Question, Timestamp: now}
	assistantTurn := entity.ChatMessage{Role: entity.ChatMessageRoleAssistant, Content: answer, Timestamp: now}

	if request.SessionId == "" {
		session, err := as.sessionRepo.Create(ctx, request.UserId, request.DocumentKey, []entity.ChatMessage{userTurn, assistantTurn})
		if err != nil {
			return nil, apperr.Upstream("failed to create session", err)
		}
		return session, nil
	}

	session, err := as.sessionRepo.Get(ctx, request.UserId, request.SessionId)
	if err != nil {
		return nil, apperr.Upstream("failed to load session", err)
	}
	if session == nil || session.Expired(time.Now()) {
		return nil, apperr.NotFound(fmt.Sprintf("session %s not found", request.SessionId))
	}
	if session.DocumentKey != request.DocumentKey {
		return nil, apperr.BindingConflict(fmt.Sprintf(
			"session %s is bound to document %s, not %s",
			request.SessionId, session.DocumentKey, request.DocumentKey,
		))
	}

	if err := as.sessionRepo.AddMessage(ctx, request.UserId, request.SessionId, userTurn); err != nil {
		return nil, apperr.Upstream("failed to record question", err)
	}
	if err := as.sessionRepo.AddMessage(ctx, request.UserId, request.SessionId, assistantTurn); err != nil {
		return nil, apperr.Upstream("failed to record answer", err)
	}

	updated, err := as.sessionRepo.Get(ctx, request.UserId, request.SessionId)
	if err != nil {
		return nil, apperr.Upstream("failed to reload session", err)
	}
	if updated == nil {
		// The store aged the record out between the appends and the reload.
		return nil, apperr.NotFound(fmt.Sprintf("session %s not found", request.SessionId))
	}
	return updated, nil
}

package dto

import "ai-qa-agent-be/internal/entity"

// AskRequest is one conversational turn against a processed document.
// SessionId is empty on the first turn; the orchestrator then creates a
// session bound to DocumentKey.
type AskRequest struct {
	Question    string `json:"question" validate:"required,min=1"`
	DocumentKey string `json:"documentKey" validate:"required,min=1"`
	UserId      string `json:"userId" validate:"required,min=1"`
	SessionId   string `json:"sessionId,omitempty"`
}

type AskResponse struct {
	Answer      string               `json:"answer"`
	SessionId   string               `json:"sessionId"`
	ChatHistory []entity.ChatMessage `json:"chatHistory"`
}

// GetSessionRequest reads a session by its composite key.
type GetSessionRequest struct {
	UserId    string `json:"userId" validate:"required,min=1"`
	SessionId string `json:"sessionId" validate:"required,min=1"`
}

type SessionResponse struct {
	UserId         string               `json:"userId"`
	SessionId      string               `json:"sessionId"`
	DocumentKey    string               `json:"documentKey"`
	ChatHistory    []entity.ChatMessage `json:"chatHistory"`
	LastAccessedAt int64                `json:"lastAccessedAt"`
	ExpiresAt      int64                `json:"expiresAt"`
}

func NewSessionResponse(s *entity.Session) *SessionResponse {
	return &SessionResponse{
		UserId:         s.UserId,
		SessionId:      s.SessionId,
		DocumentKey:    s.DocumentKey,
		ChatHistory:    s.ChatHistory,
		LastAccessedAt: s.LastAccessedAt,
		ExpiresAt:      s.ExpiresAt,
	}
}

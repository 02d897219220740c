package service

import (
	"context"
	"fmt"
	"time"

	"ai-qa-agent-be/internal/apperr"
	"ai-qa-agent-be/internal/dto"
	"ai-qa-agent-be/internal/repository/contract"
)

type ISessionService interface {
	Get(ctx context.Context, request *dto.GetSessionRequest) (*dto.SessionResponse, error)
	// GetLatest returns the user's most recently touched live session, or a
	// not found error when every session has expired or none exists.
	GetLatest(ctx context.Context, userId string) (*dto.SessionResponse, error)
}

type sessionService struct {
	sessionRepo contract.SessionRepository
}

func NewSessionService(sessionRepo contract.SessionRepository) ISessionService {
	return &sessionService{sessionRepo: sessionRepo}
}

// Get distinguishes a session that never existed from one that aged out, so
// clients can tell a stale reference from a bad one.
func (ss *sessionService) Get(ctx context.Context, request *dto.GetSessionRequest) (*dto.SessionResponse, error) {
	session, err := ss.sessionRepo.Get(ctx, request.UserId, request.SessionId)
	if err != nil {
		return nil, apperr.Upstream("failed to load session", err)
	}
	if session == nil {
		return nil, apperr.NotFound(fmt.Sprintf("session %s not found", request.SessionId))
	}
	if session.Expired(time.Now()) {
		return nil, apperr.SessionExpired(fmt.Sprintf("session %s has expired", request.SessionId))
	}
	return dto.NewSessionResponse(session), nil
}

func (ss *sessionService) GetLatest(ctx context.Context, userId string) (*dto.SessionResponse, error) {
	session, err := ss.sessionRepo.GetLatest(ctx, userId)
	if err != nil {
		return nil, apperr.Upstream("failed to load latest session", err)
	}
	if session == nil || session.Expired(time.Now()) {
		return nil, apperr.NotFound(fmt.Sprintf("no active session for user %s", userId))
	}
	return dto.NewSessionResponse(session), nil
}

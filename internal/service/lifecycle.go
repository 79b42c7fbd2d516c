package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/hireloop/interview-core-go/internal/model"
	"github.com/hireloop/interview-core-go/internal/repository"
)

// SessionLifecycle is the external session-transition collaborator. The
// admission controller treats its result as an opaque success or failure;
// lifecycle policy is owned elsewhere.
type SessionLifecycle interface {
	OnJoin(ctx context.Context, sessionID string, role model.Role) error
}

type lifecycleService struct {
	sessions repository.SessionRepository
}

func NewLifecycleService(sessions repository.SessionRepository) SessionLifecycle {
	return &lifecycleService{sessions: sessions}
}

// OnJoin advances the session status for a role join: an early session moves
// to both_ready, and a both_ready session moves to in_progress once the next
// participant arrives. A session already in_progress is left untouched.
func (s *lifecycleService) OnJoin(ctx context.Context, sessionID string, role model.Role) error {
	moved, err := s.sessions.Transition(ctx, sessionID,
		[]model.SessionStatus{model.SessionStatusPending, model.SessionStatusConfirmed},
		model.SessionStatusBothReady)
	if err != nil {
		return err
	}
	if moved {
		log.Info().
			Str("sessionId", sessionID).
			Str("role", string(role)).
			Msg("session moved to both_ready")
		return nil
	}

	moved, err = s.sessions.Transition(ctx, sessionID,
		[]model.SessionStatus{model.SessionStatusBothReady},
		model.SessionStatusInProgress)
	if err != nil {
		return err
	}
	if moved {
		log.Info().
			Str("sessionId", sessionID).
			Str("role", string(role)).
			Msg("session moved to in_progress")
	}
	return nil
}

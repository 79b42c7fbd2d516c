package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hireloop/interview-core-go/internal/audit"
	"github.com/hireloop/interview-core-go/internal/config"
	apperrors "github.com/hireloop/interview-core-go/internal/errors"
	"github.com/hireloop/interview-core-go/internal/model"
	"github.com/hireloop/interview-core-go/internal/repository"
	"github.com/hireloop/interview-core-go/internal/transport"
)

// CredentialBundle is returned to an admitted participant.
type CredentialBundle struct {
	Token            string       `json:"token"`
	ServerURL        string       `json:"serverUrl"`
	Region           model.Region `json:"region"`
	RoomName         string       `json:"roomName"`
	Identity         string       `json:"identity"`
	Role             model.Role   `json:"role"`
	ParticipantIndex int          `json:"participantIndex"`
	UsedFallback     bool         `json:"usedFallback,omitempty"`
}

// AdmissionService validates join requests and mints transport credentials.
// Gates are evaluated in a fixed order; each rejection is a typed AppError
// with enough structured detail for precise client-side messaging.
type AdmissionService struct {
	sessions     repository.SessionRepository
	participants repository.ParticipantRepository
	membership   repository.MembershipRepository
	regions      *RegionService
	registry     *RegistryService
	lifecycle    SessionLifecycle
	minter       *transport.TokenMinter
	provider     transport.Provider
	now          func() time.Time
}

func NewAdmissionService(
	sessions repository.SessionRepository,
	participants repository.ParticipantRepository,
	membership repository.MembershipRepository,
	regions *RegionService,
	registry *RegistryService,
	lifecycle SessionLifecycle,
	minter *transport.TokenMinter,
	provider transport.Provider,
) *AdmissionService {
	return &AdmissionService{
		sessions:     sessions,
		participants: participants,
		membership:   membership,
		regions:      regions,
		registry:     registry,
		lifecycle:    lifecycle,
		minter:       minter,
		provider:     provider,
		now:          time.Now,
	}
}

// Join admits a participant into a session's transport room.
func (s *AdmissionService) Join(ctx context.Context, sessionID string, role model.Role, actorID, countryHint string) (*CredentialBundle, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if session == nil {
		return nil, apperrors.NotFound("Session")
	}

	if err := s.checkSchedule(session); err != nil {
		s.auditReject(sessionID, role, actorID, err)
		return nil, err
	}

	if session.RecordingEnabled && role == model.RoleCandidate && !session.RecordingConsent {
		err := apperrors.CandidateConsentRequired()
		s.auditReject(sessionID, role, actorID, err)
		return nil, err
	}

	identity := participantIdentity(role, actorID)
	existing, err := s.participants.FindBySessionAndIdentity(ctx, sessionID, identity)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	// Rejoin with a known identity keeps its index and skips re-authorization.
	if existing == nil && role == model.RoleInterviewer {
		authorized, err := s.membership.IsMember(ctx, session.OrganizationID, actorID)
		if err != nil {
			return nil, apperrors.Database(err)
		}
		if !authorized {
			err := apperrors.Forbidden("Actor is not a member of the session's organization")
			s.auditReject(sessionID, role, actorID, err)
			return nil, err
		}
	}

	if session.Status.IsTerminal() {
		err := apperrors.SessionGone(string(session.Status))
		s.auditReject(sessionID, role, actorID, err)
		return nil, err
	}

	if err := s.lifecycle.OnJoin(ctx, sessionID, role); err != nil {
		return nil, apperrors.Internal("session transition failed").WithCause(err)
	}

	selection, err := s.regions.ResolveSessionRegion(ctx, session, PreferredRegion(countryHint))
	if err != nil {
		return nil, err
	}
	if selection.RoomName == "" {
		return nil, apperrors.ValidationError("Session has no room name")
	}

	participant := existing
	if participant == nil {
		index, err := s.nextIndex(ctx, sessionID, role)
		if err != nil {
			return nil, apperrors.Database(err)
		}
		participant, err = s.participants.Create(ctx, model.CreateParticipantParams{
			SessionID:        sessionID,
			Identity:         identity,
			Role:             role,
			ParticipantIndex: index,
		})
		if err != nil {
			return nil, apperrors.Database(err)
		}
	} else {
		if err := s.participants.MarkJoined(ctx, participant.ID); err != nil {
			log.Warn().Err(err).Str("participantId", participant.ID).Msg("mark joined failed")
		}
	}

	// Best-effort: a failed eviction never blocks the join.
	s.registry.RemoveIfExists(ctx, selection.RoomName, identity, selection.Region)

	token, err := s.minter.MintJoin(selection.RoomName, identity, identity, role, participant.ParticipantIndex)
	if err != nil {
		return nil, apperrors.Internal("credential minting failed").WithCause(err)
	}

	audit.Log(ctx, audit.Event{
		Type:      audit.EventJoinGranted,
		SessionID: sessionID,
		ActorID:   actorID,
		Details: map[string]interface{}{
			"role":             string(role),
			"region":           string(selection.Region),
			"participantIndex": participant.ParticipantIndex,
			"usedFallback":     selection.UsedFallback,
		},
	})

	return &CredentialBundle{
		Token:            token,
		ServerURL:        s.provider.ServerURL(selection.Region),
		Region:           selection.Region,
		RoomName:         selection.RoomName,
		Identity:         identity,
		Role:             role,
		ParticipantIndex: participant.ParticipantIndex,
		UsedFallback:     selection.UsedFallback,
	}, nil
}

// checkSchedule enforces confirmation and the admission window around the
// scheduled time.
func (s *AdmissionService) checkSchedule(session *model.Session) error {
	if session.RequiresConfirmation {
		if !session.CandidateConfirmed {
			return apperrors.NotConfirmed()
		}
		if session.ScheduledAt == nil {
			return apperrors.NoScheduledTime()
		}
	}

	if session.ScheduledAt == nil {
		return nil
	}

	now := s.now()
	windowOpens := session.ScheduledAt.Add(-config.AdmissionWindow)
	windowCloses := session.ScheduledAt.Add(config.AdmissionWindow)

	if now.Before(windowOpens) {
		minutes := int(math.Ceil(windowOpens.Sub(now).Minutes()))
		return apperrors.TooEarly(minutes, windowOpens.Format(time.RFC3339))
	}
	if now.After(windowCloses) {
		return apperrors.TooLate()
	}
	return nil
}

func (s *AdmissionService) nextIndex(ctx context.Context, sessionID string, role model.Role) (int, error) {
	// Candidates always take index 0; interviewers are numbered in join order
	// and keep their index across rejoins.
	if role == model.RoleCandidate {
		return 0, nil
	}
	return s.participants.CountByRole(ctx, sessionID, role)
}

func (s *AdmissionService) auditReject(sessionID string, role model.Role, actorID string, err error) {
	audit.Log(context.Background(), audit.Event{
		Type:      audit.EventJoinRejected,
		SessionID: sessionID,
		ActorID:   actorID,
		Details: map[string]interface{}{
			"role":   string(role),
			"reason": string(apperrors.GetCode(err)),
		},
	})
}

func participantIdentity(role model.Role, actorID string) string {
	return fmt.Sprintf("%s-%s", role, actorID)
}

package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hireloop/interview-core-go/internal/audit"
	apperrors "github.com/hireloop/interview-core-go/internal/errors"
	"github.com/hireloop/interview-core-go/internal/model"
	"github.com/hireloop/interview-core-go/internal/repository"
	"github.com/hireloop/interview-core-go/internal/transport"
)

// RegionSelection is the outcome of picking a transport region for a session.
type RegionSelection struct {
	Region       model.Region
	RoomName     string
	UsedFallback bool
}

// RegionService picks a healthy transport region and durably locks it on the
// session row. The conditional write stands in for a distributed lock:
// exactly one region is ever committed per session, regardless of request
// concurrency across process instances.
type RegionService struct {
	sessions repository.SessionRepository
	provider transport.Provider
}

func NewRegionService(sessions repository.SessionRepository, provider transport.Provider) *RegionService {
	return &RegionService{
		sessions: sessions,
		provider: provider,
	}
}

// SelectRegion health-probes the preferred region, then its complement.
// Both unhealthy is fatal; the caller owns any retry policy.
func (s *RegionService) SelectRegion(ctx context.Context, preferred model.Region) (model.Region, bool, error) {
	if !preferred.Valid() {
		preferred = model.RegionUSEast
	}

	if err := s.provider.HealthCheck(ctx, preferred); err == nil {
		return preferred, false, nil
	}

	fallback := preferred.Complement()
	if err := s.provider.HealthCheck(ctx, fallback); err != nil {
		return "", false, apperrors.RegionUnavailable(err)
	}

	log.Warn().
		Str("preferred", string(preferred)).
		Str("fallback", string(fallback)).
		Msg("preferred region unhealthy, failing over")
	return fallback, true, nil
}

// ResolveSessionRegion returns the committed region for a session, selecting
// and locking one when unset. When the conditional write affects zero rows a
// concurrent request already won; the committed value is reloaded and
// adopted, with UsedFallback set when it differs from the local choice.
func (s *RegionService) ResolveSessionRegion(ctx context.Context, session *model.Session, preferred model.Region) (*RegionSelection, error) {
	if session.Region != nil && session.RoomName != nil {
		return &RegionSelection{
			Region:   *session.Region,
			RoomName: *session.RoomName,
		}, nil
	}

	chosen, usedFallback, err := s.SelectRegion(ctx, preferred)
	if err != nil {
		return nil, err
	}

	roomName := RoomName(session.ID)
	won, err := s.sessions.LockRegion(ctx, session.ID, chosen, roomName)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	if won {
		log.Info().
			Str("sessionId", session.ID).
			Str("region", string(chosen)).
			Bool("usedFallback", usedFallback).
			Msg("region locked for session")
		audit.Log(ctx, audit.Event{
			Type:      audit.EventRegionLocked,
			SessionID: session.ID,
			Details: map[string]interface{}{
				"region":       string(chosen),
				"usedFallback": usedFallback,
			},
		})
		return &RegionSelection{
			Region:       chosen,
			RoomName:     roomName,
			UsedFallback: usedFallback,
		}, nil
	}

	committed, err := s.sessions.FindByID(ctx, session.ID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if committed == nil || committed.Region == nil || committed.RoomName == nil {
		return nil, apperrors.Internal("region lock lost but no committed region found").
			WithCause(fmt.Errorf("session %s", session.ID))
	}

	log.Info().
		Str("sessionId", session.ID).
		Str("region", string(*committed.Region)).
		Str("localChoice", string(chosen)).
		Msg("adopting region committed by concurrent request")

	return &RegionSelection{
		Region:       *committed.Region,
		RoomName:     *committed.RoomName,
		UsedFallback: *committed.Region != chosen,
	}, nil
}

// RoomName derives the transport room for a session.
func RoomName(sessionID string) string {
	return "interview-" + sessionID
}

// PreferredRegion maps a caller country hint to the nearest transport region.
func PreferredRegion(countryHint string) model.Region {
	switch countryHint {
	case "IN", "PK", "BD", "LK", "NP", "SG", "MY", "ID", "PH", "VN", "TH", "AE", "SA":
		return model.RegionAPSouth
	default:
		return model.RegionUSEast
	}
}

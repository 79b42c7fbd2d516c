package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/hireloop/interview-core-go/internal/audit"
	"github.com/hireloop/interview-core-go/internal/model"
	"github.com/hireloop/interview-core-go/internal/transport"
)

// RegistryService reconciles live room membership with the store. All of its
// operations are best-effort: join correctness depends only on the validity
// of freshly minted credentials, never on a successful eviction or teardown.
type RegistryService struct {
	provider transport.Provider
}

func NewRegistryService(provider transport.Provider) *RegistryService {
	return &RegistryService{provider: provider}
}

// RemoveIfExists evicts a stale connection for the identity before a new
// credential is used, avoiding duplicate-connection artifacts from reconnect
// races. Returns true when a participant was actually removed.
func (s *RegistryService) RemoveIfExists(ctx context.Context, roomName, identity string, region model.Region) bool {
	participants, err := s.provider.ListParticipants(ctx, region, roomName)
	if err != nil {
		log.Warn().
			Err(err).
			Str("roomName", roomName).
			Str("identity", identity).
			Msg("list participants failed, skipping eviction")
		return false
	}

	found := false
	for _, p := range participants {
		if p.Identity == identity {
			found = true
			break
		}
	}
	if !found {
		return false
	}

	if err := s.provider.RemoveParticipant(ctx, region, roomName, identity); err != nil {
		log.Warn().
			Err(err).
			Str("roomName", roomName).
			Str("identity", identity).
			Msg("stale participant eviction failed")
		return false
	}

	log.Info().
		Str("roomName", roomName).
		Str("identity", identity).
		Msg("evicted stale participant connection")
	audit.Log(ctx, audit.Event{
		Type: audit.EventParticipantEvicted,
		Details: map[string]interface{}{
			"roomName": roomName,
			"identity": identity,
			"region":   string(region),
		},
	})
	return true
}

// DeleteRoom tears down a room on terminal transitions. It tries the known
// region first, then the complement, tolerating a stale or missing persisted
// region.
func (s *RegistryService) DeleteRoom(ctx context.Context, roomName string, region model.Region) bool {
	if err := s.provider.DeleteRoom(ctx, region, roomName); err == nil {
		log.Info().
			Str("roomName", roomName).
			Str("region", string(region)).
			Msg("room deleted")
		audit.Log(ctx, audit.Event{
			Type: audit.EventRoomDeleted,
			Details: map[string]interface{}{
				"roomName": roomName,
				"region":   string(region),
			},
		})
		return true
	}

	fallback := region.Complement()
	if err := s.provider.DeleteRoom(ctx, fallback, roomName); err != nil {
		log.Warn().
			Err(err).
			Str("roomName", roomName).
			Msg("room teardown failed in both regions")
		return false
	}

	log.Info().
		Str("roomName", roomName).
		Str("region", string(fallback)).
		Msg("room deleted in complement region")
	return true
}

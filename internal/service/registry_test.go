package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hireloop/interview-core-go/internal/model"
	"github.com/hireloop/interview-core-go/internal/transport"
)

func TestRemoveIfExists(t *testing.T) {
	ctx := context.Background()

	t.Run("removes a present identity", func(t *testing.T) {
		provider := newFakeProvider()
		provider.participants["room-1"] = []transport.Participant{
			{Identity: "interviewer-u1"},
			{Identity: "candidate-u2"},
		}
		registry := NewRegistryService(provider)

		removed := registry.RemoveIfExists(ctx, "room-1", "interviewer-u1", model.RegionUSEast)

		assert.True(t, removed)
		assert.Equal(t, []string{"interviewer-u1"}, provider.removed)
		assert.Len(t, provider.participants["room-1"], 1)
	})

	t.Run("absent identity is a no-op", func(t *testing.T) {
		provider := newFakeProvider()
		provider.participants["room-1"] = []transport.Participant{
			{Identity: "candidate-u2"},
		}
		registry := NewRegistryService(provider)

		removed := registry.RemoveIfExists(ctx, "room-1", "interviewer-u1", model.RegionUSEast)

		assert.False(t, removed)
		assert.Empty(t, provider.removed)
	})
}

func TestDeleteRoom(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes in the known region", func(t *testing.T) {
		provider := newFakeProvider()
		registry := NewRegistryService(provider)

		assert.True(t, registry.DeleteRoom(ctx, "room-1", model.RegionUSEast))
		assert.Equal(t, []string{"room-1"}, provider.deletedRooms)
	})

	t.Run("falls through to the complement region", func(t *testing.T) {
		provider := newFakeProvider()
		provider.deleteErr[model.RegionUSEast] = errors.New("room not found")
		registry := NewRegistryService(provider)

		assert.True(t, registry.DeleteRoom(ctx, "room-1", model.RegionUSEast))
		assert.Equal(t, []string{"room-1"}, provider.deletedRooms)
	})

	t.Run("reports failure when both regions fail", func(t *testing.T) {
		provider := newFakeProvider()
		provider.deleteErr[model.RegionUSEast] = errors.New("down")
		provider.deleteErr[model.RegionAPSouth] = errors.New("down")
		registry := NewRegistryService(provider)

		assert.False(t, registry.DeleteRoom(ctx, "room-1", model.RegionUSEast))
		assert.Empty(t, provider.deletedRooms)
	})
}

func TestLifecycleOnJoin(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		from model.SessionStatus
		want model.SessionStatus
	}{
		{"pending moves to both_ready", model.SessionStatusPending, model.SessionStatusBothReady},
		{"confirmed moves to both_ready", model.SessionStatusConfirmed, model.SessionStatusBothReady},
		{"both_ready moves to in_progress", model.SessionStatusBothReady, model.SessionStatusInProgress},
		{"in_progress stays put", model.SessionStatusInProgress, model.SessionStatusInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := newFakeSessionRepo(&model.Session{ID: "sess-1", Status: tt.from})
			lifecycle := NewLifecycleService(sessions)

			assert.NoError(t, lifecycle.OnJoin(ctx, "sess-1", model.RoleCandidate))

			session, err := sessions.FindByID(ctx, "sess-1")
			assert.NoError(t, err)
			assert.Equal(t, tt.want, session.Status)
		})
	}
}

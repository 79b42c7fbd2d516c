package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/hireloop/interview-core-go/internal/errors"
	"github.com/hireloop/interview-core-go/internal/model"
)

func TestSelectRegion(t *testing.T) {
	t.Run("uses preferred region when healthy", func(t *testing.T) {
		provider := newFakeProvider()
		svc := NewRegionService(newFakeSessionRepo(), provider)

		region, usedFallback, err := svc.SelectRegion(context.Background(), model.RegionAPSouth)

		require.NoError(t, err)
		assert.Equal(t, model.RegionAPSouth, region)
		assert.False(t, usedFallback)
	})

	t.Run("fails over to complement when preferred is down", func(t *testing.T) {
		provider := newFakeProvider()
		provider.healthy[model.RegionAPSouth] = false
		svc := NewRegionService(newFakeSessionRepo(), provider)

		region, usedFallback, err := svc.SelectRegion(context.Background(), model.RegionAPSouth)

		require.NoError(t, err)
		assert.Equal(t, model.RegionUSEast, region)
		assert.True(t, usedFallback)
	})

	t.Run("returns RegionUnavailable when both regions are down", func(t *testing.T) {
		provider := newFakeProvider()
		provider.healthy[model.RegionUSEast] = false
		provider.healthy[model.RegionAPSouth] = false
		svc := NewRegionService(newFakeSessionRepo(), provider)

		_, _, err := svc.SelectRegion(context.Background(), model.RegionUSEast)

		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeRegionUnavailable, apperrors.GetCode(err))
	})

	t.Run("invalid preference falls back to us-east", func(t *testing.T) {
		provider := newFakeProvider()
		svc := NewRegionService(newFakeSessionRepo(), provider)

		region, _, err := svc.SelectRegion(context.Background(), model.Region("mars"))

		require.NoError(t, err)
		assert.Equal(t, model.RegionUSEast, region)
	})
}

func TestResolveSessionRegion(t *testing.T) {
	session := &model.Session{ID: "sess-1", Status: model.SessionStatusPending}

	t.Run("locks region on first resolution", func(t *testing.T) {
		repo := newFakeSessionRepo(session)
		svc := NewRegionService(repo, newFakeProvider())

		selection, err := svc.ResolveSessionRegion(context.Background(), session, model.RegionUSEast)

		require.NoError(t, err)
		assert.Equal(t, model.RegionUSEast, selection.Region)
		assert.Equal(t, "interview-sess-1", selection.RoomName)
		assert.False(t, selection.UsedFallback)

		stored, err := repo.FindByID(context.Background(), "sess-1")
		require.NoError(t, err)
		require.NotNil(t, stored.Region)
		assert.Equal(t, model.RegionUSEast, *stored.Region)
	})

	t.Run("returns committed region without re-probing", func(t *testing.T) {
		region := model.RegionAPSouth
		roomName := "interview-sess-1"
		committed := &model.Session{ID: "sess-1", Region: &region, RoomName: &roomName}

		provider := newFakeProvider()
		provider.healthy[model.RegionUSEast] = false
		provider.healthy[model.RegionAPSouth] = false
		svc := NewRegionService(newFakeSessionRepo(committed), provider)

		selection, err := svc.ResolveSessionRegion(context.Background(), committed, model.RegionUSEast)

		require.NoError(t, err)
		assert.Equal(t, model.RegionAPSouth, selection.Region)
	})

	t.Run("adopts region committed by concurrent request", func(t *testing.T) {
		repo := newFakeSessionRepo(session)
		// Another request commits ap-south before ours attempts the lock.
		won, err := repo.LockRegion(context.Background(), "sess-1", model.RegionAPSouth, "interview-sess-1")
		require.NoError(t, err)
		require.True(t, won)

		svc := NewRegionService(repo, newFakeProvider())
		stale := &model.Session{ID: "sess-1", Status: model.SessionStatusPending}
		selection, err := svc.ResolveSessionRegion(context.Background(), stale, model.RegionUSEast)

		require.NoError(t, err)
		assert.Equal(t, model.RegionAPSouth, selection.Region)
		assert.True(t, selection.UsedFallback, "adopted region differs from local choice")
	})

	t.Run("concurrent resolutions converge on one region", func(t *testing.T) {
		repo := newFakeSessionRepo(session)
		svc := NewRegionService(repo, newFakeProvider())

		const workers = 16
		results := make([]model.Region, workers)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				preferred := model.RegionUSEast
				if i%2 == 1 {
					preferred = model.RegionAPSouth
				}
				stale := &model.Session{ID: "sess-1", Status: model.SessionStatusPending}
				selection, err := svc.ResolveSessionRegion(context.Background(), stale, preferred)
				require.NoError(t, err)
				results[i] = selection.Region
			}(i)
		}
		wg.Wait()

		stored, err := repo.FindByID(context.Background(), "sess-1")
		require.NoError(t, err)
		require.NotNil(t, stored.Region)
		for i, region := range results {
			assert.Equal(t, *stored.Region, region, "worker %d adopted a different region", i)
		}
	})
}

func TestPreferredRegion(t *testing.T) {
	assert.Equal(t, model.RegionAPSouth, PreferredRegion("IN"))
	assert.Equal(t, model.RegionAPSouth, PreferredRegion("SG"))
	assert.Equal(t, model.RegionUSEast, PreferredRegion("US"))
	assert.Equal(t, model.RegionUSEast, PreferredRegion(""))
}

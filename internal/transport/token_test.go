package transport

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/interview-core-go/internal/model"
)

const (
	testAPIKey    = "api-key-test"
	testAPISecret = "0123456789abcdef0123456789abcdef"
)

func parseClaims(t *testing.T, signed string) *accessClaims {
	t.Helper()
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(_ *jwt.Token) (any, error) {
		return []byte(testAPISecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	return claims
}

func TestMintJoin(t *testing.T) {
	minter := NewTokenMinter(testAPIKey, testAPISecret, 2*time.Hour)

	t.Run("interviewer may publish data", func(t *testing.T) {
		signed, err := minter.MintJoin("interview-abc", "interviewer-u1", "Ada", model.RoleInterviewer, 1)
		require.NoError(t, err)

		claims := parseClaims(t, signed)
		assert.Equal(t, testAPIKey, claims.Issuer)
		assert.Equal(t, "interviewer-u1", claims.Subject)
		assert.Equal(t, "Ada", claims.Name)
		assert.True(t, claims.Video.RoomJoin)
		assert.Equal(t, "interview-abc", claims.Video.Room)
		assert.True(t, claims.Video.CanPublish)
		assert.True(t, claims.Video.CanPublishData)
		assert.False(t, claims.Video.RoomAdmin)

		var metadata ParticipantMetadata
		require.NoError(t, json.Unmarshal([]byte(claims.Metadata), &metadata))
		assert.Equal(t, model.RoleInterviewer, metadata.Role)
		assert.Equal(t, 1, metadata.ParticipantIndex)
	})

	t.Run("candidate may not publish data", func(t *testing.T) {
		signed, err := minter.MintJoin("interview-abc", "candidate-u2", "Grace", model.RoleCandidate, 0)
		require.NoError(t, err)

		claims := parseClaims(t, signed)
		assert.True(t, claims.Video.CanPublish)
		assert.False(t, claims.Video.CanPublishData)
	})

	t.Run("expiry honors the configured ttl", func(t *testing.T) {
		signed, err := minter.MintJoin("interview-abc", "candidate-u2", "", model.RoleCandidate, 0)
		require.NoError(t, err)

		claims := parseClaims(t, signed)
		lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
		assert.Equal(t, 2*time.Hour, lifetime)
	})
}

func TestMintServer(t *testing.T) {
	minter := NewTokenMinter(testAPIKey, testAPISecret, 2*time.Hour)

	signed, err := minter.MintServer("interview-abc")
	require.NoError(t, err)

	claims := parseClaims(t, signed)
	assert.Equal(t, "server", claims.Subject)
	assert.True(t, claims.Video.RoomAdmin)
	assert.False(t, claims.Video.RoomJoin)
	assert.Equal(t, "interview-abc", claims.Video.Room)
	// Server credentials are single-call tokens.
	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, time.Minute, lifetime)
}

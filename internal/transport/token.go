package transport

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hireloop/interview-core-go/internal/model"
)

// VideoGrant scopes a credential to one room and a capability set.
type VideoGrant struct {
	RoomJoin       bool   `json:"roomJoin"`
	Room           string `json:"room"`
	RoomAdmin      bool   `json:"roomAdmin,omitempty"`
	CanPublish     bool   `json:"canPublish"`
	CanPublishData bool   `json:"canPublishData"`
	CanSubscribe   bool   `json:"canSubscribe"`
}

type accessClaims struct {
	jwt.RegisteredClaims
	Video    VideoGrant `json:"video"`
	Name     string     `json:"name,omitempty"`
	Metadata string     `json:"metadata,omitempty"`
}

// ParticipantMetadata is embedded in the credential so transport-side hooks
// can recover role and index without a store lookup.
type ParticipantMetadata struct {
	Role             model.Role `json:"role"`
	ParticipantIndex int        `json:"participantIndex"`
}

// TokenMinter signs short-lived, room-scoped transport credentials.
type TokenMinter struct {
	apiKey    string
	apiSecret string
	ttl       time.Duration
}

func NewTokenMinter(apiKey, apiSecret string, ttl time.Duration) *TokenMinter {
	return &TokenMinter{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		ttl:       ttl,
	}
}

// MintJoin issues a participant credential. Interviewers may publish data
// messages into the room; candidates may not.
func (m *TokenMinter) MintJoin(roomName, identity, displayName string, role model.Role, participantIndex int) (string, error) {
	metadata, err := json.Marshal(ParticipantMetadata{
		Role:             role,
		ParticipantIndex: participantIndex,
	})
	if err != nil {
		return "", fmt.Errorf("marshal participant metadata: %w", err)
	}

	now := time.Now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.apiKey,
			Subject:   identity,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Video: VideoGrant{
			RoomJoin:       true,
			Room:           roomName,
			CanPublish:     true,
			CanPublishData: role == model.RoleInterviewer,
			CanSubscribe:   true,
		},
		Name:     displayName,
		Metadata: string(metadata),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.apiSecret))
}

// MintServer issues a room-admin credential used for server-to-server calls
// (membership listing, eviction, teardown, data messages).
func (m *TokenMinter) MintServer(roomName string) (string, error) {
	now := time.Now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.apiKey,
			Subject:   "server",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
		Video: VideoGrant{
			Room:           roomName,
			RoomAdmin:      true,
			CanPublishData: true,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.apiSecret))
}

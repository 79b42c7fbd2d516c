package model

import (
	"time"
)

// Session is one scheduled interview occurrence. The full lifecycle
// (create/schedule/cancel/complete) is owned by the scheduling service;
// this core reads it and conditionally writes region and room_name.
type Session struct {
	ID                   string        `db:"id" json:"id"`
	Status               SessionStatus `db:"status" json:"status"`
	ScheduledAt          *time.Time    `db:"scheduled_at" json:"scheduledAt,omitempty"`
	Region               *Region       `db:"region" json:"region,omitempty"`
	RoomName             *string       `db:"room_name" json:"roomName,omitempty"`
	RecordingEnabled     bool          `db:"recording_enabled" json:"recordingEnabled"`
	RecordingConsent     bool          `db:"recording_consent" json:"recordingConsent"`
	CandidateConfirmed   bool          `db:"candidate_confirmed" json:"candidateConfirmed"`
	RequiresConfirmation bool          `db:"requires_confirmation" json:"requiresConfirmation"`
	OrganizationID       string        `db:"organization_id" json:"organizationId"`
	JobTitle             string        `db:"job_title" json:"jobTitle"`
	CreatedAt            time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time     `db:"updated_at" json:"updatedAt"`
}

type Participant struct {
	ID               string     `db:"id" json:"id"`
	SessionID        string     `db:"session_id" json:"sessionId"`
	Identity         string     `db:"identity" json:"identity"`
	Role             Role       `db:"role" json:"role"`
	ParticipantIndex int        `db:"participant_index" json:"participantIndex"`
	JoinedAt         *time.Time `db:"joined_at" json:"joinedAt,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
}

type CreateParticipantParams struct {
	SessionID        string
	Identity         string
	Role             Role
	ParticipantIndex int
}

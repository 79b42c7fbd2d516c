package model

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// SuggestionContent is the structured payload surfaced to interviewers.
type SuggestionContent struct {
	Title     string   `json:"title"`
	Body      string   `json:"body,omitempty"`
	Questions []string `json:"questions,omitempty"`
	Skills    []string `json:"skills,omitempty"`
}

// SuggestionRecord is a persisted coaching hint. Records are created by the
// suggestion pipeline and never deleted by this core; acknowledgement and
// dismissal only stamp timestamps.
type SuggestionRecord struct {
	ID             string             `db:"id" json:"id"`
	SessionID      string             `db:"session_id" json:"sessionId"`
	Type           SuggestionType     `db:"type" json:"type"`
	Priority       SuggestionPriority `db:"priority" json:"priority"`
	Content        types.JSONText     `db:"content" json:"content"`
	ContentHash    string             `db:"content_hash" json:"-"`
	CreatedAt      time.Time          `db:"created_at" json:"createdAt"`
	AcknowledgedAt *time.Time         `db:"acknowledged_at" json:"acknowledgedAt,omitempty"`
	DismissedAt    *time.Time         `db:"dismissed_at" json:"dismissedAt,omitempty"`
}

type CreateSuggestionParams struct {
	ID          string
	SessionID   string
	Type        SuggestionType
	Priority    SuggestionPriority
	Content     []byte
	ContentHash string
}

// SkillEvaluation marks that a required skill was substantively discussed.
// Existence is monotonic: once a skill is evaluated it stays evaluated,
// though its quality may be refined from shallow to deep.
type SkillEvaluation struct {
	SessionID     string       `db:"session_id" json:"sessionId"`
	SkillName     string       `db:"skill_name" json:"skillName"`
	Quality       SkillQuality `db:"quality" json:"quality"`
	EvaluatedAt   time.Time    `db:"evaluated_at" json:"evaluatedAt"`
	OffsetSeconds *int         `db:"offset_seconds" json:"offsetSeconds,omitempty"`
}

// TranscriptEntry is one speech-to-text fragment from the live session.
type TranscriptEntry struct {
	Speaker    Role      `json:"speaker"`
	Text       string    `json:"text"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

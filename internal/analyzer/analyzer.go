// Package analyzer wraps the language-model collaborator that scores the
// live transcript and proposes follow-up material. The deterministic
// selection and dedup policy on top of its output lives in the service layer.
package analyzer

import (
	"context"

	"github.com/hireloop/interview-core-go/internal/model"
)

// Request is the structured interview context handed to the model.
type Request struct {
	JobTitle       string
	RequiredSkills []string
	ResumeSummary  string
	Locale         string
	Transcript     []model.TranscriptEntry
}

// FollowUpQuestion is one ranked question with provenance.
type FollowUpQuestion struct {
	Text       string               `json:"text"`
	Source     model.QuestionSource `json:"source"`
	Confidence float64              `json:"confidence"`
	Evidence   string               `json:"evidence,omitempty"`
}

// Analysis is the structured analyzer verdict for one transcript window.
type Analysis struct {
	Quality         int                `json:"quality"`
	DiscussedSkills []string           `json:"discussedSkills"`
	MissingSkills   []string           `json:"missingSkills"`
	FollowUps       []FollowUpQuestion `json:"followUpQuestions"`
	NextTopic       string             `json:"nextTopic,omitempty"`
}

type Analyzer interface {
	Analyze(ctx context.Context, req Request) (*Analysis, error)
}

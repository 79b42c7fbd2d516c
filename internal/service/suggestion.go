package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hireloop/interview-core-go/internal/analyzer"
	"github.com/hireloop/interview-core-go/internal/audit"
	"github.com/hireloop/interview-core-go/internal/config"
	apperrors "github.com/hireloop/interview-core-go/internal/errors"
	"github.com/hireloop/interview-core-go/internal/model"
	"github.com/hireloop/interview-core-go/internal/repository"
	"github.com/hireloop/interview-core-go/internal/stream"
	"github.com/hireloop/interview-core-go/internal/transport"
)

const lowQualityThreshold = 3

// GenerateInput carries one transcript window plus job context, assembled by
// the routing layer from its own stores.
type GenerateInput struct {
	Locale         string                  `json:"locale"`
	Transcript     []model.TranscriptEntry `json:"transcript"`
	RequiredSkills []string                `json:"requiredSkills"`
	ResumeSummary  string                  `json:"resumeSummary"`
}

type GenerateResult struct {
	Suggestions    []model.SuggestionRecord `json:"suggestions"`
	SavedCount     int                      `json:"savedCount"`
	DuplicateCount int                      `json:"duplicateCount"`
}

// SuggestionService runs the coaching pipeline: normalize the transcript
// window, delegate analysis, apply selection and dedup policy, persist and
// broadcast survivors.
type SuggestionService struct {
	sessions    repository.SessionRepository
	suggestions repository.SuggestionRepository
	analyzer    analyzer.Analyzer
	skills      *SkillTracker
	provider    transport.Provider
	broker      *stream.Broker
	now         func() time.Time
}

func NewSuggestionService(
	sessions repository.SessionRepository,
	suggestions repository.SuggestionRepository,
	an analyzer.Analyzer,
	skills *SkillTracker,
	provider transport.Provider,
	broker *stream.Broker,
) *SuggestionService {
	return &SuggestionService{
		sessions:    sessions,
		suggestions: suggestions,
		analyzer:    an,
		skills:      skills,
		provider:    provider,
		broker:      broker,
		now:         time.Now,
	}
}

// Generate runs one pipeline pass for a session. Analyzer and dedup-check
// failures abort the call; persistence and broadcast are independent
// best-effort steps after successful generation.
func (s *SuggestionService) Generate(ctx context.Context, sessionID string, input GenerateInput) (*GenerateResult, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if session == nil {
		return nil, apperrors.NotFound("Session")
	}

	window := input.Transcript
	if len(window) > config.TranscriptWindowSize {
		window = window[len(window)-config.TranscriptWindowSize:]
	}
	normalized := NormalizeTranscript(window)

	analysis, err := s.analyzer.Analyze(ctx, analyzer.Request{
		JobTitle:       session.JobTitle,
		RequiredSkills: input.RequiredSkills,
		ResumeSummary:  input.ResumeSummary,
		Locale:         input.Locale,
		Transcript:     normalized,
	})
	if err != nil {
		return nil, err
	}

	s.trackSkills(ctx, sessionID, input.RequiredSkills, normalized, analysis)

	candidate := s.buildSuggestion(analysis, normalized)

	result := &GenerateResult{Suggestions: []model.SuggestionRecord{}}
	if candidate == nil {
		return result, nil
	}

	since := s.now().Add(-config.SuggestionDedupWindow)
	duplicate, err := s.suggestions.ExistsRecentHash(ctx, sessionID, candidate.hash, since)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if duplicate {
		result.DuplicateCount++
		log.Debug().
			Str("sessionId", sessionID).
			Str("type", string(candidate.suggestionType)).
			Msg("duplicate suggestion suppressed")
		return result, nil
	}

	record, persisted := s.persist(ctx, sessionID, candidate)
	if persisted {
		result.SavedCount++
	}
	result.Suggestions = append(result.Suggestions, *record)

	s.broadcast(ctx, session, *record)

	audit.Log(ctx, audit.Event{
		Type:      audit.EventSuggestionGenerated,
		SessionID: sessionID,
		Details: map[string]interface{}{
			"type":    string(candidate.suggestionType),
			"saved":   persisted,
			"quality": analysis.Quality,
		},
	})

	return result, nil
}

// GetSuggestions returns the recent unacknowledged suggestions for a session.
func (s *SuggestionService) GetSuggestions(ctx context.Context, sessionID string) ([]model.SuggestionRecord, error) {
	since := s.now().Add(-config.SuggestionListWindow)
	records, err := s.suggestions.ListRecentUnacknowledged(ctx, sessionID, since, config.SuggestionListLimit)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return records, nil
}

func (s *SuggestionService) Acknowledge(ctx context.Context, id string) error {
	updated, err := s.suggestions.Acknowledge(ctx, id)
	if err != nil {
		return apperrors.Database(err)
	}
	if !updated {
		return apperrors.NotFound("Suggestion")
	}
	return nil
}

func (s *SuggestionService) Dismiss(ctx context.Context, id string) error {
	updated, err := s.suggestions.Dismiss(ctx, id)
	if err != nil {
		return apperrors.Database(err)
	}
	if !updated {
		return apperrors.NotFound("Suggestion")
	}
	return nil
}

// trackSkills does the coverage bookkeeping for one window: skills the
// analyzer saw discussed count as deep evaluations, substring matches in the
// transcript count as shallow.
func (s *SuggestionService) trackSkills(ctx context.Context, sessionID string, required []string, window []model.TranscriptEntry, analysis *analyzer.Analysis) {
	now := s.now()
	for _, skill := range analysis.DiscussedSkills {
		s.skills.MarkEvaluated(ctx, sessionID, skill, Evaluation{
			Quality:   model.SkillQualityDeep,
			Timestamp: now,
		})
	}
	for _, skill := range DetectDiscussed(transcriptText(window), required) {
		s.skills.MarkEvaluated(ctx, sessionID, skill, Evaluation{
			Quality:   model.SkillQualityShallow,
			Timestamp: now,
		})
	}
}

type builtSuggestion struct {
	suggestionType model.SuggestionType
	priority       model.SuggestionPriority
	content        model.SuggestionContent
	hash           string
}

// buildSuggestion applies the category short-circuit: at most one suggestion
// per pipeline pass, in fixed priority order.
func (s *SuggestionService) buildSuggestion(analysis *analyzer.Analysis, window []model.TranscriptEntry) *builtSuggestion {
	if selected := selectQuestions(analysis.FollowUps); len(selected) > 0 {
		questions := make([]string, len(selected))
		for i, q := range selected {
			questions[i] = q.Text
		}
		return s.finalize(model.SuggestionFollowUp, model.PriorityHigh, model.SuggestionContent{
			Title:     "Suggested follow-up",
			Body:      "Dig deeper into what the candidate just said.",
			Questions: questions,
		})
	}

	if len(analysis.MissingSkills) > 0 {
		if questions := buildSkillGapQuestions(analysis.MissingSkills); len(questions) > 0 {
			return s.finalize(model.SuggestionSkillGap, model.PriorityMedium, model.SuggestionContent{
				Title:     "Uncovered skills remain",
				Body:      "These required skills have not been discussed yet: " + strings.Join(analysis.MissingSkills, ", ") + ".",
				Questions: questions,
				Skills:    analysis.MissingSkills,
			})
		}
	}

	if topic := strings.TrimSpace(analysis.NextTopic); topic != "" {
		return s.finalize(model.SuggestionTopicSwitch, model.PriorityLow, model.SuggestionContent{
			Title: "Consider switching topics",
			Body:  "The current thread looks exhausted. A natural next topic: " + topic + ".",
		})
	}

	if analysis.Quality <= lowQualityThreshold && candidateSpeechChars(window) >= minWarningSpeechLen {
		return s.finalize(model.SuggestionWarning, model.PriorityHigh, model.SuggestionContent{
			Title: "Candidate answers are staying shallow",
			Body:  "Recent answers lack depth. Try asking for a concrete example or a walkthrough.",
		})
	}

	return nil
}

func (s *SuggestionService) finalize(t model.SuggestionType, p model.SuggestionPriority, content model.SuggestionContent) *builtSuggestion {
	return &builtSuggestion{
		suggestionType: t,
		priority:       p,
		content:        content,
		hash:           contentHash(t, content),
	}
}

// persist writes the suggestion; on failure the locally built record is still
// returned so broadcast can proceed.
func (s *SuggestionService) persist(ctx context.Context, sessionID string, b *builtSuggestion) (*model.SuggestionRecord, bool) {
	content, err := json.Marshal(b.content)
	if err != nil {
		// Content is plain strings; this should not happen.
		content = []byte(fmt.Sprintf(`{"title":%q}`, b.content.Title))
	}

	params := model.CreateSuggestionParams{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		Type:        b.suggestionType,
		Priority:    b.priority,
		Content:     content,
		ContentHash: b.hash,
	}

	record, err := s.suggestions.Create(ctx, params)
	if err != nil {
		log.Error().
			Err(err).
			Str("sessionId", sessionID).
			Str("type", string(b.suggestionType)).
			Msg("suggestion persist failed, broadcasting anyway")
		return &model.SuggestionRecord{
			ID:          params.ID,
			SessionID:   sessionID,
			Type:        b.suggestionType,
			Priority:    b.priority,
			Content:     content,
			ContentHash: b.hash,
			CreatedAt:   s.now(),
		}, false
	}
	return record, true
}

// broadcast delivers the suggestion to connected interviewer participants
// over the transport data channel and to the dashboard stream. Both legs are
// best-effort; an empty interviewer audience is not a failure.
func (s *SuggestionService) broadcast(ctx context.Context, session *model.Session, record model.SuggestionRecord) {
	payload, err := json.Marshal(map[string]any{
		"type":       "suggestion",
		"suggestion": record,
	})
	if err != nil {
		log.Error().Err(err).Msg("marshal suggestion broadcast")
		return
	}

	if s.broker != nil {
		if err := s.broker.Publish(ctx, session.ID, stream.Event{
			Type: "suggestion",
			Data: payload,
		}); err != nil {
			log.Warn().Err(err).Str("sessionId", session.ID).Msg("suggestion stream publish failed")
		} else {
			log.Debug().
				Str("sessionId", session.ID).
				Int("localStreamClients", s.broker.ClientCount(session.ID)).
				Msg("suggestion published to stream")
		}
	}

	if session.Region == nil || session.RoomName == nil {
		log.Debug().Str("sessionId", session.ID).Msg("no transport room yet, skipping data broadcast")
		return
	}

	participants, err := s.provider.ListParticipants(ctx, *session.Region, *session.RoomName)
	if err != nil {
		log.Warn().Err(err).Str("sessionId", session.ID).Msg("list participants for broadcast failed")
		return
	}

	var interviewers []string
	for _, p := range participants {
		if strings.HasPrefix(p.Identity, string(model.RoleInterviewer)+"-") {
			interviewers = append(interviewers, p.Identity)
		}
	}
	if len(interviewers) == 0 {
		log.Debug().Str("sessionId", session.ID).Msg("no connected interviewers to notify")
		return
	}

	if err := s.provider.SendData(ctx, *session.Region, *session.RoomName, interviewers, payload); err != nil {
		log.Warn().Err(err).Str("sessionId", session.ID).Msg("suggestion data broadcast failed")
	}
}

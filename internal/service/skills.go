package service

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hireloop/interview-core-go/internal/model"
	"github.com/hireloop/interview-core-go/internal/redisclient"
	"github.com/hireloop/interview-core-go/internal/repository"
)

const skillMirrorTTL = 24 * time.Hour

// Evaluation describes one observed discussion of a required skill.
type Evaluation struct {
	Quality       model.SkillQuality
	Timestamp     time.Time
	OffsetSeconds *int
}

// skillState is the per-session coverage state. It is loaded once when the
// session is first touched by this process and served from memory afterward;
// writes are mirrored to redis and the store for other instances.
type skillState struct {
	mu          sync.Mutex
	loaded      bool
	evaluations map[string]model.SkillEvaluation // keyed by lower-cased skill name
}

// SkillTracker tracks which required skills have been substantively
// evaluated during each session. States live in an arena keyed by session id
// with explicit teardown on session end.
type SkillTracker struct {
	mu       sync.Mutex
	sessions map[string]*skillState
	evals    repository.SkillEvaluationRepository
	redis    *redisclient.Client
}

func NewSkillTracker(evals repository.SkillEvaluationRepository, redis *redisclient.Client) *SkillTracker {
	return &SkillTracker{
		sessions: make(map[string]*skillState),
		evals:    evals,
		redis:    redis,
	}
}

func (t *SkillTracker) state(sessionID string) *skillState {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.sessions[sessionID]
	if !ok {
		st = &skillState{evaluations: make(map[string]model.SkillEvaluation)}
		t.sessions[sessionID] = st
	}
	return st
}

// attach loads durable state into memory. Called under st.mu.
func (t *SkillTracker) attach(ctx context.Context, sessionID string, st *skillState) {
	if st.loaded {
		return
	}
	st.loaded = true

	evals, err := t.evals.ListBySession(ctx, sessionID)
	if err != nil {
		log.Warn().Err(err).Str("sessionId", sessionID).Msg("skill state load failed, starting empty")
		return
	}
	for _, e := range evals {
		st.evaluations[strings.ToLower(e.SkillName)] = e
	}
}

// MarkEvaluated records that a skill was discussed. The upsert is
// idempotent and monotonic: a skill never becomes unevaluated, and quality
// only refines from shallow to deep.
func (t *SkillTracker) MarkEvaluated(ctx context.Context, sessionID, skill string, eval Evaluation) {
	st := t.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()
	t.attach(ctx, sessionID, st)

	key := strings.ToLower(skill)
	record, exists := st.evaluations[key]
	if exists && record.Quality == model.SkillQualityDeep {
		eval.Quality = model.SkillQualityDeep
	}

	record = model.SkillEvaluation{
		SessionID:     sessionID,
		SkillName:     skill,
		Quality:       eval.Quality,
		EvaluatedAt:   eval.Timestamp,
		OffsetSeconds: eval.OffsetSeconds,
	}
	st.evaluations[key] = record

	if err := t.evals.Upsert(ctx, record); err != nil {
		log.Warn().Err(err).Str("sessionId", sessionID).Str("skill", skill).Msg("skill evaluation persist failed")
	}

	if t.redis != nil {
		mirror := redisclient.SkillStateKey(sessionID)
		if err := t.redis.HSet(ctx, mirror, key, string(eval.Quality)).Err(); err != nil {
			log.Debug().Err(err).Str("sessionId", sessionID).Msg("skill mirror write failed")
		} else {
			t.redis.Expire(ctx, mirror, skillMirrorTTL)
		}
	}
}

// EvaluatedSkills returns the names of skills evaluated so far.
func (t *SkillTracker) EvaluatedSkills(ctx context.Context, sessionID string) []string {
	st := t.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()
	t.attach(ctx, sessionID, st)

	names := make([]string, 0, len(st.evaluations))
	for _, e := range st.evaluations {
		names = append(names, e.SkillName)
	}
	return names
}

// CoveragePercentage is the rounded share of required skills evaluated so
// far. An empty requirement list counts as full coverage.
func (t *SkillTracker) CoveragePercentage(ctx context.Context, sessionID string, required []string) int {
	if len(required) == 0 {
		return 100
	}

	st := t.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()
	t.attach(ctx, sessionID, st)

	evaluated := 0
	for _, skill := range required {
		if _, ok := st.evaluations[strings.ToLower(skill)]; ok {
			evaluated++
		}
	}
	return int(math.Round(float64(evaluated) / float64(len(required)) * 100))
}

// Teardown drops the in-memory state and redis mirror for a session. The
// durable rows in the store are kept.
func (t *SkillTracker) Teardown(ctx context.Context, sessionID string) {
	t.mu.Lock()
	delete(t.sessions, sessionID)
	t.mu.Unlock()

	if t.redis != nil {
		if err := t.redis.Del(ctx, redisclient.SkillStateKey(sessionID)).Err(); err != nil {
			log.Debug().Err(err).Str("sessionId", sessionID).Msg("skill mirror delete failed")
		}
	}
}

// DetectDiscussed finds required skills mentioned in the transcript text.
// This is a case-insensitive substring heuristic, not semantic matching.
func DetectDiscussed(transcript string, required []string) []string {
	lowered := strings.ToLower(transcript)
	var discussed []string
	for _, skill := range required {
		if skill == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(skill)) {
			discussed = append(discussed, skill)
		}
	}
	return discussed
}

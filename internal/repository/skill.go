package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/hireloop/interview-core-go/internal/database"
	"github.com/hireloop/interview-core-go/internal/model"
)

type SkillEvaluationRepository interface {
	// Upsert records an evaluation. Existing rows are refined, never removed:
	// quality only moves from shallow to deep.
	Upsert(ctx context.Context, eval model.SkillEvaluation) error
	ListBySession(ctx context.Context, sessionID string) ([]model.SkillEvaluation, error)
}

type skillRepo struct {
	db database.DBTX
}

func NewSkillEvaluationRepository(db *sqlx.DB) SkillEvaluationRepository {
	return &skillRepo{db: db}
}

func (r *skillRepo) Upsert(ctx context.Context, eval model.SkillEvaluation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO skill_evaluations (session_id, skill_name, quality, evaluated_at, offset_seconds)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id, skill_name) DO UPDATE SET
			quality = CASE
				WHEN skill_evaluations.quality = 'deep' THEN skill_evaluations.quality
				ELSE EXCLUDED.quality
			END,
			evaluated_at = EXCLUDED.evaluated_at,
			offset_seconds = COALESCE(EXCLUDED.offset_seconds, skill_evaluations.offset_seconds)
	`, eval.SessionID, eval.SkillName, eval.Quality, eval.EvaluatedAt, eval.OffsetSeconds)
	return err
}

func (r *skillRepo) ListBySession(ctx context.Context, sessionID string) ([]model.SkillEvaluation, error) {
	var evals []model.SkillEvaluation
	err := r.db.SelectContext(ctx, &evals, `
		SELECT * FROM skill_evaluations
		WHERE session_id = $1
		ORDER BY skill_name
	`, sessionID)
	if err != nil {
		return nil, err
	}
	return evals, nil
}

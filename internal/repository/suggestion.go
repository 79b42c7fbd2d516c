package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hireloop/interview-core-go/internal/database"
	"github.com/hireloop/interview-core-go/internal/model"
)

type SuggestionRepository interface {
	Create(ctx context.Context, params model.CreateSuggestionParams) (*model.SuggestionRecord, error)
	// ExistsRecentHash reports whether an unacknowledged suggestion with the
	// given content hash was created for the session after since.
	ExistsRecentHash(ctx context.Context, sessionID, contentHash string, since time.Time) (bool, error)
	ListRecentUnacknowledged(ctx context.Context, sessionID string, since time.Time, limit int) ([]model.SuggestionRecord, error)
	Acknowledge(ctx context.Context, id string) (bool, error)
	Dismiss(ctx context.Context, id string) (bool, error)
}

type suggestionRepo struct {
	db database.DBTX
}

func NewSuggestionRepository(db *sqlx.DB) SuggestionRepository {
	return &suggestionRepo{db: db}
}

func (r *suggestionRepo) Create(ctx context.Context, params model.CreateSuggestionParams) (*model.SuggestionRecord, error) {
	var record model.SuggestionRecord
	err := r.db.GetContext(ctx, &record, `
		INSERT INTO suggestions (id, session_id, type, priority, content, content_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *
	`, params.ID, params.SessionID, params.Type, params.Priority, params.Content, params.ContentHash)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *suggestionRepo) ExistsRecentHash(ctx context.Context, sessionID, contentHash string, since time.Time) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM suggestions
			WHERE session_id = $1
			AND content_hash = $2
			AND created_at > $3
			AND acknowledged_at IS NULL
		)
	`, sessionID, contentHash, since)
	return exists, err
}

func (r *suggestionRepo) ListRecentUnacknowledged(ctx context.Context, sessionID string, since time.Time, limit int) ([]model.SuggestionRecord, error) {
	var records []model.SuggestionRecord
	err := r.db.SelectContext(ctx, &records, `
		SELECT * FROM suggestions
		WHERE session_id = $1
		AND created_at > $2
		AND acknowledged_at IS NULL
		AND dismissed_at IS NULL
		ORDER BY created_at DESC
		LIMIT $3
	`, sessionID, since, limit)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *suggestionRepo) Acknowledge(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE suggestions SET acknowledged_at = $2
		WHERE id = $1 AND acknowledged_at IS NULL
	`, id, time.Now())
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	return rows == 1, err
}

func (r *suggestionRepo) Dismiss(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE suggestions SET dismissed_at = $2
		WHERE id = $1 AND dismissed_at IS NULL
	`, id, time.Now())
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	return rows == 1, err
}

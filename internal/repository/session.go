package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hireloop/interview-core-go/internal/database"
	"github.com/hireloop/interview-core-go/internal/model"
)

type SessionRepository interface {
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// LockRegion performs the conditional region write: it commits only when
	// no region has been set yet. It returns false when a concurrent writer
	// already won, in which case the caller must reload and adopt the
	// committed value.
	LockRegion(ctx context.Context, id string, region model.Region, roomName string) (bool, error)
	// Transition moves the session status when the current status is one of
	// from. Returns false when the session was not in an eligible state.
	Transition(ctx context.Context, id string, from []model.SessionStatus, to model.SessionStatus) (bool, error)
}

type sessionRepo struct {
	db database.DBTX
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	err := r.db.GetContext(ctx, &session, `
		SELECT * FROM sessions WHERE id = $1
	`, id)
	return HandleNotFound(&session, err)
}

func (r *sessionRepo) LockRegion(ctx context.Context, id string, region model.Region, roomName string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET
			region = $2,
			room_name = $3,
			updated_at = $4
		WHERE id = $1 AND region IS NULL
	`, id, region, roomName, time.Now())
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *sessionRepo) Transition(ctx context.Context, id string, from []model.SessionStatus, to model.SessionStatus) (bool, error) {
	query, args, err := sqlx.In(`
		UPDATE sessions SET
			status = ?,
			updated_at = ?
		WHERE id = ? AND status IN (?)
	`, to, time.Now(), id, from)
	if err != nil {
		return false, err
	}
	result, err := r.db.ExecContext(ctx, sqlx.Rebind(sqlx.DOLLAR, query), args...)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

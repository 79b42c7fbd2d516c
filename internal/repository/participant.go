package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hireloop/interview-core-go/internal/database"
	"github.com/hireloop/interview-core-go/internal/model"
)

type ParticipantRepository interface {
	FindBySessionAndIdentity(ctx context.Context, sessionID, identity string) (*model.Participant, error)
	ListBySession(ctx context.Context, sessionID string) ([]model.Participant, error)
	CountByRole(ctx context.Context, sessionID string, role model.Role) (int, error)
	Create(ctx context.Context, params model.CreateParticipantParams) (*model.Participant, error)
	MarkJoined(ctx context.Context, id string) error
}

type participantRepo struct {
	db database.DBTX
}

func NewParticipantRepository(db *sqlx.DB) ParticipantRepository {
	return &participantRepo{db: db}
}

func (r *participantRepo) FindBySessionAndIdentity(ctx context.Context, sessionID, identity string) (*model.Participant, error) {
	var p model.Participant
	err := r.db.GetContext(ctx, &p, `
		SELECT * FROM participants
		WHERE session_id = $1 AND identity = $2
	`, sessionID, identity)
	return HandleNotFound(&p, err)
}

func (r *participantRepo) ListBySession(ctx context.Context, sessionID string) ([]model.Participant, error) {
	var participants []model.Participant
	err := r.db.SelectContext(ctx, &participants, `
		SELECT * FROM participants
		WHERE session_id = $1
		ORDER BY participant_index
	`, sessionID)
	if err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *participantRepo) CountByRole(ctx context.Context, sessionID string, role model.Role) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM participants
		WHERE session_id = $1 AND role = $2
	`, sessionID, role)
	return count, err
}

// Create inserts a participant row. The (session_id, identity) unique
// constraint makes the participant index stable across rejoin races: the
// second writer conflicts and re-reads the winning row.
func (r *participantRepo) Create(ctx context.Context, params model.CreateParticipantParams) (*model.Participant, error) {
	var p model.Participant
	err := r.db.GetContext(ctx, &p, `
		INSERT INTO participants (session_id, identity, role, participant_index, joined_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id, identity) DO UPDATE SET joined_at = $5
		RETURNING *
	`, params.SessionID, params.Identity, params.Role, params.ParticipantIndex, time.Now())
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *participantRepo) MarkJoined(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE participants SET joined_at = $2 WHERE id = $1
	`, id, time.Now())
	return err
}

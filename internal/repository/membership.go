package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/hireloop/interview-core-go/internal/database"
)

// MembershipRepository verifies actor membership in the organization that
// owns a session. The membership table itself is managed elsewhere.
type MembershipRepository interface {
	IsMember(ctx context.Context, organizationID, actorID string) (bool, error)
}

type membershipRepo struct {
	db database.DBTX
}

func NewMembershipRepository(db *sqlx.DB) MembershipRepository {
	return &membershipRepo{db: db}
}

func (r *membershipRepo) IsMember(ctx context.Context, organizationID, actorID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM organization_members
			WHERE organization_id = $1 AND user_id = $2
		)
	`, organizationID, actorID)
	return exists, err
}

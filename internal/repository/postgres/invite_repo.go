package postgres

import (
	"context"
	"database/sql"
	"errors"

	"chipin/internal/domain"
)

type inviteRepository struct {
	DB *sql.DB
}

func NewInviteRepository(db *sql.DB) domain.InviteRepository {
	return &inviteRepository{DB: db}
}

func (r *inviteRepository) Create(ctx context.Context, inv *domain.Invite) error {
	query := `
		INSERT INTO invites (token, accepted, group_id, invited_by_id, invited_user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		inv.Token, inv.Accepted, inv.GroupID, inv.InvitedByID, inv.InvitedUserID, inv.CreatedAt, inv.ExpiresAt,
	).Scan(&inv.ID)
}

func (r *inviteRepository) GetByID(ctx context.Context, id string) (*domain.Invite, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *inviteRepository) GetByToken(ctx context.Context, token string) (*domain.Invite, error) {
	return r.getOne(ctx, `WHERE token = $1`, token)
}

func (r *inviteRepository) getOne(ctx context.Context, where string, arg any) (*domain.Invite, error) {
	query := `
		SELECT id, token, accepted, group_id, invited_by_id, invited_user_id, created_at, expires_at
		FROM invites
	` + where
	inv := &domain.Invite{}
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&inv.ID, &inv.Token, &inv.Accepted, &inv.GroupID, &inv.InvitedByID, &inv.InvitedUserID, &inv.CreatedAt, &inv.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *inviteRepository) MarkAccepted(ctx context.Context, groupID, userID string) error {
	query := `
		UPDATE invites SET accepted = TRUE
		WHERE group_id = $1 AND invited_user_id = $2 AND accepted = FALSE
	`
	_, err := r.DB.ExecContext(ctx, query, groupID, userID)
	return err
}

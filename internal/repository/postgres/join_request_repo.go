package postgres

import (
	"context"
	"database/sql"
	"errors"

	"chipin/internal/domain"
)

type joinRequestRepository struct {
	DB *sql.DB
}

func NewJoinRequestRepository(db *sql.DB) domain.JoinRequestRepository {
	return &joinRequestRepository{DB: db}
}

func (r *joinRequestRepository) Create(ctx context.Context, jr *domain.JoinRequest) error {
	query := `
		INSERT INTO group_join_requests (user_id, group_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, jr.UserID, jr.GroupID, jr.CreatedAt).Scan(&jr.ID)
}

func (r *joinRequestRepository) GetByID(ctx context.Context, id string) (*domain.JoinRequest, error) {
	query := `SELECT id, user_id, group_id, created_at FROM group_join_requests WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *joinRequestRepository) GetByGroupAndUser(ctx context.Context, groupID, userID string) (*domain.JoinRequest, error) {
	query := `
		SELECT id, user_id, group_id, created_at
		FROM group_join_requests
		WHERE group_id = $1 AND user_id = $2
		ORDER BY created_at
		LIMIT 1
	`
	return r.getOne(ctx, query, groupID, userID)
}

func (r *joinRequestRepository) getOne(ctx context.Context, query string, args ...any) (*domain.JoinRequest, error) {
	jr := &domain.JoinRequest{}
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(&jr.ID, &jr.UserID, &jr.GroupID, &jr.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return jr, nil
}

func (r *joinRequestRepository) ListByGroup(ctx context.Context, groupID string) ([]*domain.JoinRequest, error) {
	query := `
		SELECT id, user_id, group_id, created_at
		FROM group_join_requests
		WHERE group_id = $1
		ORDER BY created_at
	`
	return r.list(ctx, query, groupID)
}

func (r *joinRequestRepository) ListByUser(ctx context.Context, userID string) ([]*domain.JoinRequest, error) {
	query := `
		SELECT id, user_id, group_id, created_at
		FROM group_join_requests
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, userID)
}

func (r *joinRequestRepository) list(ctx context.Context, query string, arg string) ([]*domain.JoinRequest, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*domain.JoinRequest, 0)
	for rows.Next() {
		jr := &domain.JoinRequest{}
		if err := rows.Scan(&jr.ID, &jr.UserID, &jr.GroupID, &jr.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, jr)
	}
	return out, rows.Err()
}

func (r *joinRequestRepository) Delete(ctx context.Context, id string) error {
	return execAffectingOne(ctx, r.DB, domain.ErrNotFound, `DELETE FROM group_join_requests WHERE id = $1`, id)
}

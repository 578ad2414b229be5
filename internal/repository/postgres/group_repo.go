package postgres

import (
	"context"
	"database/sql"
	"errors"

	"chipin/internal/domain"
)

type groupRepository struct {
	DB *sql.DB
}

func NewGroupRepository(db *sql.DB) domain.GroupRepository {
	return &groupRepository{DB: db}
}

func (r *groupRepository) Create(ctx context.Context, g *domain.Group) error {
	query := `
		INSERT INTO groups (name, admin_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, g.Name, g.AdminID, g.CreatedAt).Scan(&g.ID)
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	query := `
		SELECT id, name, admin_id, created_at
		FROM groups
		WHERE id = $1
	`
	g := &domain.Group{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.Name, &g.AdminID, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

func (r *groupRepository) Delete(ctx context.Context, id string) error {
	return execAffectingOne(ctx, r.DB, domain.ErrNotFound, `DELETE FROM groups WHERE id = $1`, id)
}

func (r *groupRepository) ListByMember(ctx context.Context, userID string) ([]*domain.Group, error) {
	query := `
		SELECT g.id, g.name, g.admin_id, g.created_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1
		ORDER BY g.name
	`
	return r.queryGroups(ctx, query, userID)
}

func (r *groupRepository) ListInvitingUser(ctx context.Context, userID string) ([]*domain.Group, error) {
	query := `
		SELECT g.id, g.name, g.admin_id, g.created_at
		FROM groups g
		JOIN group_invited_users gi ON gi.group_id = g.id
		WHERE gi.user_id = $1
		ORDER BY g.name
	`
	return r.queryGroups(ctx, query, userID)
}

func (r *groupRepository) ListAvailable(ctx context.Context, userID string) ([]*domain.Group, error) {
	query := `
		SELECT g.id, g.name, g.admin_id, g.created_at
		FROM groups g
		WHERE NOT EXISTS (SELECT 1 FROM group_members gm WHERE gm.group_id = g.id AND gm.user_id = $1)
		  AND NOT EXISTS (SELECT 1 FROM group_join_requests jr WHERE jr.group_id = g.id AND jr.user_id = $1)
		ORDER BY g.name
	`
	return r.queryGroups(ctx, query, userID)
}

func (r *groupRepository) queryGroups(ctx context.Context, query string, args ...any) ([]*domain.Group, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	groups := make([]*domain.Group, 0)
	for rows.Next() {
		g := &domain.Group{}
		if err := rows.Scan(&g.ID, &g.Name, &g.AdminID, &g.CreatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *groupRepository) AddMember(ctx context.Context, groupID, userID string) error {
	query := `
		INSERT INTO group_members (group_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (group_id, user_id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, query, groupID, userID)
	return err
}

func (r *groupRepository) RemoveMember(ctx context.Context, groupID, userID string) error {
	query := `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`
	return execAffectingOne(ctx, r.DB, domain.ErrNotFound, query, groupID, userID)
}

func (r *groupRepository) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`
	var ok bool
	err := r.DB.QueryRowContext(ctx, query, groupID, userID).Scan(&ok)
	return ok, err
}

func (r *groupRepository) ListMembers(ctx context.Context, groupID string) ([]*domain.User, error) {
	query := `
		SELECT u.id, u.email, u.username, u.nickname, u.password_hash, u.salt, u.max_spend, u.created_at, u.updated_at
		FROM users u
		JOIN group_members gm ON gm.user_id = u.id
		WHERE gm.group_id = $1
		ORDER BY u.username
	`
	rows, err := r.DB.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	members := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, u)
	}
	return members, rows.Err()
}

func (r *groupRepository) CountMembers(ctx context.Context, groupID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM group_members WHERE group_id = $1`, groupID).Scan(&n)
	return n, err
}

func (r *groupRepository) AddInvitedUser(ctx context.Context, groupID, userID string) error {
	query := `
		INSERT INTO group_invited_users (group_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (group_id, user_id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, query, groupID, userID)
	return err
}

func (r *groupRepository) RemoveInvitedUser(ctx context.Context, groupID, userID string) error {
	query := `DELETE FROM group_invited_users WHERE group_id = $1 AND user_id = $2`
	_, err := r.DB.ExecContext(ctx, query, groupID, userID)
	return err
}

func (r *groupRepository) IsInvited(ctx context.Context, groupID, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM group_invited_users WHERE group_id = $1 AND user_id = $2)`
	var ok bool
	err := r.DB.QueryRowContext(ctx, query, groupID, userID).Scan(&ok)
	return ok, err
}

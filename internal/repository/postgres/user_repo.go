package postgres

import (
	"context"
	"database/sql"
	"errors"

	"chipin/internal/domain"
)

const userColumns = `id, email, username, nickname, password_hash, salt, max_spend, created_at, updated_at`

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func scanUser(s rowScanner) (*domain.User, error) {
	u := &domain.User{}
	err := s.Scan(&u.ID, &u.Email, &u.Username, &u.Nickname, &u.PasswordHash, &u.Salt, &u.MaxSpend, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (email, username, nickname, password_hash, salt, max_spend, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, u.Email, u.Username, u.Nickname, u.PasswordHash, u.Salt, u.MaxSpend, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateEmail
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return u, err
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return u, err
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `
		UPDATE users
		SET nickname = $1, max_spend = $2, updated_at = $3
		WHERE id = $4
	`
	return execAffectingOne(ctx, r.DB, domain.ErrNotFound, query, u.Nickname, u.MaxSpend, u.UpdatedAt, u.ID)
}

func (r *userRepository) ListNotInGroup(ctx context.Context, groupID string) ([]*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		WHERE NOT EXISTS (
			SELECT 1 FROM group_members gm WHERE gm.group_id = $1 AND gm.user_id = u.id
		)
		ORDER BY u.username
	`
	return r.queryUsers(ctx, query, groupID)
}

func (r *userRepository) queryUsers(ctx context.Context, query string, args ...any) ([]*domain.User, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

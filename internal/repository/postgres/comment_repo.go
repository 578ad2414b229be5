package postgres

import (
	"context"
	"database/sql"
	"errors"

	"chipin/internal/domain"
)

type commentRepository struct {
	DB *sql.DB
}

func NewCommentRepository(db *sql.DB) domain.CommentRepository {
	return &commentRepository{DB: db}
}

func (r *commentRepository) Create(ctx context.Context, c *domain.Comment) error {
	query := `
		INSERT INTO comments (user_id, group_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, c.UserID, c.GroupID, c.Content, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	query := `
		SELECT id, user_id, group_id, content, created_at, updated_at
		FROM comments
		WHERE id = $1
	`
	c := &domain.Comment{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.UserID, &c.GroupID, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *commentRepository) Update(ctx context.Context, c *domain.Comment) error {
	query := `UPDATE comments SET content = $1, updated_at = $2 WHERE id = $3`
	return execAffectingOne(ctx, r.DB, domain.ErrNotFound, query, c.Content, c.UpdatedAt, c.ID)
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	return execAffectingOne(ctx, r.DB, domain.ErrNotFound, `DELETE FROM comments WHERE id = $1`, id)
}

func (r *commentRepository) ListByGroup(ctx context.Context, groupID string, params domain.PaginationParams) ([]*domain.Comment, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE group_id = $1`, groupID).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `
		SELECT id, user_id, group_id, content, created_at, updated_at
		FROM comments
		WHERE group_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, groupID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	comments := make([]*domain.Comment, 0)
	for rows.Next() {
		c := &domain.Comment{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.GroupID, &c.Content, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"

	"chipin/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (group_id, name, date, total_spend, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, e.GroupID, e.Name, e.Date, e.TotalSpend, string(e.Status), e.CreatedAt).Scan(&e.ID)
}

func scanEvent(s rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var status string
	if err := s.Scan(&e.ID, &e.GroupID, &e.Name, &e.Date, &e.TotalSpend, &status, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Status = domain.EventStatus(status)
	return e, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT id, group_id, name, date, total_spend, status, created_at
		FROM events
		WHERE id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListByGroup(ctx context.Context, groupID string) ([]*domain.Event, error) {
	query := `
		SELECT id, group_id, name, date, total_spend, status, created_at
		FROM events
		WHERE group_id = $1
		ORDER BY date
	`
	rows, err := r.DB.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) error {
	return execAffectingOne(ctx, r.DB, domain.ErrNotFound, `UPDATE events SET status = $1 WHERE id = $2`, string(status), id)
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	return execAffectingOne(ctx, r.DB, domain.ErrNotFound, `DELETE FROM events WHERE id = $1`, id)
}

func (r *eventRepository) AddMember(ctx context.Context, eventID, userID string) error {
	query := `
		INSERT INTO event_members (event_id, user_id)
		VALUES ($1, $2)
	`
	_, err := r.DB.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyMember
		}
		return err
	}
	return nil
}

func (r *eventRepository) RemoveMember(ctx context.Context, eventID, userID string) error {
	query := `DELETE FROM event_members WHERE event_id = $1 AND user_id = $2`
	return execAffectingOne(ctx, r.DB, domain.ErrNotFound, query, eventID, userID)
}

func (r *eventRepository) IsMember(ctx context.Context, eventID, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM event_members WHERE event_id = $1 AND user_id = $2)`
	var ok bool
	err := r.DB.QueryRowContext(ctx, query, eventID, userID).Scan(&ok)
	return ok, err
}

func (r *eventRepository) CountMembers(ctx context.Context, eventID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_members WHERE event_id = $1`, eventID).Scan(&n)
	return n, err
}

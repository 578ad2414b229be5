package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// EventStatus is the affordability state of an event.
type EventStatus string

const (
	EventPending   EventStatus = "Pending"
	EventActive    EventStatus = "Active"
	EventCompleted EventStatus = "Completed"
)

// Event is a shared expense within a group.
// swagger:model Event
type Event struct {
	ID         string          `json:"id"`
	GroupID    string          `json:"group_id"`
	Name       string          `json:"name"`
	Date       time.Time       `json:"date"`
	TotalSpend decimal.Decimal `json:"total_spend" swaggertype:"string"`
	Status     EventStatus     `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewEvent returns a pending Event. ID is set by the repository on create.
func NewEvent(groupID, name string, date time.Time, totalSpend decimal.Decimal, createdAt time.Time) *Event {
	return &Event{
		GroupID:    groupID,
		Name:       name,
		Date:       date,
		TotalSpend: totalSpend,
		Status:     EventPending,
		CreatedAt:  createdAt,
	}
}

// EventShareInfo is an event as seen by one viewer.
type EventShareInfo struct {
	Event    *Event      `json:"event"`
	Share    string      `json:"share"`
	Eligible bool        `json:"eligible"`
	Status   EventStatus `json:"status"`
	Joined   bool        `json:"joined"`
}

// EventRepository defines storage operations for events and their participants.
type EventRepository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListByGroup(ctx context.Context, groupID string) ([]*Event, error)
	UpdateStatus(ctx context.Context, id string, status EventStatus) error
	Delete(ctx context.Context, id string) error

	// AddMember returns ErrAlreadyMember when the user already joined.
	AddMember(ctx context.Context, eventID, userID string) error
	RemoveMember(ctx context.Context, eventID, userID string) error
	IsMember(ctx context.Context, eventID, userID string) (bool, error)
	CountMembers(ctx context.Context, eventID string) (int, error)
}

// EventService covers the event lifecycle inside a group.
type EventService interface {
	CreateEvent(ctx context.Context, groupID, actorID, name string, date time.Time, totalSpend decimal.Decimal) (*Event, *Outcome, error)
	JoinEvent(ctx context.Context, groupID, eventID, userID string) (*Outcome, error)
	LeaveEvent(ctx context.Context, groupID, eventID, userID string) (*Outcome, error)
	UpdateEventStatus(ctx context.Context, groupID, eventID, actorID string) (*Outcome, error)
	DeleteEvent(ctx context.Context, groupID, eventID, actorID string) (*Outcome, error)
}

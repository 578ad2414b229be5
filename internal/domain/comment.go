package domain

import (
	"context"
	"time"
)

// Comment is a message posted to a group.
// swagger:model Comment
type Comment struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	GroupID     string    `json:"group_id"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewComment returns a new Comment. ID is set by the repository on create.
func NewComment(userID, groupID, content string, now time.Time) *Comment {
	return &Comment{
		UserID:    userID,
		GroupID:   groupID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CommentRepository defines storage operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, c *Comment) error
	GetByID(ctx context.Context, id string) (*Comment, error)
	Update(ctx context.Context, c *Comment) error
	Delete(ctx context.Context, id string) error
	// ListByGroup returns one page of the group's comments, newest first, and the total count.
	ListByGroup(ctx context.Context, groupID string, params PaginationParams) ([]*Comment, int, error)
}

// ContentRenderer converts user-authored markdown into safe HTML.
type ContentRenderer interface {
	Render(source string) (string, error)
}

// CommentService covers posting and moderating group comments.
type CommentService interface {
	PostComment(ctx context.Context, groupID, userID, content string) (*Comment, *Outcome, error)
	EditComment(ctx context.Context, groupID, commentID, userID, content string) (*Comment, *Outcome, error)
	DeleteComment(ctx context.Context, commentID, userID string) (*Outcome, error)
	ListComments(ctx context.Context, groupID string, params PaginationParams) ([]*Comment, int, error)
}

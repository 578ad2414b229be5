package domain

import (
	"context"
	"time"
)

// JoinVote is a member's decision on a join request.
type JoinVote string

// VoteApprove admits the requester. Any other vote rejects the request.
const VoteApprove JoinVote = "approve"

// JoinRequest is a user-initiated request to join a group.
// swagger:model JoinRequest
type JoinRequest struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	GroupID   string    `json:"group_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewJoinRequest returns a JoinRequest. ID is set by the repository on create.
func NewJoinRequest(userID, groupID string, createdAt time.Time) *JoinRequest {
	return &JoinRequest{UserID: userID, GroupID: groupID, CreatedAt: createdAt}
}

// JoinRequestRepository defines storage operations for join requests.
type JoinRequestRepository interface {
	Create(ctx context.Context, jr *JoinRequest) error
	GetByID(ctx context.Context, id string) (*JoinRequest, error)
	GetByGroupAndUser(ctx context.Context, groupID, userID string) (*JoinRequest, error)
	ListByGroup(ctx context.Context, groupID string) ([]*JoinRequest, error)
	ListByUser(ctx context.Context, userID string) ([]*JoinRequest, error)
	Delete(ctx context.Context, id string) error
}

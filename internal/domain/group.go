package domain

import (
	"context"
	"time"
)

// Group is a set of users with one designated admin.
// swagger:model Group
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	AdminID   string    `json:"admin_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewGroup returns a new Group administered by adminID. ID is set by the repository on create.
func NewGroup(name, adminID string, createdAt time.Time) *Group {
	return &Group{Name: name, AdminID: adminID, CreatedAt: createdAt}
}

// IsAdmin reports whether userID administers the group.
func (g *Group) IsAdmin(userID string) bool {
	return g != nil && g.AdminID == userID
}

// GroupRepository stores groups along with their member and invited-user sets.
type GroupRepository interface {
	Create(ctx context.Context, group *Group) error
	GetByID(ctx context.Context, id string) (*Group, error)
	// Delete removes the group; invites, comments, events and join requests cascade.
	Delete(ctx context.Context, id string) error
	ListByMember(ctx context.Context, userID string) ([]*Group, error)
	ListInvitingUser(ctx context.Context, userID string) ([]*Group, error)
	// ListAvailable returns groups the user neither belongs to nor has requested to join.
	ListAvailable(ctx context.Context, userID string) ([]*Group, error)

	AddMember(ctx context.Context, groupID, userID string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
	ListMembers(ctx context.Context, groupID string) ([]*User, error)
	CountMembers(ctx context.Context, groupID string) (int, error)

	AddInvitedUser(ctx context.Context, groupID, userID string) error
	RemoveInvitedUser(ctx context.Context, groupID, userID string) error
	IsInvited(ctx context.Context, groupID, userID string) (bool, error)
}

// Home is the landing view for a signed-in user.
type Home struct {
	PendingInvitations []*Group       `json:"pending_invitations"`
	Groups             []*Group       `json:"groups"`
	JoinRequests       []*JoinRequest `json:"join_requests"`
	AvailableGroups    []*Group       `json:"available_groups"`
}

// GroupDetail is everything the group page shows to a viewer.
type GroupDetail struct {
	Group        *Group            `json:"group"`
	Members      []*User           `json:"members"`
	Comments     []*Comment        `json:"comments"`
	Events       []*EventShareInfo `json:"events"`
	JoinRequests []*JoinRequest    `json:"join_requests"`
	IsMember     bool              `json:"is_member"`
	IsAdmin      bool              `json:"is_admin"`
}

// GroupService covers group lifecycle, invitations, and join requests.
type GroupService interface {
	CreateGroup(ctx context.Context, actorID, name string) (*Group, *Outcome, error)
	DeleteGroup(ctx context.Context, groupID, actorID string) (*Outcome, error)
	GetHome(ctx context.Context, userID string) (*Home, error)
	GetGroupDetail(ctx context.Context, groupID, viewerID string) (*GroupDetail, error)
	LeaveGroup(ctx context.Context, groupID, userID string) (*Outcome, error)

	ListInviteCandidates(ctx context.Context, groupID string) ([]*User, error)
	InviteUser(ctx context.Context, groupID, actorID, invitedUserID string) (*Outcome, error)
	GetInviteShare(ctx context.Context, groupID, inviteID string) (*InviteShare, error)
	// AcceptInvite promotes invitedUserID from invited to member. The token is
	// only checked when strict invite verification is enabled.
	AcceptInvite(ctx context.Context, groupID, invitedUserID, token string) (*Outcome, error)

	RequestToJoin(ctx context.Context, groupID, userID string) (*Outcome, error)
	VoteOnJoinRequest(ctx context.Context, groupID, requestID, voterID string, vote JoinVote) (*Outcome, error)
	DeleteJoinRequest(ctx context.Context, requestID, actorID string) (*Outcome, error)
}

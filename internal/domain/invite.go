package domain

import (
	"context"
	"time"
)

// InviteTTL is how long an invite stays valid after creation.
const InviteTTL = 7 * 24 * time.Hour

// Invite is a pending offer for a user to join a group.
// swagger:model Invite
type Invite struct {
	ID            string    `json:"id"`
	Token         string    `json:"token"`
	Accepted      bool      `json:"accepted"`
	GroupID       string    `json:"group_id"`
	InvitedByID   string    `json:"invited_by_id"`
	InvitedUserID string    `json:"invited_user_id"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// NewInvite returns an unaccepted invite expiring InviteTTL after createdAt.
func NewInvite(groupID, invitedByID, invitedUserID, token string, createdAt time.Time) *Invite {
	return &Invite{
		Token:         token,
		GroupID:       groupID,
		InvitedByID:   invitedByID,
		InvitedUserID: invitedUserID,
		CreatedAt:     createdAt,
		ExpiresAt:     createdAt.Add(InviteTTL),
	}
}

// Expired reports whether the invite is past its expiry at now.
func (i *Invite) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// AcceptPath is the link an invitee follows to join the group.
func (i *Invite) AcceptPath() string {
	return GroupPath(i.GroupID) + "/invites/accept?user_id=" + i.InvitedUserID + "&token=" + i.Token
}

// InviteShare carries what a client needs to relay an invite through the
// external form-submission service.
type InviteShare struct {
	Group       *Group  `json:"group"`
	Invite      *Invite `json:"invite"`
	AcceptLink  string  `json:"accept_link"`
	AccessKey   string  `json:"access_key"`
	RedirectURL string  `json:"redirect_url"`
}

// InviteRepository defines storage operations for invites.
type InviteRepository interface {
	Create(ctx context.Context, inv *Invite) error
	GetByID(ctx context.Context, id string) (*Invite, error)
	GetByToken(ctx context.Context, token string) (*Invite, error)
	// MarkAccepted flags every open invite of userID to groupID as accepted.
	MarkAccepted(ctx context.Context, groupID, userID string) error
}

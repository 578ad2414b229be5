package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"chipin/internal/domain"

	"github.com/google/uuid"
)

const (
	maxGroupNameLen = 100
	// detailCommentLimit caps the comments embedded in the group detail view.
	detailCommentLimit = 50
)

// InviteSettings configures how invites are shared and accepted.
type InviteSettings struct {
	// SiteURL prefixes the accept and thank-you links, e.g. https://chipin.example.com.
	SiteURL string
	// FormAccessKey is handed to clients relaying invites through the form service.
	FormAccessKey string
	// RequireToken makes AcceptInvite verify the invite token.
	RequireToken bool
}

type groupService struct {
	groupRepo       domain.GroupRepository
	userRepo        domain.UserRepository
	inviteRepo      domain.InviteRepository
	joinRequestRepo domain.JoinRequestRepository
	commentRepo     domain.CommentRepository
	eventRepo       domain.EventRepository
	emailService    domain.EmailService
	renderer        domain.ContentRenderer
	settings        InviteSettings
	shares          shareCalculator
	logger          *slog.Logger
	contextTimeout  time.Duration
}

func NewGroupService(
	groupRepo domain.GroupRepository,
	userRepo domain.UserRepository,
	inviteRepo domain.InviteRepository,
	joinRequestRepo domain.JoinRequestRepository,
	commentRepo domain.CommentRepository,
	eventRepo domain.EventRepository,
	emailService domain.EmailService,
	renderer domain.ContentRenderer,
	settings InviteSettings,
	logger *slog.Logger,
	timeout time.Duration,
) domain.GroupService {
	settings.SiteURL = strings.TrimSuffix(settings.SiteURL, "/")
	return &groupService{
		groupRepo:       groupRepo,
		userRepo:        userRepo,
		inviteRepo:      inviteRepo,
		joinRequestRepo: joinRequestRepo,
		commentRepo:     commentRepo,
		eventRepo:       eventRepo,
		emailService:    emailService,
		renderer:        renderer,
		settings:        settings,
		shares:          shareCalculator{groupRepo: groupRepo, eventRepo: eventRepo},
		logger:          logger,
		contextTimeout:  timeout,
	}
}

func (s *groupService) CreateGroup(ctx context.Context, actorID, name string) (*domain.Group, *domain.Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxGroupNameLen {
		return nil, nil, fmt.Errorf("%w: name must be between 1 and %d characters", domain.ErrInvalidInput, maxGroupNameLen)
	}
	group := domain.NewGroup(name, actorID, time.Now())
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, nil, fmt.Errorf("create group: %w", err)
	}
	if err := s.groupRepo.AddMember(ctx, group.ID, actorID); err != nil {
		return nil, nil, fmt.Errorf("add admin as member: %w", err)
	}
	return group, domain.Success(domain.GroupPath(group.ID), "Group \"%s\" created successfully!", group.Name), nil
}

func (s *groupService) DeleteGroup(ctx context.Context, groupID, actorID string) (*domain.Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsAdmin(actorID) {
		return domain.Failure(domain.HomePath, "You do not have permission to delete this group."), nil
	}
	if err := s.groupRepo.Delete(ctx, group.ID); err != nil {
		return nil, fmt.Errorf("delete group: %w", err)
	}
	return domain.Success(domain.HomePath, "Group \"%s\" has been deleted.", group.Name), nil
}

func (s *groupService) GetHome(ctx context.Context, userID string) (*domain.Home, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	invitations, err := s.groupRepo.ListInvitingUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list pending invitations: %w", err)
	}
	groups, err := s.groupRepo.ListByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user groups: %w", err)
	}
	requests, err := s.joinRequestRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list join requests: %w", err)
	}
	available, err := s.groupRepo.ListAvailable(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list available groups: %w", err)
	}
	return &domain.Home{
		PendingInvitations: invitations,
		Groups:             groups,
		JoinRequests:       requests,
		AvailableGroups:    available,
	}, nil
}

func (s *groupService) GetGroupDetail(ctx context.Context, groupID, viewerID string) (*domain.GroupDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	viewer, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("get viewer: %w", err)
	}
	members, err := s.groupRepo.ListMembers(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	comments, _, err := s.commentRepo.ListByGroup(ctx, group.ID, domain.PaginationParams{Page: 1, PageSize: detailCommentLimit})
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	renderComments(ctx, s.renderer, s.logger, comments)

	events, err := s.eventRepo.ListByGroup(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	viewerCap := viewer.SpendingCap()
	infos := make([]*domain.EventShareInfo, 0, len(events))
	for _, e := range events {
		share, err := s.shares.share(ctx, e)
		if err != nil {
			return nil, err
		}
		joined, err := s.eventRepo.IsMember(ctx, e.ID, viewerID)
		if err != nil {
			return nil, fmt.Errorf("check event membership: %w", err)
		}
		infos = append(infos, &domain.EventShareInfo{
			Event:    e,
			Share:    domain.FormatAmount(share),
			Eligible: viewerCap.GreaterThanOrEqual(share),
			Status:   e.Status,
			Joined:   joined,
		})
	}

	requests, err := s.joinRequestRepo.ListByGroup(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("list join requests: %w", err)
	}

	isMember := false
	for _, m := range members {
		if m.ID == viewerID {
			isMember = true
			break
		}
	}
	return &domain.GroupDetail{
		Group:        group,
		Members:      members,
		Comments:     comments,
		Events:       infos,
		JoinRequests: requests,
		IsMember:     isMember,
		IsAdmin:      group.IsAdmin(viewerID),
	}, nil
}

func (s *groupService) LeaveGroup(ctx context.Context, groupID, userID string) (*domain.Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	back := domain.GroupPath(group.ID)
	isMember, err := s.groupRepo.IsMember(ctx, group.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !isMember {
		return domain.Failure(back, "You’re not a member of this group."), nil
	}
	if group.IsAdmin(userID) {
		return domain.Failure(back, "Admins can’t leave their own group. Transfer admin or delete the group."), nil
	}
	if err := s.groupRepo.RemoveMember(ctx, group.ID, userID); err != nil {
		return nil, fmt.Errorf("remove member: %w", err)
	}
	return domain.Success(domain.HomePath, "You left \"%s\".", group.Name), nil
}

func (s *groupService) ListInviteCandidates(ctx context.Context, groupID string) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.ListNotInGroup(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("list invite candidates: %w", err)
	}
	return users, nil
}

func (s *groupService) InviteUser(ctx context.Context, groupID, actorID, invitedUserID string) (*domain.Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	invitee, err := s.userRepo.GetByID(ctx, invitedUserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get invited user: %w", err)
	}
	back := domain.GroupPath(group.ID)

	invited, err := s.groupRepo.IsInvited(ctx, group.ID, invitee.ID)
	if err != nil {
		return nil, fmt.Errorf("check invited: %w", err)
	}
	if invited {
		return domain.Info(back, "%s has already been invited.", invitee.Username), nil
	}

	if err := s.groupRepo.AddInvitedUser(ctx, group.ID, invitee.ID); err != nil {
		return nil, fmt.Errorf("add invited user: %w", err)
	}
	invite := domain.NewInvite(group.ID, actorID, invitee.ID, uuid.NewString(), time.Now())
	if err := s.inviteRepo.Create(ctx, invite); err != nil {
		return nil, fmt.Errorf("create invite: %w", err)
	}

	if err := s.sendInviteEmail(ctx, group, invite, invitee, actorID); err != nil {
		s.logger.WarnContext(ctx, "invite email not delivered", "group_id", group.ID, "invite_id", invite.ID, "err", err)
		return domain.Warning(back, "Invitation sent to %s, but the email could not be delivered.", invitee.Username), nil
	}
	return domain.Success(back, "Invitation sent to %s.", invitee.Username), nil
}

func (s *groupService) sendInviteEmail(ctx context.Context, group *domain.Group, invite *domain.Invite, invitee *domain.User, inviterID string) error {
	if s.emailService == nil {
		return nil
	}
	inviter, err := s.userRepo.GetByID(ctx, inviterID)
	if err != nil {
		return fmt.Errorf("get inviter: %w", err)
	}
	return s.emailService.SendGroupInvite(ctx, &domain.GroupInviteEmailData{
		Email:       invitee.Email,
		InviteeName: invitee.DisplayName(),
		InviterName: inviter.DisplayName(),
		GroupName:   group.Name,
		AcceptURL:   s.settings.SiteURL + invite.AcceptPath(),
		ExpiresAt:   invite.ExpiresAt.Format("January 2, 2006"),
	})
}

func (s *groupService) GetInviteShare(ctx context.Context, groupID, inviteID string) (*domain.InviteShare, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	invite, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get invite: %w", err)
	}
	if invite.GroupID != group.ID {
		return nil, domain.ErrNotFound
	}
	return &domain.InviteShare{
		Group:       group,
		Invite:      invite,
		AcceptLink:  s.settings.SiteURL + invite.AcceptPath(),
		AccessKey:   s.settings.FormAccessKey,
		RedirectURL: fmt.Sprintf("%s/invites/sent?group=%s&invite=%s", s.settings.SiteURL, group.ID, invite.ID),
	}, nil
}

func (s *groupService) AcceptInvite(ctx context.Context, groupID, invitedUserID, token string) (*domain.Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	back := domain.GroupPath(group.ID)
	if invitedUserID == "" {
		return domain.Failure(back, "Invalid invitation link."), nil
	}
	invitee, err := s.userRepo.GetByID(ctx, invitedUserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get invited user: %w", err)
	}

	isMember, err := s.groupRepo.IsMember(ctx, group.ID, invitee.ID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if isMember {
		return domain.Info(back, "%s is already a member of the group \"%s\".", invitee.Username, group.Name), nil
	}
	invited, err := s.groupRepo.IsInvited(ctx, group.ID, invitee.ID)
	if err != nil {
		return nil, fmt.Errorf("check invited: %w", err)
	}
	if !invited {
		return domain.Failure(back, "You are not invited to join this group."), nil
	}
	if s.settings.RequireToken {
		ok, err := s.validInviteToken(ctx, group.ID, invitee.ID, token)
		if err != nil {
			return nil, err
		}
		if !ok {
			return domain.Failure(back, "Invalid invitation link."), nil
		}
	}

	if err := s.groupRepo.AddMember(ctx, group.ID, invitee.ID); err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	if err := s.groupRepo.RemoveInvitedUser(ctx, group.ID, invitee.ID); err != nil {
		return nil, fmt.Errorf("remove invited user: %w", err)
	}
	if err := s.inviteRepo.MarkAccepted(ctx, group.ID, invitee.ID); err != nil {
		return nil, fmt.Errorf("mark invites accepted: %w", err)
	}
	return domain.Success(back, "%s has successfully joined the group \"%s\".", invitee.Username, group.Name), nil
}

// validInviteToken reports whether token names an open, unexpired invite of userID to groupID.
func (s *groupService) validInviteToken(ctx context.Context, groupID, userID, token string) (bool, error) {
	if uuid.Validate(token) != nil {
		return false, nil
	}
	invite, err := s.inviteRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get invite by token: %w", err)
	}
	return invite.GroupID == groupID &&
		invite.InvitedUserID == userID &&
		!invite.Accepted &&
		!invite.Expired(time.Now()), nil
}

func (s *groupService) RequestToJoin(ctx context.Context, groupID, userID string) (*domain.Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	back := domain.GroupPath(group.ID)
	isMember, err := s.groupRepo.IsMember(ctx, group.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if isMember {
		return domain.Info(back, "You’re already a member of this group."), nil
	}
	_, err = s.joinRequestRepo.GetByGroupAndUser(ctx, group.ID, userID)
	switch {
	case err == nil:
		return domain.Info(back, "You have already requested to join this group."), nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("get join request: %w", err)
	}
	if err := s.joinRequestRepo.Create(ctx, domain.NewJoinRequest(userID, group.ID, time.Now())); err != nil {
		return nil, fmt.Errorf("create join request: %w", err)
	}
	return domain.Success(back, "Your request to join the group has been submitted."), nil
}

func (s *groupService) VoteOnJoinRequest(ctx context.Context, groupID, requestID, voterID string, vote domain.JoinVote) (*domain.Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	jr, err := s.joinRequestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get join request: %w", err)
	}
	if jr.GroupID != group.ID {
		return nil, domain.ErrNotFound
	}
	back := domain.GroupPath(group.ID)

	isMember, err := s.groupRepo.IsMember(ctx, group.ID, voterID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !isMember {
		return domain.Failure(back, "Only group members may vote on join requests."), nil
	}

	if vote != domain.VoteApprove {
		if err := s.joinRequestRepo.Delete(ctx, jr.ID); err != nil {
			return nil, fmt.Errorf("delete join request: %w", err)
		}
		return domain.Info(back, "Join request rejected."), nil
	}

	requester, err := s.userRepo.GetByID(ctx, jr.UserID)
	if err != nil {
		return nil, fmt.Errorf("get requester: %w", err)
	}
	if err := s.groupRepo.AddMember(ctx, group.ID, requester.ID); err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	if err := s.joinRequestRepo.Delete(ctx, jr.ID); err != nil {
		return nil, fmt.Errorf("delete join request: %w", err)
	}
	return domain.Success(back, "%s has been added to the group.", requester.DisplayName()), nil
}

func (s *groupService) DeleteJoinRequest(ctx context.Context, requestID, actorID string) (*domain.Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	jr, err := s.joinRequestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get join request: %w", err)
	}
	group, err := s.getGroup(ctx, jr.GroupID)
	if err != nil {
		return nil, err
	}
	if jr.UserID != actorID && !group.IsAdmin(actorID) {
		return domain.Failure(domain.HomePath, "You don’t have permission to delete that request."), nil
	}
	if err := s.joinRequestRepo.Delete(ctx, jr.ID); err != nil {
		return nil, fmt.Errorf("delete join request: %w", err)
	}
	return domain.Success(domain.HomePath, "Join request removed."), nil
}

// getGroup passes domain.ErrNotFound through unwrapped so controllers can map it to 404.
func (s *groupService) getGroup(ctx context.Context, groupID string) (*domain.Group, error) {
	return loadGroup(ctx, s.groupRepo, groupID)
}

func loadGroup(ctx context.Context, repo domain.GroupRepository, groupID string) (*domain.Group, error) {
	group, err := repo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get group: %w", err)
	}
	return group, nil
}

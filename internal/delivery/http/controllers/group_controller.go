package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "chipin/internal/delivery/http/helpers"
	"chipin/internal/domain"

	"github.com/google/uuid"
)

// CreateGroupRequest is the request body for POST /groups.
type CreateGroupRequest struct {
	Name string `json:"name" example:"Flatmates"`
}

// Validate implements Validator.
func (c CreateGroupRequest) Validate() []string {
	if strings.TrimSpace(c.Name) == "" {
		return []string{"name is required"}
	}
	return nil
}

// InviteUserRequest is the request body for POST /groups/{groupID}/invites.
type InviteUserRequest struct {
	UserID string `json:"user_id"`
}

// Validate implements Validator.
func (i InviteUserRequest) Validate() []string {
	if uuid.Validate(i.UserID) != nil {
		return []string{"user_id must be a valid UUID"}
	}
	return nil
}

// OutcomeSuccessResponse is the success envelope for workflow endpoints.
type OutcomeSuccessResponse struct {
	Data  h.OutcomeData `json:"data"`
	Error *h.APIError   `json:"error"`
}

// HomeSuccessResponse is the success envelope for GET /home (200).
type HomeSuccessResponse struct {
	Data  *domain.Home `json:"data"`
	Error *h.APIError  `json:"error"`
}

// GroupDetailSuccessResponse is the success envelope for GET /groups/{groupID} (200).
type GroupDetailSuccessResponse struct {
	Data  *domain.GroupDetail `json:"data"`
	Error *h.APIError         `json:"error"`
}

// UsersSuccessResponse is the success envelope for user lists (200).
type UsersSuccessResponse struct {
	Data  []*domain.User `json:"data"`
	Error *h.APIError    `json:"error"`
}

// InviteShareSuccessResponse is the success envelope for GET /groups/{groupID}/invites/{inviteID} (200).
type InviteShareSuccessResponse struct {
	Data  *domain.InviteShare `json:"data"`
	Error *h.APIError         `json:"error"`
}

// GroupController handles groups, invitations and join requests.
type GroupController struct {
	Logger  *slog.Logger
	Service domain.GroupService
}

func NewGroupController(logger *slog.Logger, svc domain.GroupService) *GroupController {
	return &GroupController{
		Logger:  logger,
		Service: svc,
	}
}

// Home godoc
// @Summary Home view
// @Description Pending invitations, the user's groups, their join requests and the groups they could ask to join.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.HomeSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /home [get]
func (c *GroupController) Home(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	home, err := c.Service.GetHome(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "user not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, home)
}

// CreateGroup godoc
// @Summary Create a group
// @Description The caller becomes the group's administrator and first member.
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateGroupRequest true "Group name"
// @Success 201 {object} controllers.OutcomeSuccessResponse "data.result contains the created group"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups [post]
func (c *GroupController) CreateGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req CreateGroupRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	group, outcome, err := c.Service.CreateGroup(r.Context(), userID, req.Name)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "group not found")
		return
	}
	h.WriteOutcome(w, http.StatusCreated, outcome, group)
}

// GetGroup godoc
// @Summary Group detail
// @Description Members, newest comments, events with the viewer's share and eligibility, and pending join requests.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID (UUID)"
// @Success 200 {object} controllers.GroupDetailSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID} [get]
func (c *GroupController) GetGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	groupID, ok := h.PathID(w, r, "groupID")
	if !ok {
		return
	}
	detail, err := c.Service.GetGroupDetail(r.Context(), groupID, userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "group not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, detail)
}

// DeleteGroup godoc
// @Summary Delete a group
// @Description Admin only. Invites, comments, events and join requests are removed with the group.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID (UUID)"
// @Success 200 {object} controllers.OutcomeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID} [delete]
func (c *GroupController) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	c.groupAction(w, r, c.Service.DeleteGroup)
}

// LeaveGroup godoc
// @Summary Leave a group
// @Description Removes the caller from the group. The administrator cannot leave.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID (UUID)"
// @Success 200 {object} controllers.OutcomeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/leave [post]
func (c *GroupController) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	c.groupAction(w, r, c.Service.LeaveGroup)
}

// RequestToJoin godoc
// @Summary Request to join a group
// @Description Creates a join request unless the caller is a member or already asked.
// @Tags join-requests
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID (UUID)"
// @Success 200 {object} controllers.OutcomeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/join-requests [post]
func (c *GroupController) RequestToJoin(w http.ResponseWriter, r *http.Request) {
	c.groupAction(w, r, c.Service.RequestToJoin)
}

// groupAction runs a workflow that takes only the group and the caller.
func (c *GroupController) groupAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, groupID, userID string) (*domain.Outcome, error)) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	groupID, ok := h.PathID(w, r, "groupID")
	if !ok {
		return
	}
	outcome, err := action(r.Context(), groupID, userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "group not found")
		return
	}
	h.WriteOutcome(w, http.StatusOK, outcome, nil)
}

// ListInviteCandidates godoc
// @Summary Users who can be invited
// @Description Every user that is not a member of the group.
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID (UUID)"
// @Success 200 {object} controllers.UsersSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/invite-candidates [get]
func (c *GroupController) ListInviteCandidates(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	groupID, ok := h.PathID(w, r, "groupID")
	if !ok {
		return
	}
	users, err := c.Service.ListInviteCandidates(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "group not found")
		return
	}
	if users == nil {
		users = []*domain.User{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, users)
}

// InviteUser godoc
// @Summary Invite a user
// @Description Adds the user to the group's invited list, records an invite with a 7-day token and emails the accept link.
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID (UUID)"
// @Param body body InviteUserRequest true "User to invite"
// @Success 200 {object} controllers.OutcomeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/invites [post]
func (c *GroupController) InviteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	groupID, ok := h.PathID(w, r, "groupID")
	if !ok {
		return
	}
	var req InviteUserRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	outcome, err := c.Service.InviteUser(r.Context(), groupID, userID, req.UserID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "group or user not found")
		return
	}
	h.WriteOutcome(w, http.StatusOK, outcome, nil)
}

// AcceptInvite godoc
// @Summary Accept an invitation
// @Description Moves the invited user into the group. The token is only checked when strict invite verification is enabled.
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID (UUID)"
// @Param user_id query string true "Invited user ID (UUID)"
// @Param token query string false "Invite token"
// @Success 200 {object} controllers.OutcomeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/invites/accept [get]
func (c *GroupController) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	groupID, ok := h.PathID(w, r, "groupID")
	if !ok {
		return
	}
	q := r.URL.Query()
	invitedUserID := strings.TrimSpace(q.Get("user_id"))
	// A malformed id is treated like a missing one: an invalid link.
	if uuid.Validate(invitedUserID) != nil {
		invitedUserID = ""
	}
	outcome, err := c.Service.AcceptInvite(r.Context(), groupID, invitedUserID, strings.TrimSpace(q.Get("token")))
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "group or user not found")
		return
	}
	h.WriteOutcome(w, http.StatusOK, outcome, nil)
}

// GetInviteShare godoc
// @Summary Invite relay data
// @Description The invite, its accept link and the form service access key and redirect used to relay it.
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID (UUID)"
// @Param inviteID path string true "Invite ID (UUID)"
// @Success 200 {object} controllers.InviteShareSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/invites/{inviteID} [get]
func (c *GroupController) GetInviteShare(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	groupID, ok := h.PathID(w, r, "groupID")
	if !ok {
		return
	}
	inviteID, ok := h.PathID(w, r, "inviteID")
	if !ok {
		return
	}
	share, err := c.Service.GetInviteShare(r.Context(), groupID, inviteID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "invite not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, share)
}

// VoteOnJoinRequest godoc
// @Summary Vote on a join request
// @Description Members only. "approve" admits the requester; any other vote rejects. The request is removed either way.
// @Tags join-requests
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID (UUID)"
// @Param requestID path string true "Join request ID (UUID)"
// @Param vote path string true "approve or reject"
// @Success 200 {object} controllers.OutcomeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/join-requests/{requestID}/{vote} [post]
func (c *GroupController) VoteOnJoinRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	groupID, ok := h.PathID(w, r, "groupID")
	if !ok {
		return
	}
	requestID, ok := h.PathID(w, r, "requestID")
	if !ok {
		return
	}
	vote := domain.JoinVote(strings.ToLower(r.PathValue("vote")))
	outcome, err := c.Service.VoteOnJoinRequest(r.Context(), groupID, requestID, userID, vote)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "join request not found")
		return
	}
	h.WriteOutcome(w, http.StatusOK, outcome, nil)
}

// DeleteJoinRequest godoc
// @Summary Withdraw or dismiss a join request
// @Description Allowed for the requester and the group administrator.
// @Tags join-requests
// @Produce json
// @Security BearerAuth
// @Param requestID path string true "Join request ID (UUID)"
// @Success 200 {object} controllers.OutcomeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /join-requests/{requestID} [delete]
func (c *GroupController) DeleteJoinRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	requestID, ok := h.PathID(w, r, "requestID")
	if !ok {
		return
	}
	outcome, err := c.Service.DeleteJoinRequest(r.Context(), requestID, userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "join request not found")
		return
	}
	h.WriteOutcome(w, http.StatusOK, outcome, nil)
}

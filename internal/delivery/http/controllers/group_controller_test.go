package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"chipin/internal/delivery/http/helpers"
	"chipin/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupController_CreateGroup(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &fakeGroupService{
			group:   &domain.Group{ID: testGroupID, Name: "Flatmates", AdminID: testUserID},
			outcome: domain.Success(domain.GroupPath(testGroupID), "Group \"Flatmates\" created successfully!"),
		}
		rr := httptest.NewRecorder()

		NewGroupController(testLogger, svc).CreateGroup(rr, newRequest(http.MethodPost, "/groups", CreateGroupRequest{Name: "Flatmates"}, testUserID, nil))

		require.Equal(t, http.StatusCreated, rr.Code)
		env := decodeResponse(t, rr)
		outcome := outcomeOf(t, env)
		assert.Equal(t, "success", outcome["level"])
		assert.Equal(t, "/groups/"+testGroupID, outcome["redirect"])
		result := env.Data.(map[string]any)["result"].(map[string]any)
		assert.Equal(t, testGroupID, result["id"])
		assert.Equal(t, []string{testUserID, "Flatmates"}, svc.lastArgs)
	})

	t.Run("blank name", func(t *testing.T) {
		svc := &fakeGroupService{}
		rr := httptest.NewRecorder()

		NewGroupController(testLogger, svc).CreateGroup(rr, newRequest(http.MethodPost, "/groups", CreateGroupRequest{Name: "  "}, testUserID, nil))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Empty(t, svc.lastCall)
	})
}

func TestGroupController_GroupActions(t *testing.T) {
	type handler func(*GroupController) http.HandlerFunc
	actions := []struct {
		name    string
		call    string
		handler handler
	}{
		{"delete", "DeleteGroup", func(c *GroupController) http.HandlerFunc { return c.DeleteGroup }},
		{"leave", "LeaveGroup", func(c *GroupController) http.HandlerFunc { return c.LeaveGroup }},
		{"request to join", "RequestToJoin", func(c *GroupController) http.HandlerFunc { return c.RequestToJoin }},
	}
	cases := []struct {
		name       string
		groupID    string
		outcome    *domain.Outcome
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "success", groupID: testGroupID, outcome: domain.Success(domain.HomePath, "ok"), wantStatus: http.StatusOK},
		{name: "info", groupID: testGroupID, outcome: domain.Info(domain.GroupPath(testGroupID), "already"), wantStatus: http.StatusOK},
		{name: "denied", groupID: testGroupID, outcome: domain.Failure(domain.GroupPath(testGroupID), "You do not have permission to delete this group."), wantStatus: http.StatusForbidden, wantCode: helpers.ErrCodeForbidden},
		{name: "missing group", groupID: testGroupID, err: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeNotFound},
		{name: "store failure", groupID: testGroupID, err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: helpers.ErrCodeInternalError},
		{name: "bad id", groupID: "42", wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
	}

	for _, a := range actions {
		for _, tt := range cases {
			t.Run(a.name+"/"+tt.name, func(t *testing.T) {
				svc := &fakeGroupService{outcome: tt.outcome, err: tt.err}
				ctrl := NewGroupController(testLogger, svc)
				rr := httptest.NewRecorder()

				a.handler(ctrl)(rr, newRequest(http.MethodPost, "/groups/"+tt.groupID, nil, testUserID, map[string]string{"groupID": tt.groupID}))

				require.Equal(t, tt.wantStatus, rr.Code)
				env := decodeResponse(t, rr)
				if tt.wantCode != "" {
					require.NotNil(t, env.Error)
					assert.Equal(t, tt.wantCode, env.Error.Code)
					if tt.outcome != nil {
						assert.Equal(t, tt.outcome.Message, env.Error.Message)
					}
					return
				}
				assert.Equal(t, string(tt.outcome.Level), outcomeOf(t, env)["level"])
				assert.Equal(t, a.call, svc.lastCall)
				assert.Equal(t, []string{testGroupID, testUserID}, svc.lastArgs)
			})
		}
	}
}

func TestGroupController_Home(t *testing.T) {
	svc := &fakeGroupService{home: &domain.Home{Groups: []*domain.Group{{ID: testGroupID, Name: "Flatmates"}}}}
	rr := httptest.NewRecorder()

	NewGroupController(testLogger, svc).Home(rr, newRequest(http.MethodGet, "/home", nil, testUserID, nil))

	require.Equal(t, http.StatusOK, rr.Code)
	data := decodeResponse(t, rr).Data.(map[string]any)
	groups := data["groups"].([]any)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{testUserID}, svc.lastArgs)
}

func TestGroupController_GetGroup(t *testing.T) {
	t.Run("detail", func(t *testing.T) {
		svc := &fakeGroupService{detail: &domain.GroupDetail{
			Group:   &domain.Group{ID: testGroupID, Name: "Flatmates"},
			IsAdmin: true,
			Events:  []*domain.EventShareInfo{{Event: &domain.Event{ID: testEventID}, Share: "25.00", Eligible: true, Status: domain.EventActive}},
		}}
		rr := httptest.NewRecorder()

		NewGroupController(testLogger, svc).GetGroup(rr, newRequest(http.MethodGet, "/groups/"+testGroupID, nil, testUserID, map[string]string{"groupID": testGroupID}))

		require.Equal(t, http.StatusOK, rr.Code)
		data := decodeResponse(t, rr).Data.(map[string]any)
		assert.Equal(t, true, data["is_admin"])
		event := data["events"].([]any)[0].(map[string]any)
		assert.Equal(t, "25.00", event["share"])
		assert.Equal(t, "Active", event["status"])
		assert.Equal(t, []string{testGroupID, testUserID}, svc.lastArgs)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeGroupService{err: domain.ErrNotFound}
		rr := httptest.NewRecorder()

		NewGroupController(testLogger, svc).GetGroup(rr, newRequest(http.MethodGet, "/groups/"+testGroupID, nil, testUserID, map[string]string{"groupID": testGroupID}))

		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "group not found", decodeResponse(t, rr).Error.Message)
	})
}

func TestGroupController_ListInviteCandidates(t *testing.T) {
	svc := &fakeGroupService{}
	rr := httptest.NewRecorder()

	NewGroupController(testLogger, svc).ListInviteCandidates(rr, newRequest(http.MethodGet, "/groups/"+testGroupID+"/invite-candidates", nil, testUserID, map[string]string{"groupID": testGroupID}))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []any{}, decodeResponse(t, rr).Data, "empty list is an array, not null")
}

func TestGroupController_InviteUser(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		outcome    *domain.Outcome
		wantStatus int
		wantLevel  string
	}{
		{name: "sent", body: InviteUserRequest{UserID: testEventID}, outcome: domain.Success(domain.GroupPath(testGroupID), "Invitation sent to bo."), wantStatus: http.StatusOK, wantLevel: "success"},
		{name: "already invited", body: InviteUserRequest{UserID: testEventID}, outcome: domain.Info(domain.GroupPath(testGroupID), "bo has already been invited."), wantStatus: http.StatusOK, wantLevel: "info"},
		{name: "email failed", body: InviteUserRequest{UserID: testEventID}, outcome: domain.Warning(domain.GroupPath(testGroupID), "Invitation created for bo, but the email could not be sent."), wantStatus: http.StatusOK, wantLevel: "warning"},
		{name: "bad user id", body: InviteUserRequest{UserID: "bo"}, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeGroupService{outcome: tt.outcome}
			rr := httptest.NewRecorder()

			NewGroupController(testLogger, svc).InviteUser(rr, newRequest(http.MethodPost, "/groups/"+testGroupID+"/invites", tt.body, testUserID, map[string]string{"groupID": testGroupID}))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantLevel == "" {
				assert.Empty(t, svc.lastCall)
				return
			}
			assert.Equal(t, tt.wantLevel, outcomeOf(t, decodeResponse(t, rr))["level"])
			assert.Equal(t, []string{testGroupID, testUserID, testEventID}, svc.lastArgs)
		})
	}
}

func TestGroupController_AcceptInvite(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantArgs []string
	}{
		{name: "user and token", query: "?user_id=" + testUserID + "&token=" + testInviteID, wantArgs: []string{testGroupID, testUserID, testInviteID}},
		{name: "missing user", query: "?token=abc", wantArgs: []string{testGroupID, "", "abc"}},
		{name: "malformed user", query: "?user_id=bob", wantArgs: []string{testGroupID, "", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeGroupService{outcome: domain.Success(domain.GroupPath(testGroupID), "joined")}
			rr := httptest.NewRecorder()

			NewGroupController(testLogger, svc).AcceptInvite(rr, newRequest(http.MethodGet, "/groups/"+testGroupID+"/invites/accept"+tt.query, nil, testUserID, map[string]string{"groupID": testGroupID}))

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.wantArgs, svc.lastArgs)
		})
	}

	t.Run("not invited", func(t *testing.T) {
		svc := &fakeGroupService{outcome: domain.Failure(domain.GroupPath(testGroupID), "You are not invited to join this group.")}
		rr := httptest.NewRecorder()

		NewGroupController(testLogger, svc).AcceptInvite(rr, newRequest(http.MethodGet, "/groups/"+testGroupID+"/invites/accept?user_id="+testUserID, nil, testUserID, map[string]string{"groupID": testGroupID}))

		require.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "You are not invited to join this group.", decodeResponse(t, rr).Error.Message)
	})
}

func TestGroupController_GetInviteShare(t *testing.T) {
	svc := &fakeGroupService{share: &domain.InviteShare{
		Invite:      &domain.Invite{ID: testInviteID},
		AcceptLink:  "https://chipin.test/groups/" + testGroupID + "/invites/accept?user_id=u&token=t",
		AccessKey:   "form-key",
		RedirectURL: "https://chipin.test/invites/sent",
	}}
	rr := httptest.NewRecorder()

	NewGroupController(testLogger, svc).GetInviteShare(rr, newRequest(http.MethodGet, "/", nil, testUserID, map[string]string{"groupID": testGroupID, "inviteID": testInviteID}))

	require.Equal(t, http.StatusOK, rr.Code)
	data := decodeResponse(t, rr).Data.(map[string]any)
	assert.Equal(t, "form-key", data["access_key"])
	assert.Equal(t, []string{testGroupID, testInviteID}, svc.lastArgs)
}

func TestGroupController_VoteOnJoinRequest(t *testing.T) {
	svc := &fakeGroupService{outcome: domain.Success(domain.GroupPath(testGroupID), "approved")}
	rr := httptest.NewRecorder()

	NewGroupController(testLogger, svc).VoteOnJoinRequest(rr, newRequest(http.MethodPost, "/", nil, testUserID, map[string]string{
		"groupID":   testGroupID,
		"requestID": testRequestID,
		"vote":      "Approve",
	}))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.VoteApprove, svc.lastVote)
	assert.Equal(t, []string{testGroupID, testRequestID, testUserID}, svc.lastArgs)
}

func TestGroupController_DeleteJoinRequest(t *testing.T) {
	t.Run("denied", func(t *testing.T) {
		svc := &fakeGroupService{outcome: domain.Failure(domain.HomePath, "You do not have permission to delete this join request.")}
		rr := httptest.NewRecorder()

		NewGroupController(testLogger, svc).DeleteJoinRequest(rr, newRequest(http.MethodDelete, "/", nil, testUserID, map[string]string{"requestID": testRequestID}))

		require.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, []string{testRequestID, testUserID}, svc.lastArgs)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		svc := &fakeGroupService{}
		rr := httptest.NewRecorder()

		NewGroupController(testLogger, svc).DeleteJoinRequest(rr, newRequest(http.MethodDelete, "/", nil, "", map[string]string{"requestID": testRequestID}))

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Empty(t, svc.lastCall)
	})
}

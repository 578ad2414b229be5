package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chipin/internal/delivery/http/helpers"
	"chipin/internal/delivery/http/middleware"
	"chipin/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	testUserID    = "5f0c6a2e-8a57-4b4c-9f7e-1d2b3c4d5e6f"
	testGroupID   = "0b7e5b9a-3c1d-4f7a-9a43-41f1e0b8d7a5"
	testEventID   = "9d4a1c7e-2b3f-4e5a-8c6d-7f8e9a0b1c2d"
	testCommentID = "3e2d1c0b-9a8f-4e7d-8c6b-5a4f3e2d1c0b"
	testRequestID = "7a6b5c4d-3e2f-4a1b-9c8d-7e6f5a4b3c2d"
	testInviteID  = "1a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d"
)

// newRequest builds a request, optionally authenticated as userID, with path values set.
func newRequest(method, target string, body any, userID string, pathValues map[string]string) *http.Request {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	if userID != "" {
		req = req.WithContext(middleware.SetUserID(req.Context(), userID))
	}
	return req
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var env helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

// outcomeOf extracts the outcome from a workflow response.
func outcomeOf(t *testing.T, env helpers.APIResponse) map[string]any {
	t.Helper()
	data, ok := env.Data.(map[string]any)
	require.True(t, ok, "data should be an object")
	outcome, ok := data["outcome"].(map[string]any)
	require.True(t, ok, "data.outcome should be an object")
	return outcome
}

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	signUpUser   *domain.User
	signUpErr    error
	loginToken   string
	loginUser    *domain.User
	loginErr     error
	lastEmail    string
	lastUsername string
	lastPassword string
}

func (f *fakeAuthService) SignUp(ctx context.Context, email, username, password string) (*domain.User, error) {
	f.lastEmail, f.lastUsername, f.lastPassword = email, username, password
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return f.signUpUser, nil
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	f.lastEmail, f.lastPassword = email, password
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	return f.loginToken, f.loginUser, nil
}

// fakeUserService implements domain.UserService for handler tests.
type fakeUserService struct {
	user         *domain.User
	err          error
	lastID       string
	lastNickname *string
	lastMaxSpend *decimal.Decimal
}

func (f *fakeUserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeUserService) UpdateProfile(ctx context.Context, id string, nickname *string, maxSpend *decimal.Decimal) (*domain.User, error) {
	f.lastID, f.lastNickname, f.lastMaxSpend = id, nickname, maxSpend
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

// fakeGroupService implements domain.GroupService for handler tests. Every
// workflow returns outcome/err; the last call's arguments are recorded.
type fakeGroupService struct {
	outcome    *domain.Outcome
	err        error
	group      *domain.Group
	home       *domain.Home
	detail     *domain.GroupDetail
	candidates []*domain.User
	share      *domain.InviteShare

	lastCall string
	lastArgs []string
	lastVote domain.JoinVote
}

func (f *fakeGroupService) record(call string, args ...string) {
	f.lastCall, f.lastArgs = call, args
}

func (f *fakeGroupService) CreateGroup(ctx context.Context, actorID, name string) (*domain.Group, *domain.Outcome, error) {
	f.record("CreateGroup", actorID, name)
	return f.group, f.outcome, f.err
}

func (f *fakeGroupService) DeleteGroup(ctx context.Context, groupID, actorID string) (*domain.Outcome, error) {
	f.record("DeleteGroup", groupID, actorID)
	return f.outcome, f.err
}

func (f *fakeGroupService) GetHome(ctx context.Context, userID string) (*domain.Home, error) {
	f.record("GetHome", userID)
	return f.home, f.err
}

func (f *fakeGroupService) GetGroupDetail(ctx context.Context, groupID, viewerID string) (*domain.GroupDetail, error) {
	f.record("GetGroupDetail", groupID, viewerID)
	return f.detail, f.err
}

func (f *fakeGroupService) LeaveGroup(ctx context.Context, groupID, userID string) (*domain.Outcome, error) {
	f.record("LeaveGroup", groupID, userID)
	return f.outcome, f.err
}

func (f *fakeGroupService) ListInviteCandidates(ctx context.Context, groupID string) ([]*domain.User, error) {
	f.record("ListInviteCandidates", groupID)
	return f.candidates, f.err
}

func (f *fakeGroupService) InviteUser(ctx context.Context, groupID, actorID, invitedUserID string) (*domain.Outcome, error) {
	f.record("InviteUser", groupID, actorID, invitedUserID)
	return f.outcome, f.err
}

func (f *fakeGroupService) GetInviteShare(ctx context.Context, groupID, inviteID string) (*domain.InviteShare, error) {
	f.record("GetInviteShare", groupID, inviteID)
	return f.share, f.err
}

func (f *fakeGroupService) AcceptInvite(ctx context.Context, groupID, invitedUserID, token string) (*domain.Outcome, error) {
	f.record("AcceptInvite", groupID, invitedUserID, token)
	return f.outcome, f.err
}

func (f *fakeGroupService) RequestToJoin(ctx context.Context, groupID, userID string) (*domain.Outcome, error) {
	f.record("RequestToJoin", groupID, userID)
	return f.outcome, f.err
}

func (f *fakeGroupService) VoteOnJoinRequest(ctx context.Context, groupID, requestID, voterID string, vote domain.JoinVote) (*domain.Outcome, error) {
	f.record("VoteOnJoinRequest", groupID, requestID, voterID)
	f.lastVote = vote
	return f.outcome, f.err
}

func (f *fakeGroupService) DeleteJoinRequest(ctx context.Context, requestID, actorID string) (*domain.Outcome, error) {
	f.record("DeleteJoinRequest", requestID, actorID)
	return f.outcome, f.err
}

// fakeCommentService implements domain.CommentService for handler tests.
type fakeCommentService struct {
	comment    *domain.Comment
	comments   []*domain.Comment
	total      int
	outcome    *domain.Outcome
	err        error
	lastCall   string
	lastArgs   []string
	lastParams domain.PaginationParams
}

func (f *fakeCommentService) PostComment(ctx context.Context, groupID, userID, content string) (*domain.Comment, *domain.Outcome, error) {
	f.lastCall, f.lastArgs = "PostComment", []string{groupID, userID, content}
	return f.comment, f.outcome, f.err
}

func (f *fakeCommentService) EditComment(ctx context.Context, groupID, commentID, userID, content string) (*domain.Comment, *domain.Outcome, error) {
	f.lastCall, f.lastArgs = "EditComment", []string{groupID, commentID, userID, content}
	return f.comment, f.outcome, f.err
}

func (f *fakeCommentService) DeleteComment(ctx context.Context, commentID, userID string) (*domain.Outcome, error) {
	f.lastCall, f.lastArgs = "DeleteComment", []string{commentID, userID}
	return f.outcome, f.err
}

func (f *fakeCommentService) ListComments(ctx context.Context, groupID string, params domain.PaginationParams) ([]*domain.Comment, int, error) {
	f.lastCall, f.lastArgs, f.lastParams = "ListComments", []string{groupID}, params
	return f.comments, f.total, f.err
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	event      *domain.Event
	outcome    *domain.Outcome
	err        error
	lastCall   string
	lastArgs   []string
	lastDate   time.Time
	lastAmount decimal.Decimal
}

func (f *fakeEventService) CreateEvent(ctx context.Context, groupID, actorID, name string, date time.Time, totalSpend decimal.Decimal) (*domain.Event, *domain.Outcome, error) {
	f.lastCall, f.lastArgs = "CreateEvent", []string{groupID, actorID, name}
	f.lastDate, f.lastAmount = date, totalSpend
	return f.event, f.outcome, f.err
}

func (f *fakeEventService) JoinEvent(ctx context.Context, groupID, eventID, userID string) (*domain.Outcome, error) {
	f.lastCall, f.lastArgs = "JoinEvent", []string{groupID, eventID, userID}
	return f.outcome, f.err
}

func (f *fakeEventService) LeaveEvent(ctx context.Context, groupID, eventID, userID string) (*domain.Outcome, error) {
	f.lastCall, f.lastArgs = "LeaveEvent", []string{groupID, eventID, userID}
	return f.outcome, f.err
}

func (f *fakeEventService) UpdateEventStatus(ctx context.Context, groupID, eventID, actorID string) (*domain.Outcome, error) {
	f.lastCall, f.lastArgs = "UpdateEventStatus", []string{groupID, eventID, actorID}
	return f.outcome, f.err
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, groupID, eventID, actorID string) (*domain.Outcome, error) {
	f.lastCall, f.lastArgs = "DeleteEvent", []string{groupID, eventID, actorID}
	return f.outcome, f.err
}

package http

import (
	"log/slog"
	"net/http"

	"chipin/internal/delivery/http/controllers"
	"chipin/internal/delivery/http/middleware"
	"chipin/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Auth    *controllers.AuthController
	User    *controllers.UserController
	Group   *controllers.GroupController
	Comment *controllers.CommentController
	Event   *controllers.EventController
}

// NewRouter initializes the HTTP router with all application routes.
// Everything except auth, metrics and docs requires a bearer token.
func NewRouter(c Controllers, verifier domain.TokenVerifier, gatherer prometheus.Gatherer, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Users
	mux.HandleFunc("GET /users/me", auth(c.User.GetMe))
	mux.HandleFunc("PATCH /users/me", auth(c.User.UpdateMe))

	// Groups
	mux.HandleFunc("GET /home", auth(c.Group.Home))
	mux.HandleFunc("POST /groups", auth(c.Group.CreateGroup))
	mux.HandleFunc("GET /groups/{groupID}", auth(c.Group.GetGroup))
	mux.HandleFunc("DELETE /groups/{groupID}", auth(c.Group.DeleteGroup))
	mux.HandleFunc("POST /groups/{groupID}/leave", auth(c.Group.LeaveGroup))

	// Invites
	mux.HandleFunc("GET /groups/{groupID}/invite-candidates", auth(c.Group.ListInviteCandidates))
	mux.HandleFunc("POST /groups/{groupID}/invites", auth(c.Group.InviteUser))
	mux.HandleFunc("GET /groups/{groupID}/invites/accept", auth(c.Group.AcceptInvite))
	mux.HandleFunc("GET /groups/{groupID}/invites/{inviteID}", auth(c.Group.GetInviteShare))

	// Join requests
	mux.HandleFunc("POST /groups/{groupID}/join-requests", auth(c.Group.RequestToJoin))
	mux.HandleFunc("POST /groups/{groupID}/join-requests/{requestID}/{vote}", auth(c.Group.VoteOnJoinRequest))
	mux.HandleFunc("DELETE /join-requests/{requestID}", auth(c.Group.DeleteJoinRequest))

	// Comments
	mux.HandleFunc("GET /groups/{groupID}/comments", auth(c.Comment.ListComments))
	mux.HandleFunc("POST /groups/{groupID}/comments", auth(c.Comment.PostComment))
	mux.HandleFunc("PUT /groups/{groupID}/comments/{commentID}", auth(c.Comment.EditComment))
	mux.HandleFunc("DELETE /comments/{commentID}", auth(c.Comment.DeleteComment))

	// Events
	mux.HandleFunc("POST /groups/{groupID}/events", auth(c.Event.CreateEvent))
	mux.HandleFunc("POST /groups/{groupID}/events/{eventID}/join", auth(c.Event.JoinEvent))
	mux.HandleFunc("POST /groups/{groupID}/events/{eventID}/leave", auth(c.Event.LeaveEvent))
	mux.HandleFunc("POST /groups/{groupID}/events/{eventID}/status", auth(c.Event.UpdateEventStatus))
	mux.HandleFunc("DELETE /groups/{groupID}/events/{eventID}", auth(c.Event.DeleteEvent))

	// Metrics
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

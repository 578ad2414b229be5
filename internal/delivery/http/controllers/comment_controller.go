package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "chipin/internal/delivery/http/helpers"
	"chipin/internal/domain"
)

// CommentRequest is the request body for posting or editing a comment.
type CommentRequest struct {
	Content string `json:"content" example:"Who is bringing the snacks?"`
}

// Validate implements Validator.
func (c CommentRequest) Validate() []string {
	if strings.TrimSpace(c.Content) == "" {
		return []string{"content is required"}
	}
	return nil
}

// ListCommentsResponse is the data payload for GET /groups/{groupID}/comments.
type ListCommentsResponse struct {
	Items      []*domain.Comment `json:"items"`
	Pagination h.PaginationMeta  `json:"pagination"`
}

// ListCommentsSuccessResponse is the success envelope for GET /groups/{groupID}/comments (200).
type ListCommentsSuccessResponse struct {
	Data  ListCommentsResponse `json:"data"`
	Error *h.APIError          `json:"error"`
}

type CommentController struct {
	Logger  *slog.Logger
	Service domain.CommentService
}

func NewCommentController(logger *slog.Logger, svc domain.CommentService) *CommentController {
	return &CommentController{
		Logger:  logger,
		Service: svc,
	}
}

// ListComments godoc
// @Summary List group comments
// @Description Newest first, with rendered HTML alongside the markdown source.
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID (UUID)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListCommentsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/comments [get]
func (c *CommentController) ListComments(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	groupID, ok := h.PathID(w, r, "groupID")
	if !ok {
		return
	}
	params := h.ParsePagination(r)
	comments, total, err := c.Service.ListComments(r.Context(), groupID, params)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "group not found")
		return
	}
	if comments == nil {
		comments = []*domain.Comment{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, ListCommentsResponse{
		Items:      comments,
		Pagination: h.NewPaginationMeta(params, total),
	})
}

// PostComment godoc
// @Summary Post a comment
// @Description Members only. Content is markdown.
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID (UUID)"
// @Param body body CommentRequest true "Comment"
// @Success 201 {object} controllers.OutcomeSuccessResponse "data.result contains the comment"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/comments [post]
func (c *CommentController) PostComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	groupID, ok := h.PathID(w, r, "groupID")
	if !ok {
		return
	}
	var req CommentRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	comment, outcome, err := c.Service.PostComment(r.Context(), groupID, userID, req.Content)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "group not found")
		return
	}
	h.WriteOutcome(w, http.StatusCreated, outcome, comment)
}

// EditComment godoc
// @Summary Edit a comment
// @Description The author or the group administrator, who must still be a member.
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID (UUID)"
// @Param commentID path string true "Comment ID (UUID)"
// @Param body body CommentRequest true "New content"
// @Success 200 {object} controllers.OutcomeSuccessResponse "data.result contains the comment"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/comments/{commentID} [put]
func (c *CommentController) EditComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	groupID, ok := h.PathID(w, r, "groupID")
	if !ok {
		return
	}
	commentID, ok := h.PathID(w, r, "commentID")
	if !ok {
		return
	}
	var req CommentRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	comment, outcome, err := c.Service.EditComment(r.Context(), groupID, commentID, userID, req.Content)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "comment not found")
		return
	}
	h.WriteOutcome(w, http.StatusOK, outcome, comment)
}

// DeleteComment godoc
// @Summary Delete a comment
// @Description The author or the group administrator.
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param commentID path string true "Comment ID (UUID)"
// @Success 200 {object} controllers.OutcomeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /comments/{commentID} [delete]
func (c *CommentController) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	commentID, ok := h.PathID(w, r, "commentID")
	if !ok {
		return
	}
	outcome, err := c.Service.DeleteComment(r.Context(), commentID, userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "comment not found")
		return
	}
	h.WriteOutcome(w, http.StatusOK, outcome, nil)
}

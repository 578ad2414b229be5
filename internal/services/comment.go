package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"chipin/internal/domain"
)

const maxCommentLen = 5000

type commentService struct {
	commentRepo    domain.CommentRepository
	groupRepo      domain.GroupRepository
	renderer       domain.ContentRenderer
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewCommentService(commentRepo domain.CommentRepository, groupRepo domain.GroupRepository, renderer domain.ContentRenderer, logger *slog.Logger, timeout time.Duration) domain.CommentService {
	return &commentService{
		commentRepo:    commentRepo,
		groupRepo:      groupRepo,
		renderer:       renderer,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func validateCommentContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" || len(content) > maxCommentLen {
		return "", fmt.Errorf("%w: content must be between 1 and %d characters", domain.ErrInvalidInput, maxCommentLen)
	}
	return content, nil
}

func (s *commentService) PostComment(ctx context.Context, groupID, userID, content string) (*domain.Comment, *domain.Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	group, err := loadGroup(ctx, s.groupRepo, groupID)
	if err != nil {
		return nil, nil, err
	}
	back := domain.GroupPath(group.ID)
	isMember, err := s.groupRepo.IsMember(ctx, group.ID, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("check membership: %w", err)
	}
	if !isMember {
		return nil, domain.Failure(back, "You must be a member of the group to post comments."), nil
	}
	content, err = validateCommentContent(content)
	if err != nil {
		return nil, nil, err
	}

	comment := domain.NewComment(userID, group.ID, content, time.Now())
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, nil, fmt.Errorf("create comment: %w", err)
	}
	renderComments(ctx, s.renderer, s.logger, []*domain.Comment{comment})
	return comment, domain.Success(back, "Comment posted."), nil
}

// EditComment replaces the content of a comment. The author is kept even when
// the group admin makes the edit.
func (s *commentService) EditComment(ctx context.Context, groupID, commentID, userID, content string) (*domain.Comment, *domain.Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	group, err := loadGroup(ctx, s.groupRepo, groupID)
	if err != nil {
		return nil, nil, err
	}
	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return nil, nil, err
	}
	if comment.GroupID != group.ID {
		return nil, nil, domain.ErrNotFound
	}
	back := domain.GroupPath(group.ID)
	if comment.UserID != userID && !group.IsAdmin(userID) {
		return nil, domain.Failure(back, "You do not have permission to edit this comment."), nil
	}
	isMember, err := s.groupRepo.IsMember(ctx, group.ID, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("check membership: %w", err)
	}
	if !isMember {
		return nil, domain.Failure(back, "You must be a member of the group to post comments."), nil
	}
	content, err = validateCommentContent(content)
	if err != nil {
		return nil, nil, err
	}

	comment.Content = content
	comment.UpdatedAt = time.Now()
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, nil, fmt.Errorf("update comment: %w", err)
	}
	renderComments(ctx, s.renderer, s.logger, []*domain.Comment{comment})
	return comment, domain.Success(back, "Comment updated."), nil
}

func (s *commentService) DeleteComment(ctx context.Context, commentID, userID string) (*domain.Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	group, err := loadGroup(ctx, s.groupRepo, comment.GroupID)
	if err != nil {
		return nil, err
	}
	back := domain.GroupPath(group.ID)
	if comment.UserID != userID && !group.IsAdmin(userID) {
		return domain.Failure(back, "You do not have permission to delete this comment."), nil
	}
	if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
		return nil, fmt.Errorf("delete comment: %w", err)
	}
	return domain.Success(back, "Comment deleted."), nil
}

func (s *commentService) ListComments(ctx context.Context, groupID string, params domain.PaginationParams) ([]*domain.Comment, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	group, err := loadGroup(ctx, s.groupRepo, groupID)
	if err != nil {
		return nil, 0, err
	}
	comments, total, err := s.commentRepo.ListByGroup(ctx, group.ID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	renderComments(ctx, s.renderer, s.logger, comments)
	return comments, total, nil
}

func (s *commentService) getComment(ctx context.Context, id string) (*domain.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return comment, nil
}

// renderComments fills ContentHTML. A comment that fails to render keeps only its raw content.
func renderComments(ctx context.Context, renderer domain.ContentRenderer, logger *slog.Logger, comments []*domain.Comment) {
	if renderer == nil {
		return
	}
	for _, c := range comments {
		html, err := renderer.Render(c.Content)
		if err != nil {
			logger.WarnContext(ctx, "render comment", "comment_id", c.ID, "err", err)
			continue
		}
		c.ContentHTML = html
	}
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/funkydonkey/fatherhood-is/internal/middleware"
	"github.com/funkydonkey/fatherhood-is/internal/models"
	"github.com/funkydonkey/fatherhood-is/internal/observability"
	"github.com/funkydonkey/fatherhood-is/internal/repository"
	"github.com/funkydonkey/fatherhood-is/internal/validation"

	"gorm.io/gorm"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	PostID  string
	UserID  string
	Content string
}

type DeleteCommentInput struct {
	CommentID string
	UserID    string
}

type ListCommentsInput struct {
	PostID string
	Page   int
	Limit  int
}

// CommentView is a comment enriched with its author's public profile fields.
type CommentView struct {
	ID          string  `json:"id"`
	PostID      string  `json:"post_id"`
	UserID      string  `json:"user_id"`
	Content     string  `json:"content"`
	Username    string  `json:"username"`
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type CommentList struct {
	Comments   []CommentView     `json:"comments"`
	Pagination models.Pagination `json:"pagination"`
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// ListComments returns a page of live comments for the post, oldest first.
func (s *CommentService) ListComments(ctx context.Context, in ListCommentsInput) (*CommentList, error) {
	if err := models.ValidatePageLimit(in.Page, in.Limit); err != nil {
		return nil, err
	}

	total, err := s.commentRepo.CountByPost(ctx, in.PostID)
	if err != nil {
		return nil, models.NewUpstreamError("fetch comments", err)
	}

	pagination := models.NewPagination(in.Page, in.Limit, total)
	comments, err := s.commentRepo.ListByPost(ctx, in.PostID, pagination.Limit, pagination.Offset())
	if err != nil {
		return nil, models.NewUpstreamError("fetch comments", err)
	}

	views := make([]CommentView, 0, len(comments))
	for _, comment := range comments {
		views = append(views, newCommentView(comment))
	}

	return &CommentList{Comments: views, Pagination: pagination}, nil
}

// CreateComment validates the content and persists a comment on an existing
// post.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*CommentView, error) {
	if ok, reason := validation.CommentContent(in.Content); !ok {
		return nil, models.NewValidationError(reason)
	}
	if in.UserID == "" {
		return nil, models.NewValidationError("User ID is required")
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", in.PostID)
		}
		middleware.Logger.ErrorContext(ctx, "Post lookup failed", slog.String("error", err.Error()))
		return nil, models.NewUpstreamError("create comment", err)
	}

	comment := &models.Comment{
		PostID:  in.PostID,
		UserID:  in.UserID,
		Content: validation.SanitizeText(in.Content),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		middleware.Logger.ErrorContext(ctx, "Comment creation failed", slog.String("error", err.Error()))
		return nil, models.NewUpstreamError("create comment", err)
	}

	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, models.NewUpstreamError("create comment", err)
	}

	observability.CommentsCreated.Inc()
	view := newCommentView(created)
	return &view, nil
}

// DeleteComment soft-deletes the comment when it belongs to the requesting
// user. A wrong owner gets the same NOT_FOUND as a missing comment, and the
// deleted flag stays untouched.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotOwnedError("Comment")
		}
		middleware.Logger.ErrorContext(ctx, "Comment lookup failed", slog.String("error", err.Error()))
		return models.NewUpstreamError("delete comment", err)
	}
	if comment.IsDeleted || comment.UserID != in.UserID {
		return models.NewNotOwnedError("Comment")
	}

	if err := s.commentRepo.SoftDelete(ctx, in.CommentID); err != nil {
		middleware.Logger.ErrorContext(ctx, "Comment deletion failed", slog.String("error", err.Error()))
		return models.NewUpstreamError("delete comment", err)
	}
	return nil
}

func newCommentView(comment *models.Comment) CommentView {
	username := comment.User.Username
	if username == "" {
		username = "Anonymous"
	}
	return CommentView{
		ID:          comment.ID,
		PostID:      comment.PostID,
		UserID:      comment.UserID,
		Content:     comment.Content,
		Username:    username,
		DisplayName: comment.User.DisplayName,
		AvatarURL:   comment.User.AvatarURL,
		CreatedAt:   comment.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   comment.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

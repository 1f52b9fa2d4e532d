// Package service implements the application's business logic on top of the
// repository and collaborator interfaces.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/funkydonkey/fatherhood-is/internal/imagegen"
	"github.com/funkydonkey/fatherhood-is/internal/images"
	"github.com/funkydonkey/fatherhood-is/internal/middleware"
	"github.com/funkydonkey/fatherhood-is/internal/models"
	"github.com/funkydonkey/fatherhood-is/internal/observability"
	"github.com/funkydonkey/fatherhood-is/internal/repository"
	"github.com/funkydonkey/fatherhood-is/internal/storage"
	"github.com/funkydonkey/fatherhood-is/internal/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostService struct {
	postRepo  repository.PostRepository
	generator imagegen.Generator
	store     storage.Storage
}

type GenerateImageInput struct {
	Text       string
	AuthorName string
}

// GeneratedImage is the outcome of the generate flow: uploaded URLs plus the
// sanitized inputs, nothing persisted yet.
type GeneratedImage struct {
	ImageURL   string  `json:"image_url"`
	PreviewURL string  `json:"preview_url"`
	Text       string  `json:"text"`
	AuthorName *string `json:"author_name"`
}

type CreatePostInput struct {
	Text       string
	AuthorName string
	ImageURL   string
	PreviewURL string
}

type ListPostsInput struct {
	Page  int
	Limit int
	Sort  string
}

type PostList struct {
	Posts      []*models.Post    `json:"posts"`
	Pagination models.Pagination `json:"pagination"`
}

func NewPostService(postRepo repository.PostRepository, generator imagegen.Generator, store storage.Storage) *PostService {
	return &PostService{
		postRepo:  postRepo,
		generator: generator,
		store:     store,
	}
}

// GenerateImage validates the text, renders the illustration, derives the
// WebP preview, and uploads both. The post itself is not persisted; the
// client confirms with CreatePost. An upload that is never confirmed leaves
// an orphaned object behind.
func (s *PostService) GenerateImage(ctx context.Context, in GenerateImageInput) (*GeneratedImage, error) {
	if ok, reason := validation.PostText(in.Text); !ok {
		return nil, models.NewValidationError(reason)
	}
	if ok, reason := validation.AuthorName(in.AuthorName); !ok {
		return nil, models.NewValidationError(reason)
	}

	text := validation.SanitizeText(in.Text)
	authorName := validation.SanitizeAuthorName(in.AuthorName)

	imageData, err := s.generator.Generate(ctx, text)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "Image generation failed", slog.String("error", err.Error()))
		return nil, models.NewUpstreamError("generate image", err)
	}

	name := uuid.NewString()
	imageURL, err := s.store.Upload(ctx, imageData, name+".png")
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "Image upload failed", slog.String("error", err.Error()))
		return nil, models.NewUpstreamError("store image", err)
	}

	// The preview is best effort: a post without one still renders from the
	// full image.
	previewURL := ""
	if preview, previewErr := images.GeneratePreview(imageData); previewErr != nil {
		middleware.Logger.WarnContext(ctx, "Preview generation failed, continuing without preview",
			slog.String("error", previewErr.Error()))
	} else if previewURL, previewErr = s.store.Upload(ctx, preview, name+".webp"); previewErr != nil {
		middleware.Logger.WarnContext(ctx, "Preview upload failed, continuing without preview",
			slog.String("error", previewErr.Error()))
		previewURL = ""
	}

	return &GeneratedImage{
		ImageURL:   imageURL,
		PreviewURL: previewURL,
		Text:       text,
		AuthorName: authorName,
	}, nil
}

// CreatePost validates and persists a post for an already generated image.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if ok, reason := validation.PostText(in.Text); !ok {
		return nil, models.NewValidationError(reason)
	}
	if ok, reason := validation.AuthorName(in.AuthorName); !ok {
		return nil, models.NewValidationError(reason)
	}
	if in.ImageURL == "" {
		return nil, models.NewValidationError("Image URL is required")
	}

	post := &models.Post{
		Text:        validation.SanitizeText(in.Text),
		AuthorName:  validation.SanitizeAuthorName(in.AuthorName),
		ImageURL:    in.ImageURL,
		PreviewURL:  in.PreviewURL,
		IsPublished: true,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		middleware.Logger.ErrorContext(ctx, "Post creation failed", slog.String("error", err.Error()))
		return nil, models.NewUpstreamError("create post", err)
	}

	observability.PostsCreated.Inc()
	middleware.Logger.InfoContext(ctx, "Post created", slog.String("post_id", post.ID))
	return post, nil
}

// ListPosts returns a page of published posts with pagination metadata.
// Pagination and sort parameters are validated before any data access.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (*PostList, error) {
	if err := models.ValidatePageLimit(in.Page, in.Limit); err != nil {
		return nil, err
	}
	sort := in.Sort
	if sort == "" {
		sort = models.SortNewest
	}
	if err := models.ValidateSort(sort); err != nil {
		return nil, err
	}

	total, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, models.NewUpstreamError("fetch posts", err)
	}

	pagination := models.NewPagination(in.Page, in.Limit, total)
	posts, err := s.postRepo.List(ctx, pagination.Limit, pagination.Offset(), sort)
	if err != nil {
		return nil, models.NewUpstreamError("fetch posts", err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}

	return &PostList{Posts: posts, Pagination: pagination}, nil
}

// GetPost returns a published post. A missing row is NOT_FOUND; any other
// database error is logged and surfaced as a generic upstream failure.
func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		middleware.Logger.ErrorContext(ctx, "Post lookup failed", slog.String("error", err.Error()))
		return nil, models.NewUpstreamError("fetch post", err)
	}
	return post, nil
}

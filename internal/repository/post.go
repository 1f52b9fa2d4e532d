// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"github.com/funkydonkey/fatherhood-is/internal/cache"
	"github.com/funkydonkey/fatherhood-is/internal/models"
	"github.com/funkydonkey/fatherhood-is/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, limit, offset int, sort string) ([]*models.Post, error)
	Count(ctx context.Context) (int64, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", "posts")()
	err := r.db.WithContext(ctx).Create(post).Error
	if err == nil {
		cache.InvalidatePostCount(ctx)
	}
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	defer observability.TrackQuery("get", "posts")()
	ctx, span := observability.GetTraceLayer().TraceRepositoryMethod(ctx, "get_post", "posts")
	defer span.End()

	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		return r.applyPostDetails(r.db.WithContext(ctx)).
			Where("posts.id = ? AND posts.is_published = ?", id, true).
			First(&post).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int, sort string) ([]*models.Post, error) {
	defer observability.TrackQuery("list", "posts")()
	ctx, span := observability.GetTraceLayer().TraceRepositoryMethod(ctx, "list_posts", "posts")
	defer span.End()

	var posts []*models.Post
	base := r.applyPostDetails(r.db.WithContext(ctx)).
		Where("posts.is_published = ?", true)
	err := r.applySort(base, sort).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := cache.Aside(ctx, cache.PostCountKey(), &count, cache.PostCountTTL, func() error {
		return r.db.WithContext(ctx).
			Model(&models.Post{}).
			Where("is_published = ?", true).
			Count(&count).Error
	})
	return count, err
}

// applySort appends the ORDER BY clause for the requested sort type.
// comments_count is a SELECT alias from applyPostDetails.
func (r *postRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case models.SortOldest:
		return db.Order("posts.created_at ASC")
	case models.SortPopular:
		return db.Order("posts.likes_count DESC, posts.created_at DESC")
	default: // newest and anything unrecognized
		return db.Order("posts.created_at DESC")
	}
}

// applyPostDetails adds a subquery to fetch the comment count in the same query.
func (r *postRepository) applyPostDetails(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.is_deleted = false) as comments_count")
}

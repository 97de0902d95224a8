// Package repository implements data access for posts and users on top of GORM.
package repository

import (
	"context"
	"errors"

	"quill/internal/models"
	"quill/internal/slug"

	"gorm.io/gorm"
)

// PostInput carries the editable fields of a post, as submitted by the
// add/edit form. Slug and DatePosted are never submitted; the repository
// derives the slug and the database stamps the date.
type PostInput struct {
	Title    string
	Category string
	Draft    bool
	Body     string
}

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	List(ctx context.Context) ([]models.Post, error)
	GetBySlug(ctx context.Context, s string) (*models.Post, error)
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Create(ctx context.Context, in PostInput) (*models.Post, error)
	Update(ctx context.Context, s string, in PostInput) (*models.Post, error)
	Delete(ctx context.Context, s string) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) List(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.WithContext(ctx).
		Order("date_posted DESC").
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, s string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("slug = ?", s).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", s)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, in PostInput) (*models.Post, error) {
	post := models.Post{
		Title:    in.Title,
		Slug:     slug.Make(in.Title),
		Category: in.Category,
		Draft:    in.Draft,
		Body:     in.Body,
	}
	if err := r.db.WithContext(ctx).Create(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("a post with this title or slug already exists")
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// Update edits the post addressed by slug s. The slug is regenerated
// whenever the submitted title differs from the stored one; DatePosted
// is never touched. A regenerated slug that collides with another
// post's fails the whole update, nothing is written.
func (r *postRepository) Update(ctx context.Context, s string, in PostInput) (*models.Post, error) {
	post, err := r.GetBySlug(ctx, s)
	if err != nil {
		return nil, err
	}

	if in.Title != post.Title {
		post.Slug = slug.Make(in.Title)
	}
	post.Title = in.Title
	post.Category = in.Category
	post.Draft = in.Draft
	post.Body = in.Body

	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("a post with this title or slug already exists")
		}
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

func (r *postRepository) Delete(ctx context.Context, s string) error {
	// Deleting a slug that matches nothing is a deliberate no-op.
	if err := r.db.WithContext(ctx).Where("slug = ?", s).Delete(&models.Post{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

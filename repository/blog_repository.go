package repository

import (
	"context"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/models"
	"gorm.io/gorm"
)

// BlogRepository defines data access for posts and comments.
type BlogRepository interface {
	ListPublished(ctx context.Context, page, limit int) ([]models.Post, int64, error)
	ListFeatured(ctx context.Context, limit int) ([]models.Post, error)
	FindBySlug(ctx context.Context, slug string) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error

	ListApprovedComments(ctx context.Context, postID uint) ([]models.Comment, error)
	CountPendingComments(ctx context.Context, postID uint, userID string) (int64, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
}

type GormBlogRepository struct {
	db *gorm.DB
}

func NewGormBlogRepository(db *gorm.DB) BlogRepository {
	return &GormBlogRepository{db: db}
}

func (r *GormBlogRepository) ListPublished(ctx context.Context, page, limit int) ([]models.Post, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("status = ?", models.PostPublished).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := r.db.WithContext(ctx).
		Where("status = ?", models.PostPublished).
		Order("created_on DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *GormBlogRepository) ListFeatured(ctx context.Context, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Where("status = ? AND featured = ?", models.PostPublished, true).
		Order("created_on DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *GormBlogRepository) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *GormBlogRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Omit("Comments").Create(post).Error
}

func (r *GormBlogRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Omit("Comments").Save(post).Error
}

func (r *GormBlogRepository) ListApprovedComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND approved = ?", postID, true).
		Order("created_on ASC").
		Find(&comments).Error
	return comments, err
}

// CountPendingComments counts the user's comments on a post still awaiting approval.
func (r *GormBlogRepository) CountPendingComments(ctx context.Context, postID uint, userID string) (int64, error) {
	var count int64
	if userID == "" {
		return 0, nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("post_id = ? AND user_id = ? AND approved = ?", postID, userID, false).
		Count(&count).Error
	return count, err
}

func (r *GormBlogRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

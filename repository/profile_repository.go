package repository

import (
	"context"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository defines data access for profiles and wishlists.
type ProfileRepository interface {
	GetOrCreate(ctx context.Context, userID string) (*models.UserProfile, error)
	FindByUserID(ctx context.Context, userID string) (*models.UserProfile, error)
	Update(ctx context.Context, profile *models.UserProfile) error

	ListWishlist(ctx context.Context, profileID uuid.UUID, page, limit int) ([]models.Product, int64, error)
	IsWishlisted(ctx context.Context, profileID uuid.UUID, productID uint) (bool, error)
	AddToWishlist(ctx context.Context, profileID uuid.UUID, productID uint) error
	RemoveFromWishlist(ctx context.Context, profileID uuid.UUID, productID uint) error
}

type GormProfileRepository struct {
	db *gorm.DB
}

func NewGormProfileRepository(db *gorm.DB) ProfileRepository {
	return &GormProfileRepository{db: db}
}

// GetOrCreate returns the user's profile, creating an empty one on first use.
func (r *GormProfileRepository) GetOrCreate(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile := models.UserProfile{UserID: userID}
	err := r.db.WithContext(ctx).
		Where(models.UserProfile{UserID: userID}).
		FirstOrCreate(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *GormProfileRepository) FindByUserID(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *GormProfileRepository) Update(ctx context.Context, profile *models.UserProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// ListWishlist pages through the products on a wishlist, most recently added first.
func (r *GormProfileRepository) ListWishlist(ctx context.Context, profileID uuid.UUID, page, limit int) ([]models.Product, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("profile_id = ?", profileID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := r.db.WithContext(ctx).
		Joins("JOIN wishlist_items ON wishlist_items.product_id = products.id").
		Where("wishlist_items.profile_id = ?", profileID).
		Order("wishlist_items.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *GormProfileRepository) IsWishlisted(ctx context.Context, profileID uuid.UUID, productID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("profile_id = ? AND product_id = ?", profileID, productID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormProfileRepository) AddToWishlist(ctx context.Context, profileID uuid.UUID, productID uint) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.WishlistItem{ProfileID: profileID, ProductID: productID}).Error
}

func (r *GormProfileRepository) RemoveFromWishlist(ctx context.Context, profileID uuid.UUID, productID uint) error {
	return r.db.WithContext(ctx).
		Where("profile_id = ? AND product_id = ?", profileID, productID).
		Delete(&models.WishlistItem{}).Error
}

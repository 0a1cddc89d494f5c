package repository

import (
	"context"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/models"
	"gorm.io/gorm"
)

// HomeRepository covers the FAQ list and the contact inbox.
type HomeRepository interface {
	ListActiveFAQs(ctx context.Context) ([]models.FAQ, error)
	CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error
}

type GormHomeRepository struct {
	db *gorm.DB
}

func NewGormHomeRepository(db *gorm.DB) HomeRepository {
	return &GormHomeRepository{db: db}
}

func (r *GormHomeRepository) ListActiveFAQs(ctx context.Context) ([]models.FAQ, error) {
	var faqs []models.FAQ
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("id ASC").
		Find(&faqs).Error
	return faqs, err
}

func (r *GormHomeRepository) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

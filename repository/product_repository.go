package repository

import (
	"context"
	"strings"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository defines data access for the catalog.
type ProductRepository interface {
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int64, error)
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
	FindFeatured(ctx context.Context, limit int) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	UpsertBySKU(ctx context.Context, product *models.Product) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	UpsertCategory(ctx context.Context, category *models.Category) error

	ListReviews(ctx context.Context, productID uint) ([]models.ProductReview, error)
	AddReview(ctx context.Context, review *models.ProductReview) error
}

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new instance of GormProductRepository
func NewGormProductRepository(db *gorm.DB) ProductRepository {
	return &GormProductRepository{db: db}
}

var productSorts = map[string]string{
	"price":     "products.price ASC",
	"-price":    "products.price DESC",
	"rating":    "products.rating ASC NULLS FIRST",
	"-rating":   "products.rating DESC NULLS LAST",
	"name":      "LOWER(products.name) ASC",
	"-name":     "LOWER(products.name) DESC",
	"newest":    "products.created_on DESC",
	"available": "products.available DESC",
}

func (r *GormProductRepository) filtered(ctx context.Context, filter models.ProductFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.Category != "" {
		slugs := strings.Split(filter.Category, ",")
		q = q.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug IN ?", slugs)
	}
	if query := strings.TrimSpace(filter.Query); query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?", like, like)
	}
	return q
}

// List returns one page of products matching the filter.
func (r *GormProductRepository) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := productSorts[filter.Sort]
	if !ok {
		order = "products.id ASC"
	}

	var products []models.Product
	err := r.filtered(ctx, filter).
		Preload("Category").
		Order(order).
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs returns the products that exist among ids, in no particular order.
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	var products []models.Product
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindFeatured returns the best rated products that can be bought.
func (r *GormProductRepository) FindFeatured(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Order("rating DESC NULLS LAST").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *GormProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit("Category", "Reviews").Create(product).Error
}

func (r *GormProductRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit("Category", "Reviews").Save(product).Error
}

// UpsertBySKU inserts the product or refreshes the row with the same SKU.
func (r *GormProductRepository) UpsertBySKU(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).
		Omit("Category", "Reviews").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "sku"}},
			DoUpdates: clause.AssignmentColumns([]string{"category_id", "name", "slug", "description", "price", "rating", "image_url", "image", "available", "updated_on"}),
		}).
		Create(product).Error
}

func (r *GormProductRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *GormProductRepository) FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// UpsertCategory inserts the category or refreshes the row with the same slug.
func (r *GormProductRepository) UpsertCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "friendly_name"}),
		}).
		Create(category).Error
}

func (r *GormProductRepository) ListReviews(ctx context.Context, productID uint) ([]models.ProductReview, error) {
	var reviews []models.ProductReview
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_on DESC").
		Find(&reviews).Error
	return reviews, err
}

// AddReview stores the review and refreshes the product's average rating.
func (r *GormProductRepository) AddReview(ctx context.Context, review *models.ProductReview) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		return tx.Exec(
			`UPDATE products SET rating = (SELECT ROUND(AVG(stars)::numeric, 2) FROM product_reviews WHERE product_id = ?) WHERE id = ?`,
			review.ProductID, review.ProductID,
		).Error
	})
}

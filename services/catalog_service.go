package services

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/cart"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/logger"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/models"
	aws_pkg "github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/pkg/aws"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 24
	maxPageSize     = 100
)

// ProductDetail is a product with its reviews.
type ProductDetail struct {
	Product *models.Product        `json:"product"`
	Reviews []models.ProductReview `json:"reviews"`
}

// CatalogService defines the catalog business logic. It also prices carts.
type CatalogService interface {
	cart.ProductLookup

	ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, models.MetaData, *ServiceError)
	ListCategories(ctx context.Context) ([]models.Category, *ServiceError)
	FeaturedProducts(ctx context.Context, limit int) ([]models.Product, *ServiceError)
	GetProduct(ctx context.Context, id uint) (*models.Product, *ServiceError)
	GetProductDetail(ctx context.Context, id uint) (*ProductDetail, *ServiceError)
	CreateProduct(ctx context.Context, req models.ProductRequest) (*models.Product, *ServiceError)
	UpdateProduct(ctx context.Context, id uint, req models.ProductRequest) (*models.Product, *ServiceError)
	AddReview(ctx context.Context, productID uint, userID string, req models.ReviewRequest) (*models.ProductReview, *ServiceError)
}

type catalogService struct {
	repo    repository.ProductRepository
	cache   ProductCache
	metrics aws_pkg.MetricsRecorder
}

// NewCatalogService creates a CatalogService. cache and metrics may be nil.
func NewCatalogService(repo repository.ProductRepository, cache ProductCache, metrics aws_pkg.MetricsRecorder) CatalogService {
	if cache == nil {
		cache = noopCache{}
	}
	return &catalogService{repo: repo, cache: cache, metrics: metrics}
}

func (s *catalogService) count(ctx context.Context, metric string, n int) {
	if s.metrics == nil || n == 0 {
		return
	}
	_ = s.metrics.RecordValue(ctx, metric, float64(n), nil)
}

// LookupProducts resolves cart ids to prices, reading through the cache.
// Ids that are not numeric cannot belong to the catalog and are left out.
func (s *catalogService) LookupProducts(ctx context.Context, ids []string) (map[string]cart.Product, error) {
	out := make(map[string]cart.Product, len(ids))
	var missing []uint

	for _, raw := range ids {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			continue
		}
		if p, ok := s.cache.Get(ctx, uint(id)); ok {
			out[raw] = toCartProduct(p)
			continue
		}
		missing = append(missing, uint(id))
	}
	s.count(ctx, aws_pkg.MetricCacheHits, len(out))
	s.count(ctx, aws_pkg.MetricCacheMisses, len(missing))

	if len(missing) == 0 {
		return out, nil
	}

	products, err := s.repo.FindByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for i := range products {
		p := &products[i]
		s.cache.Set(ctx, p)
		out[p.Key()] = toCartProduct(p)
	}
	return out, nil
}

func toCartProduct(p *models.Product) cart.Product {
	return cart.Product{
		ID:        p.Key(),
		Name:      p.Name,
		Slug:      p.Slug,
		ImageURL:  p.ImageURL,
		Price:     p.Price,
		Available: p.Available,
	}
}

func (s *catalogService) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, models.MetaData, *ServiceError) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		logger.Error(ctx, "Failed to list products", err)
		return nil, models.MetaData{}, internal("Failed to fetch products")
	}
	return products, models.NewMetaData(filter.Page, filter.Limit, total), nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]models.Category, *ServiceError) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		logger.Error(ctx, "Failed to list categories", err)
		return nil, internal("Failed to fetch categories")
	}
	return categories, nil
}

func (s *catalogService) FeaturedProducts(ctx context.Context, limit int) ([]models.Product, *ServiceError) {
	products, err := s.repo.FindFeatured(ctx, limit)
	if err != nil {
		logger.Error(ctx, "Failed to list featured products", err)
		return nil, internal("Failed to fetch products")
	}
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uint) (*models.Product, *ServiceError) {
	product, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Product not found")
	}
	if err != nil {
		logger.Error(ctx, "Failed to fetch product", err, zap.Uint("product_id", id))
		return nil, internal("Failed to fetch product")
	}
	return product, nil
}

func (s *catalogService) GetProductDetail(ctx context.Context, id uint) (*ProductDetail, *ServiceError) {
	product, svcErr := s.GetProduct(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}
	reviews, err := s.repo.ListReviews(ctx, id)
	if err != nil {
		logger.Error(ctx, "Failed to fetch reviews", err, zap.Uint("product_id", id))
		return nil, internal("Failed to fetch reviews")
	}
	return &ProductDetail{Product: product, Reviews: reviews}, nil
}

func validateProductRequest(req models.ProductRequest) *ServiceError {
	if !req.Price.IsPositive() {
		return badRequest("Price must be greater than zero")
	}
	if req.Price.GreaterThanOrEqual(decimal.NewFromInt(10000)) {
		return badRequest("Price must be below 10000")
	}
	if req.Rating != nil && (req.Rating.IsNegative() || req.Rating.GreaterThan(decimal.NewFromInt(5))) {
		return badRequest("Rating must be between 0 and 5")
	}
	return nil
}

func applyProductRequest(p *models.Product, req models.ProductRequest) {
	p.CategoryID = req.CategoryID
	p.SKU = strings.TrimSpace(req.SKU)
	p.Name = strings.TrimSpace(req.Name)
	p.Slug = models.Slugify(p.Name)
	p.Description = req.Description
	p.Price = req.Price.Round(2)
	p.Rating = req.Rating
	p.ImageURL = req.ImageURL
	p.Image = req.Image
	if req.Available != nil {
		p.Available = *req.Available
	}
}

func (s *catalogService) CreateProduct(ctx context.Context, req models.ProductRequest) (*models.Product, *ServiceError) {
	if svcErr := validateProductRequest(req); svcErr != nil {
		return nil, svcErr
	}

	product := &models.Product{Available: true}
	applyProductRequest(product, req)

	if err := s.repo.Create(ctx, product); err != nil {
		logger.Error(ctx, "Failed to create product", err, zap.String("sku", product.SKU))
		return nil, internal("Failed to add product. Please ensure the form is valid.")
	}
	logger.Info(ctx, "Product created", zap.Uint("product_id", product.ID), zap.String("sku", product.SKU))
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uint, req models.ProductRequest) (*models.Product, *ServiceError) {
	if svcErr := validateProductRequest(req); svcErr != nil {
		return nil, svcErr
	}

	product, svcErr := s.GetProduct(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}
	applyProductRequest(product, req)
	product.Category = nil

	if err := s.repo.Update(ctx, product); err != nil {
		logger.Error(ctx, "Failed to update product", err, zap.Uint("product_id", id))
		return nil, internal("Failed to update product. Please ensure the form is valid.")
	}
	s.cache.Invalidate(ctx, id)
	return product, nil
}

func (s *catalogService) AddReview(ctx context.Context, productID uint, userID string, req models.ReviewRequest) (*models.ProductReview, *ServiceError) {
	if userID == "" {
		return nil, &ServiceError{StatusCode: http.StatusUnauthorized, Message: "Please sign in to leave a review"}
	}
	if _, svcErr := s.GetProduct(ctx, productID); svcErr != nil {
		return nil, svcErr
	}

	review := &models.ProductReview{
		ProductID: productID,
		UserID:    userID,
		Stars:     req.Stars,
		Content:   strings.TrimSpace(req.Content),
	}
	if err := s.repo.AddReview(ctx, review); err != nil {
		logger.Error(ctx, "Failed to add review", err, zap.Uint("product_id", productID))
		return nil, internal("Failed to add review")
	}
	s.cache.Invalidate(ctx, productID)
	return review, nil
}

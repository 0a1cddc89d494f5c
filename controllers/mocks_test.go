package controllers_test

import (
	"context"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/cart"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/models"
	aws_pkg "github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/pkg/aws"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/services"
)

// --- Mock CartService ---

type mockCartService struct {
	viewFn   func(ctx context.Context, sessionID string) (*cart.Summary, *services.ServiceError)
	addFn    func(ctx context.Context, sessionID string, productID uint, quantity int, size string) (*services.CartResult, *services.ServiceError)
	adjustFn func(ctx context.Context, sessionID string, productID uint, quantity int, size string) (*services.CartResult, *services.ServiceError)
	removeFn func(ctx context.Context, sessionID string, productID uint, size string) (*services.CartResult, *services.ServiceError)
}

func (m *mockCartService) View(ctx context.Context, sessionID string) (*cart.Summary, *services.ServiceError) {
	return m.viewFn(ctx, sessionID)
}
func (m *mockCartService) Add(ctx context.Context, sessionID string, productID uint, quantity int, size string) (*services.CartResult, *services.ServiceError) {
	return m.addFn(ctx, sessionID, productID, quantity, size)
}
func (m *mockCartService) Adjust(ctx context.Context, sessionID string, productID uint, quantity int, size string) (*services.CartResult, *services.ServiceError) {
	return m.adjustFn(ctx, sessionID, productID, quantity, size)
}
func (m *mockCartService) Remove(ctx context.Context, sessionID string, productID uint, size string) (*services.CartResult, *services.ServiceError) {
	return m.removeFn(ctx, sessionID, productID, size)
}

// --- Mock CheckoutService ---

type mockCheckoutService struct {
	prepareFn func(ctx context.Context, sessionID string, user *models.User) (*services.CheckoutPage, *services.ServiceError)
	cacheFn   func(ctx context.Context, sessionID string, user *models.User, req models.CacheCheckoutRequest) *services.ServiceError
	placeFn   func(ctx context.Context, sessionID string, req models.CheckoutRequest) (*models.Order, *services.ServiceError)
	successFn func(ctx context.Context, sessionID string, user *models.User, orderNumber string) (*models.Order, string, *services.ServiceError)
	webhookFn func(ctx context.Context, payload []byte, signature string) (string, *services.ServiceError)
}

func (m *mockCheckoutService) Prepare(ctx context.Context, sessionID string, user *models.User) (*services.CheckoutPage, *services.ServiceError) {
	return m.prepareFn(ctx, sessionID, user)
}
func (m *mockCheckoutService) CacheCheckoutData(ctx context.Context, sessionID string, user *models.User, req models.CacheCheckoutRequest) *services.ServiceError {
	return m.cacheFn(ctx, sessionID, user, req)
}
func (m *mockCheckoutService) PlaceOrder(ctx context.Context, sessionID string, req models.CheckoutRequest) (*models.Order, *services.ServiceError) {
	return m.placeFn(ctx, sessionID, req)
}
func (m *mockCheckoutService) Success(ctx context.Context, sessionID string, user *models.User, orderNumber string) (*models.Order, string, *services.ServiceError) {
	return m.successFn(ctx, sessionID, user, orderNumber)
}
func (m *mockCheckoutService) HandleWebhook(ctx context.Context, payload []byte, signature string) (string, *services.ServiceError) {
	return m.webhookFn(ctx, payload, signature)
}

// --- Mock CatalogService ---

type mockCatalogService struct {
	listFn       func(ctx context.Context, filter models.ProductFilter) ([]models.Product, models.MetaData, *services.ServiceError)
	categoriesFn func(ctx context.Context) ([]models.Category, *services.ServiceError)
	detailFn     func(ctx context.Context, id uint) (*services.ProductDetail, *services.ServiceError)
	createFn     func(ctx context.Context, req models.ProductRequest) (*models.Product, *services.ServiceError)
	updateFn     func(ctx context.Context, id uint, req models.ProductRequest) (*models.Product, *services.ServiceError)
	reviewFn     func(ctx context.Context, productID uint, userID string, req models.ReviewRequest) (*models.ProductReview, *services.ServiceError)
}

func (m *mockCatalogService) LookupProducts(context.Context, []string) (map[string]cart.Product, error) {
	return nil, nil
}
func (m *mockCatalogService) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, models.MetaData, *services.ServiceError) {
	return m.listFn(ctx, filter)
}
func (m *mockCatalogService) ListCategories(ctx context.Context) ([]models.Category, *services.ServiceError) {
	return m.categoriesFn(ctx)
}
func (m *mockCatalogService) FeaturedProducts(context.Context, int) ([]models.Product, *services.ServiceError) {
	return nil, nil
}
func (m *mockCatalogService) GetProduct(context.Context, uint) (*models.Product, *services.ServiceError) {
	return nil, nil
}
func (m *mockCatalogService) GetProductDetail(ctx context.Context, id uint) (*services.ProductDetail, *services.ServiceError) {
	return m.detailFn(ctx, id)
}
func (m *mockCatalogService) CreateProduct(ctx context.Context, req models.ProductRequest) (*models.Product, *services.ServiceError) {
	return m.createFn(ctx, req)
}
func (m *mockCatalogService) UpdateProduct(ctx context.Context, id uint, req models.ProductRequest) (*models.Product, *services.ServiceError) {
	return m.updateFn(ctx, id, req)
}
func (m *mockCatalogService) AddReview(ctx context.Context, productID uint, userID string, req models.ReviewRequest) (*models.ProductReview, *services.ServiceError) {
	return m.reviewFn(ctx, productID, userID, req)
}

// --- Mock ProfileService ---

type mockProfileService struct {
	getFn      func(ctx context.Context, userID string) (*services.ProfilePage, *services.ServiceError)
	updateFn   func(ctx context.Context, userID string, req models.ProfileRequest) (*models.UserProfile, *services.ServiceError)
	orderFn    func(ctx context.Context, userID, orderNumber string) (*models.Order, string, *services.ServiceError)
	wishlistFn func(ctx context.Context, userID string, page int) ([]models.Product, models.MetaData, *services.ServiceError)
	toggleFn   func(ctx context.Context, userID string, productID uint) (*services.WishlistToggle, *services.ServiceError)
}

func (m *mockProfileService) GetProfile(ctx context.Context, userID string) (*services.ProfilePage, *services.ServiceError) {
	return m.getFn(ctx, userID)
}
func (m *mockProfileService) UpdateProfile(ctx context.Context, userID string, req models.ProfileRequest) (*models.UserProfile, *services.ServiceError) {
	return m.updateFn(ctx, userID, req)
}
func (m *mockProfileService) GetOrder(ctx context.Context, userID, orderNumber string) (*models.Order, string, *services.ServiceError) {
	return m.orderFn(ctx, userID, orderNumber)
}
func (m *mockProfileService) Wishlist(ctx context.Context, userID string, page int) ([]models.Product, models.MetaData, *services.ServiceError) {
	return m.wishlistFn(ctx, userID, page)
}
func (m *mockProfileService) ToggleWishlist(ctx context.Context, userID string, productID uint) (*services.WishlistToggle, *services.ServiceError) {
	return m.toggleFn(ctx, userID, productID)
}

// --- Mock BlogService ---

type mockBlogService struct {
	listFn    func(ctx context.Context, page int) (*services.PostList, *services.ServiceError)
	getFn     func(ctx context.Context, slug string, user *models.User) (*services.PostDetail, *services.ServiceError)
	createFn  func(ctx context.Context, author *models.User, req models.PostRequest) (*models.Post, *services.ServiceError)
	updateFn  func(ctx context.Context, slug string, req models.PostRequest) (*models.Post, *services.ServiceError)
	commentFn func(ctx context.Context, slug string, user *models.User, req models.CommentRequest) (*models.Comment, string, *services.ServiceError)
}

func (m *mockBlogService) ListPosts(ctx context.Context, page int) (*services.PostList, *services.ServiceError) {
	return m.listFn(ctx, page)
}
func (m *mockBlogService) GetPost(ctx context.Context, slug string, user *models.User) (*services.PostDetail, *services.ServiceError) {
	return m.getFn(ctx, slug, user)
}
func (m *mockBlogService) CreatePost(ctx context.Context, author *models.User, req models.PostRequest) (*models.Post, *services.ServiceError) {
	return m.createFn(ctx, author, req)
}
func (m *mockBlogService) UpdatePost(ctx context.Context, slug string, req models.PostRequest) (*models.Post, *services.ServiceError) {
	return m.updateFn(ctx, slug, req)
}
func (m *mockBlogService) AddComment(ctx context.Context, slug string, user *models.User, req models.CommentRequest) (*models.Comment, string, *services.ServiceError) {
	return m.commentFn(ctx, slug, user, req)
}

// --- Mock HomeService / NewsletterService ---

type mockHomeService struct {
	indexFn   func(ctx context.Context) (*services.HomePage, *services.ServiceError)
	contactFn func(ctx context.Context, req models.ContactRequest) (string, *services.ServiceError)
}

func (m *mockHomeService) Index(ctx context.Context) (*services.HomePage, *services.ServiceError) {
	return m.indexFn(ctx)
}
func (m *mockHomeService) Contact(ctx context.Context, req models.ContactRequest) (string, *services.ServiceError) {
	return m.contactFn(ctx, req)
}

type mockNewsletterService struct {
	subscribeFn   func(ctx context.Context, email string) (string, *services.ServiceError)
	unsubscribeFn func(ctx context.Context, email string) (string, *services.ServiceError)
	pingFn        func(ctx context.Context) (string, *services.ServiceError)
}

func (m *mockNewsletterService) Subscribe(ctx context.Context, email string) (string, *services.ServiceError) {
	return m.subscribeFn(ctx, email)
}
func (m *mockNewsletterService) Unsubscribe(ctx context.Context, email string) (string, *services.ServiceError) {
	return m.unsubscribeFn(ctx, email)
}
func (m *mockNewsletterService) Ping(ctx context.Context) (string, *services.ServiceError) {
	return m.pingFn(ctx)
}

// --- Mock Presigner ---

type mockPresigner struct {
	presignFn func(ctx context.Context, key, contentType string) (*aws_pkg.PresignedUpload, error)
}

func (m *mockPresigner) PresignPut(ctx context.Context, key, contentType string) (*aws_pkg.PresignedUpload, error) {
	return m.presignFn(ctx, key, contentType)
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/logger"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/models"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const wishlistPageSize = 12

// ProfilePage is the profile with its order history and the first page of
// the wishlist.
type ProfilePage struct {
	Profile       *models.UserProfile `json:"profile"`
	Orders        []models.Order      `json:"orders"`
	Wishlist      []models.Product    `json:"wishlist"`
	WishlistTotal int64               `json:"wishlist_total"`
}

// WishlistToggle reports what a toggle did.
type WishlistToggle struct {
	Added   bool   `json:"added"`
	Message string `json:"message"`
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*ProfilePage, *ServiceError)
	UpdateProfile(ctx context.Context, userID string, req models.ProfileRequest) (*models.UserProfile, *ServiceError)
	GetOrder(ctx context.Context, userID, orderNumber string) (*models.Order, string, *ServiceError)
	Wishlist(ctx context.Context, userID string, page int) ([]models.Product, models.MetaData, *ServiceError)
	ToggleWishlist(ctx context.Context, userID string, productID uint) (*WishlistToggle, *ServiceError)
}

type profileService struct {
	profiles repository.ProfileRepository
	orders   repository.OrderRepository
	catalog  CatalogService
}

func NewProfileService(profiles repository.ProfileRepository, orders repository.OrderRepository, catalog CatalogService) ProfileService {
	return &profileService{profiles: profiles, orders: orders, catalog: catalog}
}

func (s *profileService) profile(ctx context.Context, userID string) (*models.UserProfile, *ServiceError) {
	profile, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		logger.Error(ctx, "Failed to load profile", err)
		return nil, internal("Failed to load profile")
	}
	return profile, nil
}

func (s *profileService) GetProfile(ctx context.Context, userID string) (*ProfilePage, *ServiceError) {
	profile, svcErr := s.profile(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	page := &ProfilePage{Profile: profile}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		orders, err := s.orders.FindByProfile(gctx, profile.ID)
		if err != nil {
			return fmt.Errorf("orders: %w", err)
		}
		page.Orders = orders
		return nil
	})
	g.Go(func() error {
		products, total, err := s.profiles.ListWishlist(gctx, profile.ID, 1, wishlistPageSize)
		if err != nil {
			return fmt.Errorf("wishlist: %w", err)
		}
		page.Wishlist, page.WishlistTotal = products, total
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Error(ctx, "Failed to load profile page", err)
		return nil, internal("Failed to load profile")
	}

	if page.Orders == nil {
		page.Orders = []models.Order{}
	}
	if page.Wishlist == nil {
		page.Wishlist = []models.Product{}
	}
	return page, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID string, req models.ProfileRequest) (*models.UserProfile, *ServiceError) {
	profile, svcErr := s.profile(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}
	profile.Apply(req)
	if err := s.profiles.Update(ctx, profile); err != nil {
		logger.Error(ctx, "Failed to update profile", err)
		return nil, internal("Update failed. Please ensure the form is valid.")
	}
	return profile, nil
}

// GetOrder returns a past order, provided it belongs to the user.
func (s *profileService) GetOrder(ctx context.Context, userID, orderNumber string) (*models.Order, string, *ServiceError) {
	profile, svcErr := s.profile(ctx, userID)
	if svcErr != nil {
		return nil, "", svcErr
	}

	order, err := s.orders.FindByNumber(ctx, orderNumber)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", notFound("Order not found")
	}
	if err != nil {
		logger.Error(ctx, "Failed to fetch order", err, zap.String("order_number", orderNumber))
		return nil, "", internal("Failed to fetch order")
	}
	if order.UserProfileID == nil || *order.UserProfileID != profile.ID {
		return nil, "", notFound("Order not found")
	}

	msg := fmt.Sprintf("This is a past confirmation for order number %s. A confirmation email was sent on the order date.", orderNumber)
	return order, msg, nil
}

func (s *profileService) Wishlist(ctx context.Context, userID string, page int) ([]models.Product, models.MetaData, *ServiceError) {
	profile, svcErr := s.profile(ctx, userID)
	if svcErr != nil {
		return nil, models.MetaData{}, svcErr
	}
	if page < 1 {
		page = 1
	}

	products, total, err := s.profiles.ListWishlist(ctx, profile.ID, page, wishlistPageSize)
	if err != nil {
		logger.Error(ctx, "Failed to list wishlist", err)
		return nil, models.MetaData{}, internal("Failed to load wishlist")
	}
	meta := models.NewMetaData(page, wishlistPageSize, total)
	if len(products) == 0 && page > 1 {
		// past the last page
		return s.Wishlist(ctx, userID, 1)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, meta, nil
}

func (s *profileService) ToggleWishlist(ctx context.Context, userID string, productID uint) (*WishlistToggle, *ServiceError) {
	product, svcErr := s.catalog.GetProduct(ctx, productID)
	if svcErr != nil {
		return nil, svcErr
	}
	profile, svcErr := s.profile(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	listed, err := s.profiles.IsWishlisted(ctx, profile.ID, productID)
	if err != nil {
		logger.Error(ctx, "Failed to read wishlist", err)
		return nil, internal("Failed to update wishlist")
	}

	if listed {
		if err := s.profiles.RemoveFromWishlist(ctx, profile.ID, productID); err != nil {
			logger.Error(ctx, "Failed to remove from wishlist", err)
			return nil, internal("Failed to update wishlist")
		}
		return &WishlistToggle{Added: false, Message: fmt.Sprintf("Removed %s from your wishlist", product.Name)}, nil
	}

	if err := s.profiles.AddToWishlist(ctx, profile.ID, productID); err != nil {
		logger.Error(ctx, "Failed to add to wishlist", err)
		return nil, internal("Failed to update wishlist")
	}
	return &WishlistToggle{Added: true, Message: fmt.Sprintf("Added %s to your wishlist", product.Name)}, nil
}

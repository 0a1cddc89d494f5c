package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/cart"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/logger"
	aws_pkg "github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/pkg/aws"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/session"
	"go.uber.org/zap"
)

// CartResult is what every cart mutation answers with.
type CartResult struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// CartService loads the session cart, applies one change and saves it back.
type CartService interface {
	View(ctx context.Context, sessionID string) (*cart.Summary, *ServiceError)
	Add(ctx context.Context, sessionID string, productID uint, quantity int, size string) (*CartResult, *ServiceError)
	Adjust(ctx context.Context, sessionID string, productID uint, quantity int, size string) (*CartResult, *ServiceError)
	Remove(ctx context.Context, sessionID string, productID uint, size string) (*CartResult, *ServiceError)
}

type cartService struct {
	store      session.Store
	sessionTTL time.Duration
	catalog    CatalogService
	policy     cart.DeliveryPolicy
	metrics    aws_pkg.MetricsRecorder
}

func NewCartService(store session.Store, sessionTTL time.Duration, catalog CatalogService, policy cart.DeliveryPolicy, metrics aws_pkg.MetricsRecorder) CartService {
	return &cartService{store: store, sessionTTL: sessionTTL, catalog: catalog, policy: policy, metrics: metrics}
}

func (s *cartService) load(ctx context.Context, sessionID string) (*session.Data, *ServiceError) {
	data, err := session.Load(ctx, s.store, sessionID)
	if err != nil {
		logger.Error(ctx, "Failed to load session", err)
		return nil, internal("Failed to load your cart")
	}
	return data, nil
}

func (s *cartService) save(ctx context.Context, sessionID string, data *session.Data) *ServiceError {
	if err := s.store.Set(ctx, sessionID, data, s.sessionTTL); err != nil {
		logger.Error(ctx, "Failed to save session", err)
		return internal("Failed to update your cart")
	}
	return nil
}

func (s *cartService) product(ctx context.Context, productID uint) (cart.Product, *ServiceError) {
	key := strconv.FormatUint(uint64(productID), 10)
	products, err := s.catalog.LookupProducts(ctx, []string{key})
	if err != nil {
		logger.Error(ctx, "Failed to look up product", err, zap.Uint("product_id", productID))
		return cart.Product{}, internal("Failed to fetch product")
	}
	p, ok := products[key]
	if !ok {
		return cart.Product{}, notFound("Product not found")
	}
	return p, nil
}

// label names the line the way messages show it.
func label(name, size string) string {
	if size == "" {
		return name
	}
	return fmt.Sprintf("size %s %s", strings.ToUpper(size), name)
}

func cartError(err error, name string) *ServiceError {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		return badRequest("Quantity must be a digit.")
	case errors.Is(err, cart.ErrSizeMismatch):
		return badRequest(fmt.Sprintf("Please check the size selected for %s.", name))
	default:
		return internal("Failed to update your cart")
	}
}

func (s *cartService) View(ctx context.Context, sessionID string) (*cart.Summary, *ServiceError) {
	data, svcErr := s.load(ctx, sessionID)
	if svcErr != nil {
		return nil, svcErr
	}
	summary, err := cart.Totals(ctx, data.Cart, s.catalog, s.policy)
	if err != nil {
		logger.Error(ctx, "Failed to price cart", err)
		return nil, internal("Failed to fetch your cart")
	}
	return summary, nil
}

func (s *cartService) Add(ctx context.Context, sessionID string, productID uint, quantity int, size string) (*CartResult, *ServiceError) {
	size = strings.TrimSpace(size)
	product, svcErr := s.product(ctx, productID)
	if svcErr != nil {
		return nil, svcErr
	}
	if !product.Available {
		return nil, badRequest(fmt.Sprintf("%s is currently unavailable", product.Name))
	}

	data, svcErr := s.load(ctx, sessionID)
	if svcErr != nil {
		return nil, svcErr
	}

	before := data.Cart.Quantity(product.ID, size)
	after, err := cart.Add(data.Cart, product.ID, quantity, size)
	if err != nil {
		return nil, cartError(err, product.Name)
	}
	if svcErr := s.save(ctx, sessionID, data); svcErr != nil {
		return nil, svcErr
	}

	if s.metrics != nil {
		_ = s.metrics.RecordCount(ctx, aws_pkg.MetricCartAdds, nil)
	}

	msg := fmt.Sprintf("Added %s to your cart", label(product.Name, size))
	if before > 0 {
		msg = fmt.Sprintf("Updated %s quantity to %d", label(product.Name, size), after)
	}
	return &CartResult{Message: msg, Count: data.Cart.Count()}, nil
}

func (s *cartService) Adjust(ctx context.Context, sessionID string, productID uint, quantity int, size string) (*CartResult, *ServiceError) {
	size = strings.TrimSpace(size)
	product, svcErr := s.product(ctx, productID)
	if svcErr != nil {
		return nil, svcErr
	}

	data, svcErr := s.load(ctx, sessionID)
	if svcErr != nil {
		return nil, svcErr
	}

	err := cart.Adjust(data.Cart, product.ID, quantity, size)
	switch {
	case errors.Is(err, cart.ErrItemNotFound):
		return &CartResult{Message: fmt.Sprintf("%s is not in your cart", label(product.Name, size)), Count: data.Cart.Count()}, nil
	case err != nil:
		return nil, cartError(err, label(product.Name, size))
	}
	if svcErr := s.save(ctx, sessionID, data); svcErr != nil {
		return nil, svcErr
	}

	msg := fmt.Sprintf("Removed %s from your cart", label(product.Name, size))
	if quantity > 0 {
		msg = fmt.Sprintf("Updated %s quantity to %d", label(product.Name, size), quantity)
	}
	return &CartResult{Message: msg, Count: data.Cart.Count()}, nil
}

// Remove answers 200 even when the line is already gone, so a double click
// on remove is harmless. Adjust does the same for a line that is not there.
func (s *cartService) Remove(ctx context.Context, sessionID string, productID uint, size string) (*CartResult, *ServiceError) {
	size = strings.TrimSpace(size)
	key := strconv.FormatUint(uint64(productID), 10)
	name := "Item"
	if product, svcErr := s.product(ctx, productID); svcErr == nil {
		name = product.Name
	}

	data, svcErr := s.load(ctx, sessionID)
	if svcErr != nil {
		return nil, svcErr
	}

	err := cart.Remove(data.Cart, key, size)
	switch {
	case errors.Is(err, cart.ErrItemNotFound):
		return &CartResult{Message: fmt.Sprintf("%s was not in your cart", label(name, size)), Count: data.Cart.Count()}, nil
	case err != nil:
		return nil, cartError(err, label(name, size))
	}
	if svcErr := s.save(ctx, sessionID, data); svcErr != nil {
		return nil, svcErr
	}
	return &CartResult{Message: fmt.Sprintf("Removed %s from your cart", label(name, size)), Count: data.Cart.Count()}, nil
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/cart"
	apperrors "github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/errors"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/events"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/logger"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/models"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/payments"
	aws_pkg "github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/pkg/aws"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/repository"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/session"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const missingProductMessage = "One of the products in your cart wasn't found in our database. Please call us for assistance!"

// CheckoutPage is everything the client needs to render the payment form.
type CheckoutPage struct {
	ClientSecret    string           `json:"client_secret"`
	StripePublicKey string           `json:"stripe_public_key"`
	Summary         *cart.Summary    `json:"summary"`
	OrderForm       models.OrderForm `json:"order_form"`
	Warning         string           `json:"warning,omitempty"`
}

// CheckoutService turns a session cart into a paid order.
type CheckoutService interface {
	Prepare(ctx context.Context, sessionID string, user *models.User) (*CheckoutPage, *ServiceError)
	CacheCheckoutData(ctx context.Context, sessionID string, user *models.User, req models.CacheCheckoutRequest) *ServiceError
	PlaceOrder(ctx context.Context, sessionID string, req models.CheckoutRequest) (*models.Order, *ServiceError)
	Success(ctx context.Context, sessionID string, user *models.User, orderNumber string) (*models.Order, string, *ServiceError)
	HandleWebhook(ctx context.Context, payload []byte, signature string) (string, *ServiceError)
}

// CheckoutConfig carries the payment settings.
type CheckoutConfig struct {
	Currency        string
	StripePublicKey string
	Policy          cart.DeliveryPolicy
	SessionTTL      time.Duration
	// WebhookAttempts and WebhookWait control how long the webhook waits for
	// the order being created by the shopper's own request.
	WebhookAttempts int
	WebhookWait     time.Duration
}

type checkoutService struct {
	cfg       CheckoutConfig
	store     session.Store
	catalog   CatalogService
	products  repository.ProductRepository
	orders    repository.OrderRepository
	profiles  repository.ProfileRepository
	gateway   payments.Gateway
	publisher events.Publisher
	metrics   aws_pkg.MetricsRecorder
}

func NewCheckoutService(
	cfg CheckoutConfig,
	store session.Store,
	catalog CatalogService,
	products repository.ProductRepository,
	orders repository.OrderRepository,
	profiles repository.ProfileRepository,
	gateway payments.Gateway,
	publisher events.Publisher,
	metrics aws_pkg.MetricsRecorder,
) CheckoutService {
	if cfg.WebhookAttempts < 1 {
		cfg.WebhookAttempts = 5
	}
	return &checkoutService{
		cfg:       cfg,
		store:     store,
		catalog:   catalog,
		products:  products,
		orders:    orders,
		profiles:  profiles,
		gateway:   gateway,
		publisher: publisher,
		metrics:   metrics,
	}
}

func paymentUnavailable(status int) *ServiceError {
	return &ServiceError{StatusCode: status, Message: apperrors.ErrPaymentUnavailable.Message}
}

func (s *checkoutService) record(ctx context.Context, metric string) {
	if s.metrics != nil {
		_ = s.metrics.RecordCount(ctx, metric, nil)
	}
}

func (s *checkoutService) loadSession(ctx context.Context, sessionID string) (*session.Data, *ServiceError) {
	data, err := session.Load(ctx, s.store, sessionID)
	if err != nil {
		logger.Error(ctx, "Failed to load session", err)
		return nil, internal("Failed to load your cart")
	}
	return data, nil
}

func (s *checkoutService) saveSession(ctx context.Context, sessionID string, data *session.Data) error {
	return s.store.Set(ctx, sessionID, data, s.cfg.SessionTTL)
}

func (s *checkoutService) Prepare(ctx context.Context, sessionID string, user *models.User) (*CheckoutPage, *ServiceError) {
	data, svcErr := s.loadSession(ctx, sessionID)
	if svcErr != nil {
		return nil, svcErr
	}
	if data.Cart.Count() == 0 {
		return nil, badRequest(apperrors.ErrEmptyCart.Message)
	}

	summary, err := cart.Totals(ctx, data.Cart, s.catalog, s.cfg.Policy)
	if err != nil {
		logger.Error(ctx, "Failed to price cart", err)
		return nil, internal("Failed to fetch your cart")
	}
	if len(summary.Items) == 0 {
		return nil, badRequest(apperrors.ErrEmptyCart.Message)
	}

	intent, err := s.gateway.CreateIntent(ctx, cart.MinorUnits(summary.GrandTotal), s.cfg.Currency)
	if err != nil {
		logger.Error(ctx, "Failed to create payment intent", err)
		return nil, paymentUnavailable(http.StatusBadGateway)
	}

	page := &CheckoutPage{
		ClientSecret:    intent.ClientSecret,
		StripePublicKey: s.cfg.StripePublicKey,
		Summary:         summary,
	}
	if s.cfg.StripePublicKey == "" {
		page.Warning = "Stripe public key is missing. Did you forget to set it in your environment?"
	}

	if user != nil && user.ID != "" {
		page.OrderForm = models.OrderForm{FullName: user.FullName, Email: user.Email}
		profile, err := s.profiles.FindByUserID(ctx, user.ID)
		switch {
		case err == nil:
			page.OrderForm = profile.OrderForm(user.FullName, user.Email)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			logger.Warn(ctx, "Failed to prefill checkout form", zap.Error(err))
		}
	}
	return page, nil
}

func (s *checkoutService) CacheCheckoutData(ctx context.Context, sessionID string, user *models.User, req models.CacheCheckoutRequest) *ServiceError {
	pid := models.PaymentIntentID(req.ClientSecret)

	data, svcErr := s.loadSession(ctx, sessionID)
	if svcErr != nil {
		return paymentUnavailable(http.StatusBadRequest)
	}
	raw, err := json.Marshal(data.Cart)
	if err != nil {
		return paymentUnavailable(http.StatusBadRequest)
	}

	err = s.gateway.UpdateMetadata(ctx, pid, map[string]string{
		"cart":      string(raw),
		"save_info": strconv.FormatBool(req.SaveInfo),
		"username":  user.Username(),
	})
	if err != nil {
		logger.Warn(ctx, "Failed to cache checkout data", zap.String("payment_intent", pid), zap.Error(err))
		return paymentUnavailable(http.StatusBadRequest)
	}
	return nil
}

// buildLineItems prices every line of c from the database. A product that
// is missing or withdrawn from sale fails the whole order.
func (s *checkoutService) buildLineItems(ctx context.Context, c cart.Cart) ([]models.OrderLineItem, *ServiceError) {
	keys := make([]string, 0, len(c))
	ids := make([]uint, 0, len(c))
	for key := range c {
		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return nil, badRequest(missingProductMessage)
		}
		keys = append(keys, key)
		ids = append(ids, uint(id))
	}
	sort.Strings(keys)

	found, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		logger.Error(ctx, "Failed to load products for order", err)
		return nil, internal("Failed to create order")
	}
	byKey := make(map[string]*models.Product, len(found))
	for i := range found {
		byKey[found[i].Key()] = &found[i]
	}

	var items []models.OrderLineItem
	for _, key := range keys {
		product, ok := byKey[key]
		if !ok || !product.Available {
			return nil, badRequest(missingProductMessage)
		}

		entry := c[key]
		if !entry.Sized() {
			item := models.OrderLineItem{ProductID: product.ID, Product: product, Quantity: entry.Quantity}
			item.Price(product.Price)
			items = append(items, item)
			continue
		}

		sizes := make([]string, 0, len(entry.ItemsBySize))
		for size := range entry.ItemsBySize {
			sizes = append(sizes, size)
		}
		sort.Strings(sizes)
		for _, size := range sizes {
			item := models.OrderLineItem{ProductID: product.ID, Product: product, ProductSize: size, Quantity: entry.ItemsBySize[size]}
			item.Price(product.Price)
			items = append(items, item)
		}
	}
	return items, nil
}

// createOrder stores the order built from the cart. When another request
// stored an order for the same payment intent first, order is replaced by
// that one and created is false.
func (s *checkoutService) createOrder(ctx context.Context, order *models.Order, c cart.Cart) (created bool, svcErr *ServiceError) {
	items, svcErr := s.buildLineItems(ctx, c)
	if svcErr != nil {
		return false, svcErr
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return false, internal("Failed to create order")
	}
	order.OriginalCart = string(raw)

	if err := s.orders.CreateWithLineItems(ctx, order, items, s.cfg.Policy); err != nil {
		if errors.Is(err, repository.ErrDuplicateOrder) {
			if existing, findErr := s.orders.FindByStripePID(ctx, order.StripePID); findErr == nil {
				logger.Info(ctx, "Order already stored for payment intent", zap.String("stripe_pid", order.StripePID))
				*order = *existing
				return false, nil
			}
		}
		logger.Error(ctx, "Failed to create order", err, zap.String("stripe_pid", order.StripePID))
		return false, internal("Failed to create order")
	}

	s.record(ctx, aws_pkg.MetricOrdersCreated)
	if s.metrics != nil {
		_ = s.metrics.RecordValue(ctx, aws_pkg.MetricOrderValue, order.GrandTotal.InexactFloat64(), nil)
	}
	logger.Info(ctx, "Order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("stripe_pid", order.StripePID),
		zap.String("grand_total", order.GrandTotal.StringFixed(2)),
	)
	s.publishOrderCreated(ctx, order)
	return true, nil
}

// publishOrderCreated is best effort; the order is already committed.
func (s *checkoutService) publishOrderCreated(ctx context.Context, order *models.Order) {
	if s.publisher == nil {
		return
	}
	evt := events.OrderCreated{
		OrderNumber: order.OrderNumber,
		Email:       order.Email,
		FullName:    order.FullName,
		OrderTotal:  order.OrderTotal,
		Delivery:    order.DeliveryCost,
		GrandTotal:  order.GrandTotal,
		CreatedAt:   order.Date,
	}
	for _, li := range order.LineItems {
		line := events.OrderLine{Size: li.ProductSize, Quantity: li.Quantity, Subtotal: li.LineItemTotal}
		if li.Product != nil {
			line.Name = li.Product.Name
		}
		evt.Items = append(evt.Items, line)
	}
	if err := s.publisher.PublishOrderCreated(ctx, evt); err != nil {
		logger.Error(ctx, "Failed to publish order event", err, zap.String("order_number", order.OrderNumber))
	}
}

func (s *checkoutService) PlaceOrder(ctx context.Context, sessionID string, req models.CheckoutRequest) (*models.Order, *ServiceError) {
	data, svcErr := s.loadSession(ctx, sessionID)
	if svcErr != nil {
		return nil, svcErr
	}
	if data.Cart.Count() == 0 {
		return nil, badRequest(apperrors.ErrEmptyCart.Message)
	}

	pid := models.PaymentIntentID(req.ClientSecret)
	existing, err := s.orders.FindByStripePID(ctx, pid)
	switch {
	case err == nil:
		// the webhook got there first
		s.rememberSaveInfo(ctx, sessionID, data, req.SaveInfo)
		return existing, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		logger.Error(ctx, "Failed to look up order", err, zap.String("stripe_pid", pid))
		return nil, internal("Failed to create order")
	}

	order := &models.Order{StripePID: pid}
	order.ApplyForm(req.OrderForm)
	created, svcErr := s.createOrder(ctx, order, data.Cart)
	if svcErr != nil {
		return nil, svcErr
	}
	if created {
		s.record(ctx, aws_pkg.MetricCartCheckouts)
	}

	s.rememberSaveInfo(ctx, sessionID, data, req.SaveInfo)
	return order, nil
}

func (s *checkoutService) rememberSaveInfo(ctx context.Context, sessionID string, data *session.Data, saveInfo bool) {
	data.SaveInfo = saveInfo
	if err := s.saveSession(ctx, sessionID, data); err != nil {
		logger.Warn(ctx, "Failed to store save_info in session", zap.Error(err))
	}
}

func (s *checkoutService) Success(ctx context.Context, sessionID string, user *models.User, orderNumber string) (*models.Order, string, *ServiceError) {
	order, err := s.orders.FindByNumber(ctx, orderNumber)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", notFound("Order not found")
	}
	if err != nil {
		logger.Error(ctx, "Failed to fetch order", err, zap.String("order_number", orderNumber))
		return nil, "", internal("Failed to fetch order")
	}

	data, svcErr := s.loadSession(ctx, sessionID)
	if svcErr != nil {
		return nil, "", svcErr
	}

	if user != nil && user.ID != "" {
		profile, err := s.profiles.GetOrCreate(ctx, user.ID)
		if err != nil {
			logger.Error(ctx, "Failed to load profile", err)
			return nil, "", internal("Failed to update your profile")
		}
		if order.UserProfileID == nil {
			if err := s.orders.AttachProfile(ctx, order.ID, profile.ID); err != nil {
				logger.Error(ctx, "Failed to attach order to profile", err, zap.String("order_number", orderNumber))
				return nil, "", internal("Failed to update your profile")
			}
			order.UserProfileID = &profile.ID
		}
		if data.SaveInfo {
			profile.ApplyOrder(order)
			if err := s.profiles.Update(ctx, profile); err != nil {
				logger.Warn(ctx, "Failed to save delivery info", zap.Error(err))
			}
		}
	}

	data.Cart = cart.New()
	data.SaveInfo = false
	if err := s.saveSession(ctx, sessionID, data); err != nil {
		logger.Warn(ctx, "Failed to clear cart", zap.Error(err))
	}

	msg := fmt.Sprintf("Order successfully processed! Your order number is %s. A confirmation email will be sent to %s.",
		order.OrderNumber, order.Email)
	return order, msg, nil
}

func (s *checkoutService) HandleWebhook(ctx context.Context, payload []byte, signature string) (string, *ServiceError) {
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		logger.Warn(ctx, "Stripe webhook signature verification failed", zap.Error(err))
		return "", badRequest("invalid webhook")
	}

	logger.Info(ctx, "Processing Stripe webhook",
		zap.String("event_type", event.Type),
		zap.String("event_id", event.ID),
	)

	switch event.Type {
	case payments.EventPaymentSucceeded:
		if event.Intent == nil {
			return "", badRequest("invalid webhook")
		}
		return s.handlePaymentSucceeded(ctx, event)
	case payments.EventPaymentFailed:
		s.record(ctx, aws_pkg.MetricPaymentFailed)
		return fmt.Sprintf("Webhook received: %s", event.Type), nil
	default:
		return fmt.Sprintf("Unhandled webhook received: %s", event.Type), nil
	}
}

func (s *checkoutService) handlePaymentSucceeded(ctx context.Context, event *payments.Event) (string, *ServiceError) {
	s.record(ctx, aws_pkg.MetricPaymentSucceeded)
	intent := event.Intent

	for attempt := 1; attempt <= s.cfg.WebhookAttempts; attempt++ {
		_, err := s.orders.FindByStripePID(ctx, intent.ID)
		if err == nil {
			return fmt.Sprintf("Webhook received: %s | SUCCESS: Verified order already in database", event.Type), nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error(ctx, "Failed to look up order", err, zap.String("stripe_pid", intent.ID))
			return "", internal("Failed to look up order")
		}
		if attempt < s.cfg.WebhookAttempts {
			select {
			case <-ctx.Done():
				return "", internal("Failed to look up order")
			case <-time.After(s.cfg.WebhookWait):
			}
		}
	}

	var c cart.Cart
	if err := json.Unmarshal([]byte(intent.Metadata["cart"]), &c); err != nil || len(c) == 0 {
		logger.Warn(ctx, "Payment intent has no usable cart", zap.String("stripe_pid", intent.ID))
		return "", internal(fmt.Sprintf("Webhook received: %s | ERROR: cart metadata missing", event.Type))
	}

	order := &models.Order{
		StripePID:      intent.ID,
		FullName:       intent.Name,
		Email:          intent.Email,
		PhoneNumber:    intent.Phone,
		Country:        intent.Address.Country,
		Postcode:       intent.Address.PostalCode,
		TownOrCity:     intent.Address.City,
		StreetAddress1: intent.Address.Line1,
		StreetAddress2: intent.Address.Line2,
		County:         intent.Address.State,
	}
	created, svcErr := s.createOrder(ctx, order, c)
	if svcErr != nil {
		return "", &ServiceError{StatusCode: http.StatusInternalServerError, Message: fmt.Sprintf("Webhook received: %s | ERROR: %s", event.Type, svcErr.Message)}
	}
	if !created {
		return fmt.Sprintf("Webhook received: %s | SUCCESS: Verified order already in database", event.Type), nil
	}

	if username := intent.Metadata["username"]; username != "" && username != "AnonymousUser" {
		s.linkWebhookOrder(ctx, order, username, intent.Metadata["save_info"] == "true")
	}
	return fmt.Sprintf("Webhook received: %s | SUCCESS: Created order in webhook", event.Type), nil
}

func (s *checkoutService) linkWebhookOrder(ctx context.Context, order *models.Order, userID string, saveInfo bool) {
	profile, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		logger.Warn(ctx, "Failed to load profile for webhook order", zap.Error(err))
		return
	}
	if err := s.orders.AttachProfile(ctx, order.ID, profile.ID); err != nil {
		logger.Warn(ctx, "Failed to attach webhook order", zap.Error(err))
	}
	if saveInfo {
		profile.ApplyOrder(order)
		if err := s.profiles.Update(ctx, profile); err != nil {
			logger.Warn(ctx, "Failed to save delivery info", zap.Error(err))
		}
	}
}

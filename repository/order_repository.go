package repository

import (
	"context"
	"errors"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/cart"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrDuplicateOrder is returned when an order with the same payment intent
// or order number is already stored.
var ErrDuplicateOrder = errors.New("order already exists")

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	CreateWithLineItems(ctx context.Context, order *models.Order, items []models.OrderLineItem, policy cart.DeliveryPolicy) error
	FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	FindByStripePID(ctx context.Context, pid string) (*models.Order, error)
	FindByProfile(ctx context.Context, profileID uuid.UUID) ([]models.Order, error)
	AttachProfile(ctx context.Context, orderID, profileID uuid.UUID) error
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new instance of GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// CreateWithLineItems saves the order and then each line item in one
// transaction. Every saved line item refreshes the order's totals, so the
// order row always agrees with the items stored so far. A unique key clash
// on the order row is reported as ErrDuplicateOrder.
func (r *GormOrderRepository) CreateWithLineItems(ctx context.Context, order *models.Order, items []models.OrderLineItem, policy cart.DeliveryPolicy) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order.LineItems = nil
		order.UpdateTotals(policy)
		if err := tx.Omit("LineItems").Create(order).Error; err != nil {
			return err
		}

		for i := range items {
			item := items[i]
			item.OrderID = order.ID
			if err := tx.Omit("Product").Create(&item).Error; err != nil {
				return err
			}
			order.LineItems = append(order.LineItems, item)
			order.UpdateTotals(policy)

			if err := tx.Model(order).Select("order_total", "delivery_cost", "grand_total").Updates(order).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateOrder
	}
	return err
}

func (r *GormOrderRepository) FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("LineItems.Product").
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByStripePID(ctx context.Context, pid string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("stripe_pid = ?", pid).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByProfile lists a profile's orders, newest first.
func (r *GormOrderRepository) FindByProfile(ctx context.Context, profileID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("user_profile_id = ?", profileID).
		Order("date DESC").
		Find(&orders).Error
	return orders, err
}

// AttachProfile links an order to the profile of the shopper who placed it.
func (r *GormOrderRepository) AttachProfile(ctx context.Context, orderID, profileID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("user_profile_id", profileID).Error
}

package models

import (
	"strings"
	"time"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/cart"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is the snapshot taken when checkout completes. Apart from being
// linked to a profile it is never modified once its line items are saved.
type Order struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber    string          `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_number"`
	UserProfileID  *uuid.UUID      `gorm:"type:uuid;index" json:"user_profile_id,omitempty"`
	FullName       string          `gorm:"type:varchar(50);not null" json:"full_name"`
	Email          string          `gorm:"type:varchar(254);not null" json:"email"`
	PhoneNumber    string          `gorm:"type:varchar(20);not null" json:"phone_number"`
	Country        string          `gorm:"type:varchar(2);not null" json:"country"`
	Postcode       string          `gorm:"type:varchar(20)" json:"postcode"`
	TownOrCity     string          `gorm:"type:varchar(40);not null" json:"town_or_city"`
	StreetAddress1 string          `gorm:"type:varchar(80);not null" json:"street_address1"`
	StreetAddress2 string          `gorm:"type:varchar(80)" json:"street_address2"`
	County         string          `gorm:"type:varchar(80)" json:"county"`
	Date           time.Time       `gorm:"autoCreateTime" json:"date"`
	DeliveryCost   decimal.Decimal `gorm:"type:numeric(6,2);not null" json:"delivery_cost"`
	OrderTotal     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"order_total"`
	GrandTotal     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"grand_total"`
	OriginalCart   string          `gorm:"type:text;not null" json:"original_cart"`
	StripePID      string          `gorm:"type:varchar(254);uniqueIndex;not null" json:"stripe_pid"`
	LineItems      []OrderLineItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"line_items,omitempty"`
}

// BeforeCreate assigns the id and order number.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.OrderNumber == "" {
		o.OrderNumber = NewOrderNumber()
	}
	return nil
}

// NewOrderNumber returns a random 32 character upper-case hex string.
func NewOrderNumber() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// UpdateTotals recomputes the order's totals from its line items. Amounts are
// rounded to cents as they are stored.
func (o *Order) UpdateTotals(policy cart.DeliveryPolicy) {
	total := decimal.Zero
	for _, li := range o.LineItems {
		total = total.Add(li.LineItemTotal)
	}
	o.OrderTotal = total.Round(2)
	o.DeliveryCost = policy.Fee(total).Round(2)
	o.GrandTotal = o.OrderTotal.Add(o.DeliveryCost)
}

// OrderLineItem is one product, or one size of a product, within an order.
type OrderLineItem struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       uuid.UUID       `gorm:"type:uuid;index;not null" json:"order_id"`
	ProductID     uint            `gorm:"index;not null" json:"product_id"`
	Product       *Product        `gorm:"constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	ProductSize   string          `gorm:"type:varchar(10)" json:"product_size,omitempty"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	LineItemTotal decimal.Decimal `gorm:"column:lineitem_total;type:numeric(6,2);not null" json:"lineitem_total"`
}

// Price sets the line total from the unit price.
func (li *OrderLineItem) Price(unit decimal.Decimal) {
	li.LineItemTotal = unit.Mul(decimal.NewFromInt(int64(li.Quantity))).Round(2)
}

// OrderForm is the delivery and contact form posted at checkout.
type OrderForm struct {
	FullName       string `json:"full_name" binding:"required,max=50"`
	Email          string `json:"email" binding:"required,email,max=254"`
	PhoneNumber    string `json:"phone_number" binding:"required,phone"`
	StreetAddress1 string `json:"street_address1" binding:"required,max=80"`
	StreetAddress2 string `json:"street_address2" binding:"max=80"`
	TownOrCity     string `json:"town_or_city" binding:"required,max=40"`
	County         string `json:"county" binding:"max=80"`
	Postcode       string `json:"postcode" binding:"omitempty,postcode"`
	Country        string `json:"country" binding:"required,iso3166_1_alpha2"`
}

// CheckoutRequest is the body of POST /checkout.
type CheckoutRequest struct {
	OrderForm
	ClientSecret string `json:"client_secret" binding:"required"`
	SaveInfo     bool   `json:"save_info"`
}

// CacheCheckoutRequest is the body of POST /checkout/cache_checkout_data.
type CacheCheckoutRequest struct {
	ClientSecret string `json:"client_secret" binding:"required"`
	SaveInfo     bool   `json:"save_info"`
}

// ApplyForm copies the form fields onto the order.
func (o *Order) ApplyForm(f OrderForm) {
	o.FullName = f.FullName
	o.Email = f.Email
	o.PhoneNumber = f.PhoneNumber
	o.StreetAddress1 = f.StreetAddress1
	o.StreetAddress2 = f.StreetAddress2
	o.TownOrCity = f.TownOrCity
	o.County = f.County
	o.Postcode = f.Postcode
	o.Country = strings.ToUpper(f.Country)
}

// PaymentIntentID strips the secret part of a Stripe client secret.
func PaymentIntentID(clientSecret string) string {
	pid, _, _ := strings.Cut(clientSecret, "_secret")
	return pid
}

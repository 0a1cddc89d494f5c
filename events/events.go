// Package events carries domain events between the storefront and the
// workers that react to them.
package events

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const TypeOrderCreated = "order.created"

// Envelope wraps every event on the topic.
type Envelope struct {
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// OrderLine is one line of an order as it appears in notifications.
type OrderLine struct {
	Name     string          `json:"name"`
	Size     string          `json:"size,omitempty"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// OrderCreated is published once an order has been confirmed.
type OrderCreated struct {
	OrderNumber string          `json:"order_number"`
	Email       string          `json:"email"`
	FullName    string          `json:"full_name"`
	Items       []OrderLine     `json:"items"`
	OrderTotal  decimal.Decimal `json:"order_total"`
	Delivery    decimal.Decimal `json:"delivery"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	CreatedAt   time.Time       `json:"created_at"`
}

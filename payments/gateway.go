// Package payments talks to the card payment provider.
package payments

import (
	"context"
	"errors"
)

// ErrInvalidSignature is returned when a webhook payload fails verification.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// Event types the storefront reacts to.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// Address is the shipping address attached to an intent.
type Address struct {
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// Intent is the subset of a payment intent the storefront needs.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
	Status       string
	Metadata     map[string]string
	Email        string
	Name         string
	Phone        string
	Address      Address
}

// Event is a verified webhook notification. Intent is nil for events that are
// not about a payment intent.
type Event struct {
	ID     string
	Type   string
	Intent *Intent
}

// Gateway creates and updates payment intents and verifies webhooks.
type Gateway interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error)
	UpdateMetadata(ctx context.Context, intentID string, metadata map[string]string) error
	ParseWebhook(payload []byte, signature string) (*Event, error)
}

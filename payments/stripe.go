package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
	"github.com/stripe/stripe-go/v80/webhook"
)

// StripeGateway implements Gateway on top of the Stripe API.
type StripeGateway struct {
	api        *client.API
	webhookKey string
}

// NewStripeGateway uses the default Stripe backends. backends may be nil.
func NewStripeGateway(secretKey, webhookKey string, backends *stripe.Backends) *StripeGateway {
	return &StripeGateway{api: client.New(secretKey, backends), webhookKey: webhookKey}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(strings.ToLower(currency)),
	}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return intentFromStripe(pi), nil
}

func (g *StripeGateway) UpdateMetadata(ctx context.Context, intentID string, metadata map[string]string) error {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	if _, err := g.api.PaymentIntents.Update(intentID, params); err != nil {
		return fmt.Errorf("update payment intent %s: %w", intentID, err)
	}
	return nil
}

func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &Event{ID: event.ID, Type: string(event.Type)}
	if event.Data == nil || !strings.HasPrefix(out.Type, "payment_intent.") {
		return out, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("decode payment intent: %w", err)
	}
	out.Intent = intentFromStripe(&pi)
	return out, nil
}

func intentFromStripe(pi *stripe.PaymentIntent) *Intent {
	in := &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
		Metadata:     pi.Metadata,
		Email:        pi.ReceiptEmail,
	}
	if s := pi.Shipping; s != nil {
		in.Name = s.Name
		in.Phone = s.Phone
		if a := s.Address; a != nil {
			in.Address = Address{
				Line1:      a.Line1,
				Line2:      a.Line2,
				City:       a.City,
				State:      a.State,
				PostalCode: a.PostalCode,
				Country:    a.Country,
			}
		}
	}
	return in
}

package payments

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *StripeGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		MaxNetworkRetries: stripe.Int64(0),
	})
	return NewStripeGateway("sk_test_123", "whsec_test", &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
}

func TestStripeGateway_CreateIntent(t *testing.T) {
	var form url.Values
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		form, _ = url.ParseQuery(string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_1","object":"payment_intent","client_secret":"pi_1_secret_x","amount":2200,"currency":"usd","status":"requires_payment_method"}`))
	})

	in, err := g.CreateIntent(context.Background(), 2200, "USD")
	require.NoError(t, err)
	assert.Equal(t, "pi_1", in.ID)
	assert.Equal(t, "pi_1_secret_x", in.ClientSecret)
	assert.Equal(t, int64(2200), in.Amount)
	assert.Equal(t, "2200", form.Get("amount"))
	assert.Equal(t, "usd", form.Get("currency"))
}

func TestStripeGateway_UpdateMetadata(t *testing.T) {
	var form url.Values
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment_intents/pi_1", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		form, _ = url.ParseQuery(string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_1","object":"payment_intent"}`))
	})

	err := g.UpdateMetadata(context.Background(), "pi_1", map[string]string{"cart": `{"3":2}`, "save_info": "true"})
	require.NoError(t, err)
	assert.Equal(t, `{"3":2}`, form.Get("metadata[cart]"))
	assert.Equal(t, "true", form.Get("metadata[save_info]"))
}

func TestStripeGateway_UpdateMetadataError(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such payment_intent"}}`))
	})

	err := g.UpdateMetadata(context.Background(), "pi_missing", map[string]string{"cart": "{}"})
	assert.Error(t, err)
}

func signedPayload(t *testing.T, secret string, event map[string]any) ([]byte, string) {
	t.Helper()
	event["api_version"] = stripe.APIVersion
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}

func TestStripeGateway_ParseWebhook(t *testing.T) {
	g := NewStripeGateway("sk_test_123", "whsec_test", nil)

	payload, header := signedPayload(t, "whsec_test", map[string]any{
		"id":     "evt_1",
		"object": "event",
		"type":   "payment_intent.succeeded",
		"data": map[string]any{"object": map[string]any{
			"id":            "pi_1",
			"object":        "payment_intent",
			"amount":        2200,
			"receipt_email": "ann@example.com",
			"metadata":      map[string]string{"cart": `{"3":2}`, "save_info": "true"},
			"shipping": map[string]any{
				"name":  "Ann Reader",
				"phone": "0123",
				"address": map[string]any{
					"line1": "1 Mill Lane", "city": "Cork", "postal_code": "T12", "country": "IE",
				},
			},
		}},
	})

	event, err := g.ParseWebhook(payload, header)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentSucceeded, event.Type)
	require.NotNil(t, event.Intent)
	assert.Equal(t, "pi_1", event.Intent.ID)
	assert.Equal(t, "Ann Reader", event.Intent.Name)
	assert.Equal(t, "ann@example.com", event.Intent.Email)
	assert.Equal(t, "IE", event.Intent.Address.Country)
	assert.Equal(t, `{"3":2}`, event.Intent.Metadata["cart"])
}

func TestStripeGateway_ParseWebhook_BadSignature(t *testing.T) {
	g := NewStripeGateway("sk_test_123", "whsec_test", nil)

	payload, header := signedPayload(t, "whsec_other", map[string]any{
		"id": "evt_1", "object": "event", "type": "payment_intent.succeeded",
		"data": map[string]any{"object": map[string]any{"id": "pi_1"}},
	})

	_, err := g.ParseWebhook(payload, header)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestStripeGateway_ParseWebhook_OtherEvent(t *testing.T) {
	g := NewStripeGateway("sk_test_123", "whsec_test", nil)

	payload, header := signedPayload(t, "whsec_test", map[string]any{
		"id": "evt_2", "object": "event", "type": "charge.refunded",
		"data": map[string]any{"object": map[string]any{"id": "ch_1", "object": "charge"}},
	})

	event, err := g.ParseWebhook(payload, header)
	require.NoError(t, err)
	assert.Equal(t, "charge.refunded", event.Type)
	assert.Nil(t, event.Intent)
}

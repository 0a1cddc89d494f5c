// Package session keeps per-visitor state, most importantly the cart, in an
// external key-value store keyed by an opaque session id.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/cart"
)

// ErrNotFound is returned by stores when no data is kept for the id.
var ErrNotFound = errors.New("session not found")

// Data is everything stored for one session.
type Data struct {
	Cart     cart.Cart `json:"cart"`
	SaveInfo bool      `json:"save_info,omitempty"`
}

// Store persists session data. Implementations must return ErrNotFound for
// unknown or expired ids.
type Store interface {
	Get(ctx context.Context, id string) (*Data, error)
	Set(ctx context.Context, id string, data *Data, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Load returns the session's data, or empty data when nothing is stored yet.
func Load(ctx context.Context, store Store, id string) (*Data, error) {
	data, err := store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return &Data{Cart: cart.New()}, nil
	}
	if err != nil {
		return nil, err
	}
	if data.Cart == nil {
		data.Cart = cart.New()
	}
	return data, nil
}

package providers

import "context"

// NewsletterProvider manages the marketing audience.
type NewsletterProvider interface {
	// Subscribe adds the address to the audience as subscribed.
	Subscribe(ctx context.Context, email string) error

	// Unsubscribe marks an existing member as unsubscribed.
	Unsubscribe(ctx context.Context, email string) error

	// Ping checks that the provider is reachable with the configured key.
	Ping(ctx context.Context) (string, error)
}

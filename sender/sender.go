// Package sender delivers outgoing email.
package sender

import (
	"context"
	"time"
)

type SendResult struct {
	MessageID string
	SentAt    time.Time
}

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) (SendResult, error)
}

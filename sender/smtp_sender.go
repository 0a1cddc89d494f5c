package sender

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/logger"
	"go.uber.org/zap"
)

// SMTPConfig holds the mail relay settings.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type SMTPSender struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP_HOST not set")
	}
	if cfg.Port == "" {
		return nil, fmt.Errorf("SMTP_PORT not set")
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPSender{cfg: cfg, send: smtp.SendMail}, nil
}

func (s *SMTPSender) SendEmail(ctx context.Context, to, subject, body string) (SendResult, error) {
	if strings.ContainsAny(to, "\r\n") || strings.ContainsAny(subject, "\r\n") {
		return SendResult{}, fmt.Errorf("invalid header value")
	}
	if err := ctx.Err(); err != nil {
		return SendResult{}, err
	}

	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	msg := []byte(
		"From: " + s.cfg.From + "\r\n" +
			"To: " + to + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/plain; charset=UTF-8\r\n" +
			"\r\n" +
			body,
	)

	if err := s.send(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		return SendResult{}, fmt.Errorf("smtp send failed: %w", err)
	}

	now := time.Now()
	logger.Debug(ctx, "Email sent", zap.String("to", to), zap.String("subject", subject))
	return SendResult{
		MessageID: fmt.Sprintf("smtp-%d", now.UnixNano()),
		SentAt:    now,
	}, nil
}

// LogSender writes messages to the log instead of sending them. It stands in
// for SMTP when no relay is configured.
type LogSender struct{}

func (LogSender) SendEmail(ctx context.Context, to, subject, body string) (SendResult, error) {
	now := time.Now()
	logger.Info(ctx, "Email (not sent, no SMTP relay configured)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_length", len(body)),
	)
	return SendResult{MessageID: fmt.Sprintf("log-%d", now.UnixNano()), SentAt: now}, nil
}

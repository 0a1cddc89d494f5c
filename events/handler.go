package events

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/logger"
	aws_pkg "github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/pkg/aws"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/sender"
	"go.uber.org/zap"
)

//go:embed templates/*.txt
var templateFS embed.FS

var confirmationTmpl = template.Must(template.ParseFS(templateFS, "templates/order_confirmation.txt"))

// Handler consumes events from the order-events queue.
type Handler struct {
	email        sender.EmailSender
	metrics      aws_pkg.MetricsRecorder
	contactEmail string
}

func NewHandler(email sender.EmailSender, metrics aws_pkg.MetricsRecorder, contactEmail string) *Handler {
	return &Handler{email: email, metrics: metrics, contactEmail: contactEmail}
}

// snsEnvelope unwraps the SNS -> SQS message wrapper
type snsEnvelope struct {
	Type    string `json:"Type"`
	Message string `json:"Message"`
}

// Handle processes one queue message. Malformed and unknown messages are
// logged and acknowledged; delivery failures are returned so the message is
// retried.
func (h *Handler) Handle(ctx context.Context, body string) error {
	payload := []byte(body)

	var wrapped snsEnvelope
	if err := json.Unmarshal(payload, &wrapped); err == nil && wrapped.Type == "Notification" {
		payload = []byte(wrapped.Message)
	}

	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		logger.Error(ctx, "failed to unmarshal event envelope", err)
		return nil
	}

	switch env.EventType {
	case TypeOrderCreated:
		var evt OrderCreated
		if err := json.Unmarshal(env.Data, &evt); err != nil {
			logger.Error(ctx, "failed to unmarshal order event", err)
			return nil
		}
		if err := h.sendConfirmation(ctx, evt); err != nil {
			return err
		}
	default:
		logger.Warn(ctx, "Unhandled event type", zap.String("event_type", env.EventType))
		return nil
	}

	if h.metrics != nil {
		_ = h.metrics.RecordCount(ctx, aws_pkg.MetricSQSMessages, map[string]string{"EventType": env.EventType})
	}
	return nil
}

func (h *Handler) sendConfirmation(ctx context.Context, evt OrderCreated) error {
	if evt.Email == "" {
		logger.Warn(ctx, "Order event without email", zap.String("order_number", evt.OrderNumber))
		return nil
	}

	var buf bytes.Buffer
	data := struct {
		OrderCreated
		ContactEmail string
	}{evt, h.contactEmail}
	if err := confirmationTmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("template render failed: %w", err)
	}

	subject := fmt.Sprintf("Hand Crafted Paper Confirmation for Order Number %s", evt.OrderNumber)
	res, err := h.email.SendEmail(ctx, evt.Email, subject, buf.String())
	if err != nil {
		return fmt.Errorf("send confirmation for %s: %w", evt.OrderNumber, err)
	}

	logger.Info(ctx, "Order confirmation sent",
		zap.String("order_number", evt.OrderNumber),
		zap.String("message_id", res.MessageID),
	)
	return nil
}

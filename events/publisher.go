package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/logger"
	aws_pkg "github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/pkg/aws"
	"go.uber.org/zap"
)

// Publisher emits order events.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, evt OrderCreated) error
}

func encode(eventType string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", eventType, err)
	}
	return json.Marshal(Envelope{EventType: eventType, OccurredAt: time.Now().UTC(), Data: raw})
}

// SNSPublisher publishes events to a topic.
type SNSPublisher struct {
	sns      aws_pkg.SNSPublisher
	topicARN string
}

func NewSNSPublisher(sns aws_pkg.SNSPublisher, topicARN string) *SNSPublisher {
	return &SNSPublisher{sns: sns, topicARN: topicARN}
}

func (p *SNSPublisher) PublishOrderCreated(ctx context.Context, evt OrderCreated) error {
	msg, err := encode(TypeOrderCreated, evt)
	if err != nil {
		return err
	}
	if err := p.sns.Publish(ctx, p.topicARN, msg); err != nil {
		return err
	}
	logger.Info(ctx, "Published order event",
		zap.String("event_type", TypeOrderCreated),
		zap.String("order_number", evt.OrderNumber),
	)
	return nil
}

// LocalPublisher hands events straight to a handler in process. It is used
// when no topic is configured.
type LocalPublisher struct {
	handler *Handler
}

func NewLocalPublisher(h *Handler) *LocalPublisher {
	return &LocalPublisher{handler: h}
}

func (p *LocalPublisher) PublishOrderCreated(ctx context.Context, evt OrderCreated) error {
	msg, err := encode(TypeOrderCreated, evt)
	if err != nil {
		return err
	}
	return p.handler.Handle(ctx, string(msg))
}

package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSPublisher is a minimal interface for publishing messages to SNS.
type SNSPublisher interface {
	Publish(ctx context.Context, topicArn string, message []byte) error
}

type SNSClient struct {
	client *sns.Client
}

func NewSNSClient(cfg sdkaws.Config) *SNSClient {
	return &SNSClient{client: sns.NewFromConfig(cfg)}
}

// Publish sends message to the topic. The event type is read from the
// message's "type" field by subscribers, so it is also copied into the
// event_type attribute for SNS filter policies.
func (s *SNSClient) Publish(ctx context.Context, topicArn string, message []byte) error {
	return s.PublishWithType(ctx, topicArn, "", message)
}

// PublishWithType publishes message with an event_type attribute when eventType is not empty.
func (s *SNSClient) PublishWithType(ctx context.Context, topicArn, eventType string, message []byte) error {
	if topicArn == "" {
		return fmt.Errorf("empty topicArn")
	}
	input := &sns.PublishInput{
		TopicArn: sdkaws.String(topicArn),
		Message:  sdkaws.String(string(message)),
	}
	if eventType != "" {
		input.MessageAttributes = map[string]types.MessageAttributeValue{
			"event_type": {DataType: sdkaws.String("String"), StringValue: sdkaws.String(eventType)},
		}
	}
	if _, err := s.client.Publish(ctx, input); err != nil {
		return fmt.Errorf("sns publish failed for topic %s: %w", topicArn, err)
	}
	return nil
}

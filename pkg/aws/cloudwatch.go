package aws

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

// CloudWatchLogsClient ships log lines to a CloudWatch Logs stream. It
// implements io.Writer so it can be tee'd into the zap logger.
type CloudWatchLogsClient struct {
	client        *cloudwatchlogs.Client
	logGroupName  string
	logStreamName string
	enabled       bool

	mu            sync.Mutex
	sequenceToken *string
}

// NewCloudWatchLogsClient creates the log group and stream when enabled.
func NewCloudWatchLogsClient(ctx context.Context, cfg sdkaws.Config, logGroup, serviceName string, enabled bool) (*CloudWatchLogsClient, error) {
	if logGroup == "" {
		logGroup = "/hand-crafted/" + serviceName
	}

	c := &CloudWatchLogsClient{
		client:        cloudwatchlogs.NewFromConfig(cfg),
		logGroupName:  logGroup,
		logStreamName: fmt.Sprintf("%s-%d", serviceName, time.Now().Unix()),
		enabled:       enabled,
	}
	if !enabled {
		return c, nil
	}

	if err := c.ensureLogGroup(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure log group: %w", err)
	}
	if _, err := c.client.CreateLogStream(ctx, &cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  sdkaws.String(c.logGroupName),
		LogStreamName: sdkaws.String(c.logStreamName),
	}); err != nil {
		return nil, fmt.Errorf("failed to create log stream: %w", err)
	}
	return c, nil
}

func (c *CloudWatchLogsClient) ensureLogGroup(ctx context.Context) error {
	_, err := c.client.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{
		LogGroupName: sdkaws.String(c.logGroupName),
	})
	if err != nil {
		var existsErr *types.ResourceAlreadyExistsException
		if !errors.As(err, &existsErr) {
			return err
		}
	}

	_, err = c.client.PutRetentionPolicy(ctx, &cloudwatchlogs.PutRetentionPolicyInput{
		LogGroupName:    sdkaws.String(c.logGroupName),
		RetentionInDays: sdkaws.Int32(30),
	})
	if err != nil {
		return fmt.Errorf("failed to set retention policy: %w", err)
	}
	return nil
}

// Write implements io.Writer. Shipping failures are reported on stderr and
// never fail the write.
func (c *CloudWatchLogsClient) Write(p []byte) (int, error) {
	if !c.enabled {
		return len(p), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	out, err := c.client.PutLogEvents(ctx, &cloudwatchlogs.PutLogEventsInput{
		LogGroupName:  sdkaws.String(c.logGroupName),
		LogStreamName: sdkaws.String(c.logStreamName),
		SequenceToken: c.sequenceToken,
		LogEvents: []types.InputLogEvent{{
			Message:   sdkaws.String(string(p)),
			Timestamp: sdkaws.Int64(time.Now().UnixMilli()),
		}},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "CloudWatch write error: %v\n", err)
		return len(p), nil
	}
	c.sequenceToken = out.NextSequenceToken
	return len(p), nil
}

// IsEnabled returns whether CloudWatch logging is enabled
func (c *CloudWatchLogsClient) IsEnabled() bool {
	return c.enabled
}

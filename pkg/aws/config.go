package aws

import (
	"context"
	"fmt"
	"os"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// LoadAWSConfig loads the default AWS config. When AWS_ENDPOINT is set every
// client built from the config targets that URL, which is how LocalStack is
// reached in development.
func LoadAWSConfig(ctx context.Context) (sdkaws.Config, error) {
	var opts []func(*config.LoadOptions) error
	if region := os.Getenv("AWS_REGION"); region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return cfg, fmt.Errorf("failed to load aws config: %w", err)
	}

	if endpoint := CustomEndpoint(); endpoint != "" {
		cfg.BaseEndpoint = sdkaws.String(endpoint)
	}
	return cfg, nil
}

// CustomEndpoint returns the endpoint override, if any.
func CustomEndpoint() string {
	return os.Getenv("AWS_ENDPOINT")
}

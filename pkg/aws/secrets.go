package aws

import (
	"context"
	"encoding/json"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsClient reads credential bundles from Secrets Manager. Each secret is
// a flat JSON object keyed by environment variable name, for example
// {"STRIPE_SECRET_KEY": "...", "STRIPE_WEBHOOK_SECRET": "..."}.
type SecretsClient struct {
	client *secretsmanager.Client
}

func NewSecretsClient(cfg sdkaws.Config) *SecretsClient {
	return &SecretsClient{client: secretsmanager.NewFromConfig(cfg)}
}

// GetSecretMap returns the key/value pairs stored under name.
func (s *SecretsClient) GetSecretMap(ctx context.Context, name string) (map[string]string, error) {
	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: sdkaws.String(name)})
	if err != nil {
		return nil, fmt.Errorf("get secret %s: %w", name, err)
	}
	if out.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string value", name)
	}

	var m map[string]string
	if err := json.Unmarshal([]byte(*out.SecretString), &m); err != nil {
		return nil, fmt.Errorf("secret %s is not a JSON object: %w", name, err)
	}
	return m, nil
}

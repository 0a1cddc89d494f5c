package aws

import (
	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// NewDynamoDBClient returns a DynamoDB client for the shared AWS config.
func NewDynamoDBClient(cfg sdkaws.Config) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg)
}

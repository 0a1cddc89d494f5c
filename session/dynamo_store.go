package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the subset of the DynamoDB client the store calls.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoStore keeps sessions in a table keyed by session_id. expires_at is an
// epoch-seconds attribute meant to be the table's TTL attribute; DynamoDB
// deletes lazily, so expiry is also checked on read.
type DynamoStore struct {
	client DynamoAPI
	table  string
	now    func() time.Time
}

func NewDynamoStore(client DynamoAPI, table string) *DynamoStore {
	return &DynamoStore{client: client, table: table, now: time.Now}
}

type ddbSession struct {
	SessionID string `dynamodbav:"session_id"`
	Data      string `dynamodbav:"data"`
	ExpiresAt int64  `dynamodbav:"expires_at"`
}

func (s *DynamoStore) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"session_id": &types.AttributeValueMemberS{Value: id}}
}

func (s *DynamoStore) Get(ctx context.Context, id string) (*Data, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &s.table,
		Key:            s.key(id),
		ConsistentRead: boolPtr(true),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	var item ddbSession
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if item.ExpiresAt > 0 && item.ExpiresAt <= s.now().Unix() {
		return nil, ErrNotFound
	}

	var data Data
	if err := json.Unmarshal([]byte(item.Data), &data); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &data, nil
}

func (s *DynamoStore) Set(ctx context.Context, id string, data *Data, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	item, err := attributevalue.MarshalMap(ddbSession{
		SessionID: id,
		Data:      string(raw),
		ExpiresAt: s.now().Add(ttl).Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &s.table, Item: item}); err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

func (s *DynamoStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{TableName: &s.table, Key: s.key(id)})
	if err != nil {
		return fmt.Errorf("dynamodb DeleteItem failed: %w", err)
	}
	return nil
}

func boolPtr(b bool) *bool { return &b }

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/models"
	"github.com/redis/go-redis/v9"
)

// ProductCache keeps recently read products by id.
type ProductCache interface {
	Get(ctx context.Context, id uint) (*models.Product, bool)
	Set(ctx context.Context, product *models.Product)
	Invalidate(ctx context.Context, id uint)
}

// RedisProductCache stores products as JSON under product:<id>. Cache errors
// are treated as misses.
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProductCache(client *redis.Client, ttl time.Duration) *RedisProductCache {
	return &RedisProductCache{client: client, ttl: ttl}
}

func productKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

func (c *RedisProductCache) Get(ctx context.Context, id uint) (*models.Product, bool) {
	raw, err := c.client.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var p models.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (c *RedisProductCache) Set(ctx context.Context, product *models.Product) {
	raw, err := json.Marshal(product)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, productKey(product.ID), raw, c.ttl).Err()
}

func (c *RedisProductCache) Invalidate(ctx context.Context, id uint) {
	_ = c.client.Del(ctx, productKey(id)).Err()
}

// noopCache is used when no cache is configured.
type noopCache struct{}

func (noopCache) Get(context.Context, uint) (*models.Product, bool) { return nil, false }
func (noopCache) Set(context.Context, *models.Product)              {}
func (noopCache) Invalidate(context.Context, uint)                  {}

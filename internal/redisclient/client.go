package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rewardplay-bot/internal/models"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client and checks the connection
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func productKey(catalog models.Catalog, id string) string {
	return fmt.Sprintf("product:%s:%s", catalog, id)
}

// GetProduct returns the cached product. found is false on a cache miss.
func (c *Client) GetProduct(ctx context.Context, catalog models.Catalog, id string) (product *models.Product, found bool, err error) {
	raw, err := c.rdb.Get(ctx, productKey(catalog, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get product: %w", err)
	}

	var p models.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false, fmt.Errorf("decode cached product: %w", err)
	}
	return &p, true, nil
}

// SetProduct caches a product for ttl
func (c *Client) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	raw, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("encode product: %w", err)
	}
	return c.rdb.Set(ctx, productKey(product.Catalog, product.ID), raw, ttl).Err()
}

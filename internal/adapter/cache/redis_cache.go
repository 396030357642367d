package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/equityflow/order-engine/internal/domain"
	"github.com/equityflow/order-engine/internal/port"
)

// RedisCache publishes per-user portfolio snapshots with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ port.PortfolioCache = (*RedisCache)(nil)

func NewRedisCache(addr, password string, db int, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{client: rdb, ttl: ttl}
}

func key(userID string) string { return "pf:" + userID }

func (c *RedisCache) SetPortfolio(ctx context.Context, userID string, holdings []domain.Holding) error {
	b, err := json.Marshal(holdings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(userID), b, c.ttl).Err()
}

func (c *RedisCache) GetPortfolio(ctx context.Context, userID string) ([]domain.Holding, error) {
	b, err := c.client.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var holdings []domain.Holding
	if err := json.Unmarshal(b, &holdings); err != nil {
		return nil, err
	}
	return holdings, nil
}

func (c *RedisCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, key(userID)).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

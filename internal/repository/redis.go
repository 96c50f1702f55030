package repository

import (
	"context"
	"fmt"
	"time"

	"innkeep/internal/config"

	"github.com/redis/go-redis/v9"
)

const roomsCacheKey = "innkeep:rooms"

// RedisRoomsCache keeps the serialized rooms listing in redis.
type RedisRoomsCache struct {
	client *redis.Client
}

// NewRedisClient builds a redis client from config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisRoomsCache(client *redis.Client) *RedisRoomsCache {
	return &RedisRoomsCache{client: client}
}

// Get returns the cached payload, or nil on a miss.
func (c *RedisRoomsCache) Get(ctx context.Context) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	val, err := c.client.Get(ctx, roomsCacheKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rooms from redis: %w", err)
	}
	return val, nil
}

func (c *RedisRoomsCache) Set(ctx context.Context, payload []byte, ttl time.Duration) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := c.client.Set(ctx, roomsCacheKey, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set rooms in redis: %w", err)
	}
	return nil
}

func (c *RedisRoomsCache) Clear(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := c.client.Del(ctx, roomsCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to delete rooms from redis: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"sync/atomic"
	"time"

	"innkeep/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverRoomsCache prefers the primary (redis) cache and falls back to the
// in-memory one when the primary errors; it retries the primary after a
// minute.
type FailoverRoomsCache struct {
	primary   domain.RoomsCache
	fallback  domain.RoomsCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	downSince atomic.Int64
}

func NewFailoverRoomsCache(primary, fallback domain.RoomsCache, logger *zerolog.Logger) *FailoverRoomsCache {
	return &FailoverRoomsCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (c *FailoverRoomsCache) usePrimary() bool {
	if !c.isDown.Load() {
		return true
	}
	return time.Since(time.Unix(c.downSince.Load(), 0)) > time.Minute
}

func (c *FailoverRoomsCache) markDown(err error) {
	if c.logger != nil {
		c.logger.Error().Err(err).Msg("primary rooms cache failed, falling back to memory")
	}
	c.isDown.Store(true)
	c.downSince.Store(time.Now().Unix())
}

func (c *FailoverRoomsCache) Get(ctx context.Context) ([]byte, error) {
	if c.usePrimary() {
		payload, err := c.primary.Get(ctx)
		if err == nil {
			c.isDown.Store(false)
			return payload, nil
		}
		c.markDown(err)
	}
	return c.fallback.Get(ctx)
}

func (c *FailoverRoomsCache) Set(ctx context.Context, payload []byte, ttl time.Duration) error {
	_ = c.fallback.Set(ctx, payload, ttl)
	if c.usePrimary() {
		if err := c.primary.Set(ctx, payload, ttl); err != nil {
			c.markDown(err)
			return nil
		}
		c.isDown.Store(false)
	}
	return nil
}

func (c *FailoverRoomsCache) Clear(ctx context.Context) error {
	_ = c.fallback.Clear(ctx)
	if c.usePrimary() {
		if err := c.primary.Clear(ctx); err != nil {
			c.markDown(err)
		}
	}
	return nil
}

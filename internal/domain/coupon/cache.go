package coupon

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const cacheKeyPrefix = "coupon:code:"

// Cache is a read-through Redis cache for active coupons keyed by code.
// Live POS validation re-checks the same code repeatedly while the cashier
// types, so the hot path avoids hitting Postgres each time. A nil client
// degrades every lookup to a miss.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context, code string) (*Coupon, bool) {
	if c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, cacheKeyPrefix+code).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("code", code).Msg("coupon cache read failed")
		}
		return nil, false
	}

	var coupon Coupon
	if err := json.Unmarshal(data, &coupon); err != nil {
		log.Warn().Err(err).Str("code", code).Msg("coupon cache entry corrupt, dropping")
		c.client.Del(ctx, cacheKeyPrefix+code)
		return nil, false
	}
	return &coupon, true
}

func (c *Cache) Set(ctx context.Context, coupon *Coupon) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(coupon)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+coupon.Code, data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("code", coupon.Code).Msg("coupon cache write failed")
	}
}

func (c *Cache) Invalidate(ctx context.Context, code string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, cacheKeyPrefix+code).Err(); err != nil {
		log.Warn().Err(err).Str("code", code).Msg("coupon cache invalidation failed")
	}
}

// Package cache provides the Redis-backed session cart cache. The cache is
// strictly an accelerator: every miss or failure falls back to the document
// store.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/foodlavka/shop-api/internal/domain/cart"
)

var _ cart.SessionCache = (*RedisCartCache)(nil)

const (
	cartBaseTTL   = 15 * time.Minute
	cartTTLJitter = 5 * time.Minute
)

// RedisCartCache caches carts by session id with a jittered TTL so entries
// do not expire in lockstep.
type RedisCartCache struct {
	client *redis.Client
}

// NewRedisCartCache returns a cache backed by the given Redis client.
func NewRedisCartCache(client *redis.Client) *RedisCartCache {
	return &RedisCartCache{client: client}
}

// Get returns the cached cart for the session, or cart.ErrCacheMiss.
func (r *RedisCartCache) Get(ctx context.Context, sessionID string) (*cart.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cart.ErrCacheMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis get")
	}

	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "unmarshal cached cart")
	}
	return &c, nil
}

// Set stores the cart under its session key.
func (r *RedisCartCache) Set(ctx context.Context, sessionID string, c *cart.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal cart")
	}

	ttl := cartBaseTTL + time.Duration(rand.Int63n(int64(cartTTLJitter)))
	if err := r.client.Set(ctx, cartKey(sessionID), data, ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

// Delete drops the session's cache entry.
func (r *RedisCartCache) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return errors.Wrap(err, "redis del")
	}
	return nil
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

// Nop is the cache used when Redis is not configured. Get always misses.
type Nop struct{}

func (Nop) Get(context.Context, string) (*cart.Cart, error) { return nil, cart.ErrCacheMiss }

func (Nop) Set(context.Context, string, *cart.Cart) error { return nil }

func (Nop) Delete(context.Context, string) error { return nil }

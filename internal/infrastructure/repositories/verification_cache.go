package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/caresync/authsvc/domain"
)

// VerificationCacheImpl implements domain.VerificationCache using Redis.
// Redis owns the TTL eviction; this subsystem never expires codes itself.
type VerificationCacheImpl struct {
	client *redis.Client
	prefix string
}

// NewVerificationCache creates a new Redis-backed verification cache
func NewVerificationCache(client *redis.Client) domain.VerificationCache {
	return &VerificationCacheImpl{
		client: client,
		prefix: "verification:",
	}
}

// Get implements domain.VerificationCache. An absent or evicted key
// surfaces as the code-expired domain error.
func (c *VerificationCacheImpl) Get(ctx context.Context, key string) (string, error) {
	code, err := c.client.Get(ctx, c.prefix+key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", domain.ErrCodeExpired
		}
		return "", err
	}
	return code, nil
}

// Set implements domain.VerificationCache
func (c *VerificationCacheImpl) Set(ctx context.Context, key, code string, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, code, ttl).Err()
}

// Delete implements domain.VerificationCache
func (c *VerificationCacheImpl) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}

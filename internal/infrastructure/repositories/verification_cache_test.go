package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caresync/authsvc/domain"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, domain.VerificationCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewVerificationCache(client)
}

func TestVerificationCacheRoundTrip(t *testing.T) {
	_, cache := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "setPassword:doc@clinic.test", "123456", 5*time.Minute))

	code, err := cache.Get(ctx, "setPassword:doc@clinic.test")
	require.NoError(t, err)
	assert.Equal(t, "123456", code)

	require.NoError(t, cache.Delete(ctx, "setPassword:doc@clinic.test"))

	_, err = cache.Get(ctx, "setPassword:doc@clinic.test")
	assert.ErrorIs(t, err, domain.ErrCodeExpired)
}

func TestVerificationCacheMissingKey(t *testing.T) {
	_, cache := setupTestRedis(t)

	_, err := cache.Get(context.Background(), "resetPassword:nobody@clinic.test")
	assert.ErrorIs(t, err, domain.ErrCodeExpired)
}

func TestVerificationCacheTTLEviction(t *testing.T) {
	mr, cache := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "verify:doc@clinic.test", "123456", 5*time.Minute))

	mr.FastForward(5*time.Minute + time.Second)

	_, err := cache.Get(ctx, "verify:doc@clinic.test")
	assert.ErrorIs(t, err, domain.ErrCodeExpired)
}

func TestVerificationCacheKeysAreIsolated(t *testing.T) {
	_, cache := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "setPassword:doc@clinic.test", "111111", time.Minute))
	require.NoError(t, cache.Set(ctx, "resetPassword:doc@clinic.test", "222222", time.Minute))

	code, err := cache.Get(ctx, "setPassword:doc@clinic.test")
	require.NoError(t, err)
	assert.Equal(t, "111111", code)

	code, err = cache.Get(ctx, "resetPassword:doc@clinic.test")
	require.NoError(t, err)
	assert.Equal(t, "222222", code)
}

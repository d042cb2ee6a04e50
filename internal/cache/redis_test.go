package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/carrental/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisCache(t *testing.T) {
	c := NewRedisCache(config.RedisConfig{Addr: "localhost:6379"}, time.Minute)
	defer c.Close()

	assert.NotNil(t, c)
	assert.Equal(t, time.Minute, c.carTypesTTL)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "cache:car_types", carTypesKey())
	assert.Equal(t, "lock:booking:17", bookingLockKey(17))
}

func TestRedisCache_UnreachableServerReturnsError(t *testing.T) {
	c := NewRedisCache(config.RedisConfig{Addr: "127.0.0.1:1"}, time.Minute)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := c.GetCarTypes(ctx)
	assert.Error(t, err)

	token, ok, err := c.AcquireBookingLock(ctx, 1, time.Second)
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Empty(t, token)
}

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	c := NewRedisCache(config.RedisConfig{Addr: srv.Addr()}, time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c, srv
}

func TestRedisCache_BookingLock(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()

	token, ok, err := c.AcquireBookingLock(ctx, 7, 30*time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEmpty(t, token)

	_, ok, err = c.AcquireBookingLock(ctx, 7, 30*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.ReleaseBookingLock(ctx, 7, token))
	assert.False(t, srv.Exists(bookingLockKey(7)))

	_, ok, err = c.AcquireBookingLock(ctx, 7, 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisCache_ExpiredLockIsNotReleasedByFormerHolder(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()

	first, ok, err := c.AcquireBookingLock(ctx, 7, time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	srv.FastForward(2 * time.Second)

	second, ok, err := c.AcquireBookingLock(ctx, 7, 30*time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEqual(t, first, second)

	require.NoError(t, c.ReleaseBookingLock(ctx, 7, first))

	held, err := srv.Get(bookingLockKey(7))
	require.NoError(t, err)
	assert.Equal(t, second, held)
}

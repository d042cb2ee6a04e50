package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/carrental/config"
	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseLockScript deletes the lock only while it still holds the caller's token.
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisCache struct {
	client      redis.UniversalClient
	carTypesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, carTypesTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		carTypesTTL,
	)
}

func NewRedisCacheWithClient(client redis.UniversalClient, carTypesTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, carTypesTTL: carTypesTTL}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetCarTypes returns nil, nil on a cache miss.
func (c *RedisCache) GetCarTypes(ctx context.Context) ([]domain.CarType, error) {
	data, err := c.client.Get(ctx, carTypesKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var types []domain.CarType
	if err := json.Unmarshal(data, &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (c *RedisCache) SetCarTypes(ctx context.Context, types []domain.CarType) error {
	payload, err := json.Marshal(types)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, carTypesKey(), payload, c.carTypesTTL).Err()
}

func (c *RedisCache) InvalidateCarTypes(ctx context.Context) error {
	return c.client.Del(ctx, carTypesKey()).Err()
}

// AcquireBookingLock returns the token that must be handed back to ReleaseBookingLock.
func (c *RedisCache) AcquireBookingLock(ctx context.Context, bookingID int64, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := c.client.SetNX(ctx, bookingLockKey(bookingID), token, ttl).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

func (c *RedisCache) ReleaseBookingLock(ctx context.Context, bookingID int64, token string) error {
	return releaseLockScript.Run(ctx, c.client, []string{bookingLockKey(bookingID)}, token).Err()
}

func carTypesKey() string {
	return "cache:car_types"
}

func bookingLockKey(bookingID int64) string {
	return fmt.Sprintf("lock:booking:%d", bookingID)
}

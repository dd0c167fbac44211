// Package cache backs the calendar cache and the settlement lock with Redis.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"kilnbook/internal/pkg/errs"
	"kilnbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	calendarKeyPrefix = "kilnbook:calendar:"
	settlementLockKey = "kilnbook:settlement:lock"
)

// RedisMonthCache stores month bookings as JSON. Any Redis error counts as
// a miss so reads fall through to Postgres.
type RedisMonthCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisMonthCache(client *redis.Client, ttl time.Duration) *RedisMonthCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisMonthCache{client: client, ttl: ttl}
}

func calendarKey(key shared.MonthKey) string {
	return calendarKeyPrefix + key.String()
}

func (c *RedisMonthCache) Load(ctx context.Context, key shared.MonthKey, dst any) bool {
	raw, err := c.client.Get(ctx, calendarKey(key)).Bytes()
	if err != nil {
		if !errs.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "calendar cache read failed", "key", key.String(), "error", err.Error())
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		slog.WarnContext(ctx, "calendar cache entry unreadable", "key", key.String(), "error", err.Error())
		return false
	}
	return true
}

func (c *RedisMonthCache) Store(ctx context.Context, key shared.MonthKey, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, calendarKey(key), raw, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "calendar cache write failed", "key", key.String(), "error", err.Error())
	}
}

func (c *RedisMonthCache) Invalidate(ctx context.Context, key shared.MonthKey) {
	if err := c.client.Del(ctx, calendarKey(key)).Err(); err != nil {
		slog.WarnContext(ctx, "calendar cache invalidation failed", "key", key.String(), "error", err.Error())
	}
}

// releaseLock deletes the lock only while it still carries our token.
var releaseLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLocker serializes settlement runs across instances.
type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) TryLock(ctx context.Context, ttl time.Duration) (func(), error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, settlementLockKey, token, ttl).Result()
	if err != nil {
		return nil, errs.Wrap(err, "redis setnx")
	}
	if !ok {
		return nil, nil
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseLock.Run(ctx, l.client, []string{settlementLockKey}, token).Err(); err != nil {
			slog.Warn("settlement lock release failed", "error", err.Error())
		}
	}, nil
}

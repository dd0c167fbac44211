package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"kilnbook/internal/infra/cache"
	"kilnbook/internal/pkg/config"
	"kilnbook/internal/usecase/settlement"
	"kilnbook/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRedisClient,
		NewMonthCache,
		NewSettlementLocker,
	),
)

// NewRedisClient returns nil when REDIS_ADDR is unset or the server does not
// answer; callers fall back to the in-process implementations.
func NewRedisClient(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, running without cache and lock", "addr", cfg.Redis.Addr, "error", err.Error())
		_ = client.Close()
		return nil
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	return client
}

func NewMonthCache(client *redis.Client, cfg config.Config) shared.MonthCache {
	if client == nil {
		return shared.NewNoopMonthCache()
	}
	return cache.NewRedisMonthCache(client, cfg.Redis.CacheTTL)
}

func NewSettlementLocker(client *redis.Client) settlement.Locker {
	if client == nil {
		return settlement.NewLocalLocker()
	}
	return cache.NewRedisLocker(client)
}

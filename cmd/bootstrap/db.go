package bootstrap

import (
	"context"

	"kilnbook/internal/infra/db"
	"kilnbook/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
	),
)

// NewDB opens the reservation database; the pool is closed after every
// other component has stopped.
func NewDB(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	pool, closePool, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.StopHook(func(context.Context) error {
		closePool()
		return nil
	}))
	return pool, nil
}

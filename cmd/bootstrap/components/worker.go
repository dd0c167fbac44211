package components

import (
	"context"

	"kilnbook/internal/pkg/clock"
	"kilnbook/internal/pkg/config"
	"kilnbook/internal/usecase/notification"
	"kilnbook/internal/usecase/settlement"
	"kilnbook/internal/usecase/shared"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		settlement.NewScheduler,
		NewSettlementRunner,
		func(r *settlement.Runner) settlement.Trigger { return r },
		NewDispatcher,
	),
	fx.Invoke(startWorkers),
)

func NewSettlementRunner(scheduler settlement.Scheduler, locker settlement.Locker, clk clock.Clock, cfg config.Config) (*settlement.Runner, error) {
	loc, err := cfg.Settlement.Location()
	if err != nil {
		return nil, err
	}
	hour, minute, err := cfg.Settlement.RunAtClock()
	if err != nil {
		return nil, err
	}

	return settlement.NewRunner(scheduler, locker, clk, settlement.RunnerConfig{
		Enabled: cfg.Settlement.Enabled,
		Hour:    hour,
		Minute:  minute,
		Loc:     loc,
		Timeout: cfg.Settlement.Timeout,
		LockTTL: cfg.Settlement.LockTTL,
	}), nil
}

func NewDispatcher(uow shared.UnitOfWork, pub notification.Publisher, tk *shared.Timekeeper, metrics notification.Metrics, cfg config.Config) *notification.Dispatcher {
	return notification.NewDispatcher(uow, pub, tk, metrics, cfg.Notify.BatchSize, cfg.Notify.PollInterval)
}

func startWorkers(lc fx.Lifecycle, runner *settlement.Runner, dispatcher *notification.Dispatcher) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			runner.Start()
			dispatcher.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			runner.Stop()
			dispatcher.Stop()
			return nil
		},
	})
}

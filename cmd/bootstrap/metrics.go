package bootstrap

import (
	"kilnbook/internal/infra/metrics"
	"kilnbook/internal/usecase/notification"
	"kilnbook/internal/usecase/settlement"

	"go.uber.org/fx"
)

var MetricsModule = fx.Module("metrics",
	fx.Provide(
		metrics.NewPrometheus,
		func(p *metrics.Prometheus) settlement.Metrics { return p },
		func(p *metrics.Prometheus) notification.Metrics { return p },
	),
)

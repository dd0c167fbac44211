package components

import (
	"kilnbook/internal/handler"
	"kilnbook/internal/handler/api"
	"kilnbook/internal/handler/middleware"
	"kilnbook/internal/infra/metrics"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewCalendarHandler,
		api.NewResourceHandler,
		api.NewTariffHandler,
		api.NewReportHandler,
		api.NewSettlementHandler,
		middleware.NewAuthMiddleware,
		newHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func newHandlers(
	calendar *api.CalendarHandler,
	resource *api.ResourceHandler,
	tariff *api.TariffHandler,
	report *api.ReportHandler,
	settlement *api.SettlementHandler,
	prom *metrics.Prometheus,
) handler.Handlers {
	return handler.Handlers{
		Calendar:   calendar,
		Resource:   resource,
		Tariff:     tariff,
		Report:     report,
		Settlement: settlement,
		Metrics:    prom.Handler(),
	}
}

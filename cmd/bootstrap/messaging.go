package bootstrap

import (
	"context"
	"log/slog"

	"kilnbook/internal/infra/messaging"
	"kilnbook/internal/pkg/config"
	"kilnbook/internal/usecase/notification"

	"go.uber.org/fx"
)

var MessagingModule = fx.Module("messaging",
	fx.Provide(
		NewPublisher,
	),
)

func NewPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) notification.Publisher {
	if cfg.Notify.AMQPURL == "" {
		logger.Info("AMQP_URL not set, notifications are logged only")
		return messaging.NewLogPublisher()
	}

	pub := messaging.NewAMQPPublisher(cfg.Notify.AMQPURL)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return pub.Close()
		},
	})
	return pub
}

package runs

import (
	"context"

	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"runs",
		logger.WithNamedLogger("runs"),
		fx.Provide(NewService),
		fx.Invoke(func(s *Service, logger *zap.Logger, lc fx.Lifecycle) {
			lc.Append(fx.Hook{
				OnStop: func(_ context.Context) error {
					logger.Info("stopping background runs", zap.Strings("busy", s.Busy()))
					s.Stop()
					return nil
				},
			})
		}),
	)
}

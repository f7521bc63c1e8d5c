package openapifx

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the documentation Handler. It needs a *swag.Spec, which
// the application supplies from its generated docs package.
func Module() fx.Option {
	return fx.Module(
		"openapifx",
		logger.WithNamedLogger("openapifx"),
		fx.Provide(New),
		fx.Invoke(func(config Config, logger *zap.Logger) {
			if !config.Enabled {
				logger.Info("API documentation disabled")
			}
		}),
	)
}

package cvs

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

// Module expects a prometheus.Registerer in the graph.
func Module() fx.Option {
	return fx.Module(
		"cvs",
		logger.WithNamedLogger("cvs"),
		fx.Provide(NewMetrics, fx.Private),
		fx.Provide(NewExecutor),
	)
}

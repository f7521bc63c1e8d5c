package internal

import (
	"context"

	"github.com/capcom6/go-infra-fx/validator"
	"github.com/cvsbridge/cvsbridge/internal/config"
	"github.com/cvsbridge/cvsbridge/internal/cvs"
	"github.com/cvsbridge/cvsbridge/internal/journal"
	"github.com/cvsbridge/cvsbridge/internal/process"
	"github.com/cvsbridge/cvsbridge/internal/runs"
	"github.com/cvsbridge/cvsbridge/internal/server"
	"github.com/cvsbridge/cvsbridge/internal/session"
	"github.com/cvsbridge/cvsbridge/pkg/badgerfx"
	"github.com/cvsbridge/cvsbridge/pkg/openapifx"
	"github.com/go-core-fx/fiberfx"
	"github.com/go-core-fx/healthfx"
	"github.com/go-core-fx/logger"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Run() {
	fx.New(
		// CORE MODULES
		logger.Module(),
		logger.WithFxDefaultLogger(),
		badgerfx.Module(),
		healthfx.Module(),
		fiberfx.Module(),
		validator.Module,
		openapifx.Module(),
		//
		// APP MODULES
		config.Module(),
		server.Module(),
		//
		// BUSINESS MODULES
		fx.Provide(func() healthfx.Version { return healthfx.Version{Version: "0.1.0", ReleaseID: 1} }),
		fx.Provide(func() prometheus.Registerer { return prometheus.DefaultRegisterer }),
		process.Module(),
		session.Module(),
		cvs.Module(),
		journal.Module(),
		runs.Module(),
		//
		// LIFECYCLE MANAGEMENT
		fx.Invoke(func(lc fx.Lifecycle, logger *zap.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					logger.Info("🚀 cvsbridge starting up")
					return nil
				},
				OnStop: func(_ context.Context) error {
					logger.Info("🛑 cvsbridge shutting down gracefully")
					return nil
				},
			})
		}),
	).Run()
}

package config

import (
	"github.com/cvsbridge/cvsbridge/internal/cvs"
	"github.com/cvsbridge/cvsbridge/internal/journal"
	"github.com/cvsbridge/cvsbridge/internal/process"
	"github.com/cvsbridge/cvsbridge/internal/runs"
	"github.com/cvsbridge/cvsbridge/internal/session"
	"github.com/cvsbridge/cvsbridge/pkg/badgerfx"
	"github.com/cvsbridge/cvsbridge/pkg/openapifx"
	"github.com/go-core-fx/fiberfx"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"config",
		fx.Provide(New),
		projections(),
	)
}

// Supply provides an already loaded cfg instead of reading it again.
func Supply(cfg Config) fx.Option {
	return fx.Module(
		"config",
		fx.Supply(cfg),
		projections(),
	)
}

func projections() fx.Option {
	return fx.Options(
		fx.Provide(func(cfg Config) fiberfx.Config {
			return fiberfx.Config{
				Address:     cfg.HTTP.Address,
				ProxyHeader: cfg.HTTP.ProxyHeader,
				Proxies:     cfg.HTTP.Proxies,
			}
		}),
		fx.Provide(func(cfg Config) openapifx.Config {
			return openapifx.Config{
				Enabled:    cfg.HTTP.OpenAPI.Enabled,
				PublicHost: cfg.HTTP.OpenAPI.PublicHost,
				PublicPath: cfg.HTTP.OpenAPI.PublicPath,
			}
		}),
		fx.Provide(func(cfg Config) badgerfx.Config {
			return badgerfx.Config{
				Dir:      cfg.Storage.DataDir,
				InMemory: cfg.Storage.InMemory,
			}
		}),
		fx.Provide(func(cfg Config) cvs.Config {
			return cvs.Config{
				Binary:           cfg.CVS.Binary,
				DefaultRoot:      cfg.CVS.DefaultRoot,
				ProgressInterval: cfg.CVS.ProgressInterval,
				ProgressWidth:    cfg.CVS.ProgressWidth,
				BackupSuffix:     cfg.CVS.BackupSuffix,
				CleanCopySuffix:  cfg.CVS.CleanCopySuffix,
			}
		}),
		fx.Provide(func(cfg Config) cvs.PathResolver {
			return cvs.NewWorkspaceResolver(cfg.CVS.Workspaces...)
		}),
		fx.Provide(func(cfg Config) process.Config {
			return process.Config{
				KillAfter: cfg.CVS.KillAfter,
			}
		}),
		fx.Provide(func(cfg Config) session.Config {
			return session.Config{
				Persist: cfg.Session.Persist,
			}
		}),
		fx.Provide(func(cfg Config) journal.Config {
			return journal.Config{
				Retain: cfg.Runs.HistoryLimit,
			}
		}),
		fx.Provide(func(cfg Config) runs.Config {
			return runs.Config{
				LogLimit: cfg.Runs.LogLimit,
			}
		}),
	)
}

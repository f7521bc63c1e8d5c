package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/cvsbridge/cvsbridge/internal/config"
	"github.com/cvsbridge/cvsbridge/internal/cvs"
	"github.com/cvsbridge/cvsbridge/internal/journal"
	"github.com/cvsbridge/cvsbridge/internal/process"
	"github.com/cvsbridge/cvsbridge/internal/runs"
	"github.com/cvsbridge/cvsbridge/internal/session"
	"github.com/cvsbridge/cvsbridge/pkg/badgerfx"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// env is the part of the application graph a command needs.
type env struct {
	config   config.Config
	location cvs.Location
	runs     *runs.Service

	logger *zap.Logger
	app    *fx.App
}

// open loads the configuration, applies the global flags and starts the
// services. Callers must close the returned env.
func (c *cli) open(ctx context.Context) (*env, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err //nolint:wrapcheck //already wrapped
	}

	workDir, err := c.workDir()
	if err != nil {
		return nil, err
	}
	workDir, err = filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	c.apply(&cfg)

	logger := zap.NewNop()
	if c.flags.verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	e := &env{
		config:   cfg,
		location: cvs.Location{Root: cfg.CVS.DefaultRoot, WorkDir: workDir},

		logger: logger,
	}

	runner := fx.Options(process.Module())
	if c.options.Runner != nil {
		runner = fx.Provide(func() process.Runner { return c.options.Runner })
	}

	e.app = fx.New(
		fx.NopLogger,
		fx.Supply(logger),
		config.Supply(cfg),
		fx.Provide(func() prometheus.Registerer { return prometheus.NewRegistry() }),
		badgerfx.Module(),
		runner,
		session.Module(),
		cvs.Module(),
		journal.Module(),
		runs.Module(),
		fx.Populate(&e.runs),
	)
	if err = e.app.Err(); err != nil {
		return nil, fmt.Errorf("failed to build application: %w", err)
	}

	if err = e.app.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start application: %w", err)
	}

	return e, nil
}

// apply lets the global flags override the loaded configuration.
func (c *cli) apply(cfg *config.Config) {
	if c.flags.root != "" {
		cfg.CVS.DefaultRoot = c.flags.root
	}
	if c.flags.binary != "" {
		cfg.CVS.Binary = c.flags.binary
	}
	if c.flags.dataDir != "" {
		cfg.Storage.DataDir = c.flags.dataDir
	}

	cfg.Storage.InMemory = cfg.Storage.InMemory || c.flags.ephemeral
	// a fresh process per command only remembers the last comment on disk
	cfg.Session.Persist = !cfg.Storage.InMemory
}

func (e *env) close() {
	if err := e.app.Stop(context.Background()); err != nil {
		e.logger.Error("failed to stop application", zap.Error(err))
	}
	_ = e.logger.Sync()
}

// relative converts a command line path to one relative to the working
// copy. Relative arguments are taken as they are.
func (e *env) relative(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(filepath.Clean(path)), nil
	}

	//nolint:wrapcheck //already wrapped
	return cvs.NewWorkspaceResolver(e.location.WorkDir).RelativeTo(path, e.location.WorkDir)
}

func (e *env) relativeAll(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := e.relative(p)
		if err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	return out, nil
}

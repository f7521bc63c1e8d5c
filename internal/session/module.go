package session

import (
	"context"
	"errors"

	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"session",
		logger.WithNamedLogger("session"),
		fx.Provide(NewRepository, fx.Private),
		fx.Provide(New),
		fx.Invoke(func(cfg Config, s *Session, repo *Repository, logger *zap.Logger, lc fx.Lifecycle) {
			if !cfg.Persist {
				return
			}

			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					return Attach(s, repo, logger)
				},
			})
		}),
	)
}

// Attach loads the stored comment into s and saves every later change.
func Attach(s *Session, repo *Repository, logger *zap.Logger) error {
	comment, err := repo.LastComment()
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return err
	default:
		s.restore(comment)
		logger.Info("last commit comment restored")
	}

	s.setOnChange(func(comment string) {
		if saveErr := repo.SaveLastComment(comment); saveErr != nil {
			logger.Error("failed to persist last commit comment", zap.Error(saveErr))
		}
	})

	return nil
}

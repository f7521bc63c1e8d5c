package journal

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Config struct {
	// Retain is how many finished records are kept; 0 keeps everything.
	Retain int
}

type Service struct {
	config  Config
	records *Repository

	logger *zap.Logger
}

func NewService(config Config, records *Repository, logger *zap.Logger) *Service {
	return &Service{
		config:  config,
		records: records,

		logger: logger,
	}
}

// Open stores the record of a run that is about to start.
func (s *Service) Open(ctx context.Context, draft RecordDraft) (*Record, error) {
	record, err := s.records.Create(ctx, &draft)
	if err != nil {
		s.logger.Error("failed to create run record", zap.Error(err))
		return nil, err
	}

	s.logger.Debug("run record created", zap.String("id", record.ID.String()), zap.String("kind", string(record.Kind)))
	return record, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, updater func(*Record) error) error {
	if err := s.records.Update(ctx, id, updater); err != nil {
		s.logger.Error("failed to update run record", zap.String("id", id.String()), zap.Error(err))
		return err
	}

	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	s.logger.Debug("getting run record", zap.String("id", id.String()))

	//nolint:wrapcheck //already wrapped
	return s.records.GetByID(ctx, id)
}

// List returns the newest records, optionally for one working copy only.
func (s *Service) List(ctx context.Context, workDir string, limit int) ([]Record, error) {
	s.logger.Debug("listing run records", zap.String("work_dir", workDir), zap.Int("limit", limit))

	var (
		records []Record
		err     error
	)
	if workDir == "" {
		records, err = s.records.List(ctx, limit)
	} else {
		records, err = s.records.ListByWorkDir(ctx, workDir, limit)
	}
	if err != nil {
		s.logger.Error("failed to list run records", zap.Error(err))
		return nil, err
	}

	return records, nil
}

// Prune applies the retention limit.
func (s *Service) Prune(ctx context.Context) {
	if s.config.Retain <= 0 {
		return
	}

	removed, err := s.records.Prune(ctx, s.config.Retain)
	if err != nil {
		s.logger.Error("failed to prune run records", zap.Error(err))
		return
	}

	if removed > 0 {
		s.logger.Info("run records pruned", zap.Int("removed", removed))
	}
}

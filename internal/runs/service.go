// Package runs executes operations on behalf of API and CLI callers and
// keeps a journal record of each of them.
package runs

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/cvsbridge/cvsbridge/internal/changeset"
	"github.com/cvsbridge/cvsbridge/internal/cvs"
	"github.com/cvsbridge/cvsbridge/internal/journal"
	"github.com/cvsbridge/cvsbridge/internal/session"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type run struct {
	id      uuid.UUID
	workDir string
	ctx     context.Context
	cancel  context.CancelFunc
	rec     *recorder
	done    chan struct{}

	persistMu  sync.Mutex
	completed  bool
	persistErr error
}

// keptMessages bounds the messages of a record whose output could not be
// stored.
const keptMessages = 100

const outputDiscarded = "Output of the operation was too large to keep"

// Service allows one mutating run per working copy at a time. Read-only
// operations are never blocked.
type Service struct {
	config   Config
	executor *cvs.Executor
	journal  *journal.Service
	session  *session.Session

	mu   sync.Mutex
	live map[uuid.UUID]*run
	busy map[string]uuid.UUID

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *zap.Logger
}

func NewService(
	config Config,
	executor *cvs.Executor,
	journal *journal.Service,
	session *session.Session,
	logger *zap.Logger,
) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	return &Service{
		config:   config,
		executor: executor,
		journal:  journal,
		session:  session,

		live: make(map[uuid.UUID]*run),
		busy: make(map[string]uuid.UUID),

		ctx:    ctx,
		cancel: cancel,

		logger: logger,
	}
}

// Execute runs op to completion and returns its record. Failures of the
// operation itself are part of the record; only invalid input is also
// returned as ErrRejected next to the record.
func (s *Service) Execute(ctx context.Context, op cvs.Operation) (*journal.Record, error) {
	r, _, err := s.open(ctx, ctx, op)
	if err != nil {
		return nil, err
	}

	outcome := s.execute(r, op)
	if r.persistErr != nil {
		return nil, r.persistErr
	}

	record, err := s.journal.Get(context.WithoutCancel(ctx), r.id)
	if err != nil {
		return nil, err //nolint:wrapcheck //already wrapped
	}

	if errors.Is(outcome.Err, cvs.ErrInvalidPath) || errors.Is(outcome.Err, cvs.ErrInvalidOperation) {
		return record, fmt.Errorf("%w: %w", ErrRejected, outcome.Err)
	}

	return record, nil
}

// Launch starts op in the background and returns its initial record.
// Background runs are cancelled by Cancel or when the service stops.
func (s *Service) Launch(ctx context.Context, op cvs.Operation) (*journal.Record, error) {
	r, record, err := s.open(ctx, s.ctx, op)
	if err != nil {
		return nil, err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = s.execute(r, op)
	}()

	s.logger.Info("run launched", zap.String("id", r.id.String()), zap.String("kind", string(op.Kind())))

	return record, nil
}

// Cancel requests termination of a live run.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	r, ok := s.live[id]
	s.mu.Unlock()

	if !ok {
		if _, err := s.journal.Get(ctx, id); err != nil {
			return err //nolint:wrapcheck //already wrapped
		}
		return fmt.Errorf("%w: %s", ErrNotRunning, id)
	}

	s.logger.Info("cancelling run", zap.String("id", id.String()))
	r.cancel()

	return nil
}

// Get returns the record of a run. Live runs carry their current progress.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*journal.Record, error) {
	record, err := s.journal.Get(ctx, id)
	if err != nil {
		return nil, err //nolint:wrapcheck //already wrapped
	}

	s.overlay(record)

	return record, nil
}

// Wait blocks until the run is finished or ctx is done.
func (s *Service) Wait(ctx context.Context, id uuid.UUID) (*journal.Record, error) {
	s.mu.Lock()
	r, ok := s.live[id]
	s.mu.Unlock()

	if ok {
		select {
		case <-r.done:
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to wait for run: %w", ctx.Err())
		}

		if r.persistErr != nil {
			return nil, r.persistErr
		}
	}

	return s.Get(ctx, id)
}

// List returns the newest records, optionally of one working copy.
func (s *Service) List(ctx context.Context, workDir string, limit int) ([]journal.Record, error) {
	if workDir != "" {
		workDir = filepath.Clean(workDir)
	}

	records, err := s.journal.List(ctx, workDir, limit)
	if err != nil {
		return nil, err //nolint:wrapcheck //already wrapped
	}

	for i := range records {
		s.overlay(&records[i])
	}

	return records, nil
}

// Changes classifies the working copy without recording a run.
func (s *Service) Changes(ctx context.Context, loc cvs.Location) (changeset.Changeset, error) {
	//nolint:wrapcheck //already wrapped
	return s.executor.Discover(ctx, loc)
}

func (s *Service) LastComment() string {
	return s.session.LastComment()
}

// Stop cancels background runs and waits for them to finish.
func (s *Service) Stop() {
	s.cancel()
	s.wg.Wait()
}

// open registers a run of op whose context derives from base.
func (s *Service) open(ctx, base context.Context, op cvs.Operation) (*run, *journal.Record, error) {
	loc := op.Where()
	if loc.WorkDir != "" {
		loc.WorkDir = filepath.Clean(loc.WorkDir)
	}

	state := cvs.StateRunning
	if cvs.IsLongRunning(op) {
		state = cvs.StateStarting
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	mutating := !cvs.IsReadOnly(op) && loc.WorkDir != ""
	if owner, ok := s.busy[loc.WorkDir]; ok && mutating {
		return nil, nil, fmt.Errorf("%w: %s is used by run %s", ErrBusy, loc.WorkDir, owner)
	}

	record, err := s.journal.Open(ctx, journal.RecordDraft{
		Kind:      op.Kind(),
		Location:  loc,
		Target:    op.Target(),
		State:     state,
		StartedAt: time.Now(),
	})
	if err != nil {
		return nil, nil, err //nolint:wrapcheck //already wrapped
	}

	runCtx, cancel := context.WithCancel(base)
	r := &run{
		id:      record.ID,
		workDir: loc.WorkDir,
		ctx:     runCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	logger := s.logger.With(
		zap.String("run_id", r.id.String()),
		zap.String("kind", string(op.Kind())),
		zap.String("work_dir", loc.WorkDir),
	)
	r.rec = newRecorder(s.config.LogLimit, func(cvs.State) {
		s.persist(r, nil)
	}, logger)

	s.live[r.id] = r
	if mutating {
		s.busy[loc.WorkDir] = r.id
	}

	return r, record, nil
}

func (s *Service) execute(r *run, op cvs.Operation) cvs.Outcome {
	defer s.release(r)

	outcome := s.executor.Execute(r.ctx, op, r.rec.sinks())
	completedAt := time.Now()

	s.persist(r, func(rec *journal.Record) {
		rec.Complete(outcome, completedAt)
	})
	s.journal.Prune(context.Background())

	return outcome
}

// persist writes the collected state of r to its record. A non-nil finish
// completes the record; nothing is written after that. When the full record
// cannot be stored the outcome is written without the output.
func (s *Service) persist(r *run, finish func(*journal.Record)) {
	r.persistMu.Lock()
	defer r.persistMu.Unlock()

	if r.completed {
		return
	}

	err := s.journal.Update(context.Background(), r.id, func(rec *journal.Record) error {
		r.rec.fill(rec)
		if finish != nil {
			finish(rec)
		}
		return nil
	})
	if err != nil && finish != nil {
		s.logger.Warn("failed to persist run output, keeping the outcome only",
			zap.String("id", r.id.String()),
			zap.Error(err),
		)
		err = s.journal.Update(context.Background(), r.id, func(rec *journal.Record) error {
			r.rec.fill(rec)
			discardOutput(rec)
			finish(rec)
			return nil
		})
	}
	if err != nil {
		s.logger.Error("failed to persist run", zap.String("id", r.id.String()), zap.Error(err))
	}

	if finish != nil {
		r.completed = true
		if err != nil {
			r.persistErr = fmt.Errorf("failed to persist run %s: %w", r.id, err)
		}
		if dropped := r.rec.truncated(); dropped > 0 {
			s.logger.Info("run output truncated", zap.String("id", r.id.String()), zap.Int("dropped_bytes", dropped))
		}
	}
}

func discardOutput(rec *journal.Record) {
	rec.Log = nil
	rec.Diff = ""
	if len(rec.Messages) > keptMessages {
		rec.Messages = rec.Messages[len(rec.Messages)-keptMessages:]
	}
	rec.Messages = append(rec.Messages, journal.Message{
		Level: journal.LevelError,
		Text:  outputDiscarded,
		At:    time.Now(),
	})
}

func (s *Service) release(r *run) {
	s.mu.Lock()
	delete(s.live, r.id)
	if owner, ok := s.busy[r.workDir]; ok && owner == r.id {
		delete(s.busy, r.workDir)
	}
	s.mu.Unlock()

	r.cancel()
	close(r.done)
}

func (s *Service) overlay(record *journal.Record) {
	s.mu.Lock()
	r, ok := s.live[record.ID]
	s.mu.Unlock()

	if ok && !record.Finished() {
		r.rec.fill(record)
	}
}

// Busy lists the working copies with a mutating run in progress.
func (s *Service) Busy() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return lo.Keys(s.busy)
}

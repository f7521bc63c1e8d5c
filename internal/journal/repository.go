package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/cvsbridge/cvsbridge/pkg/badgerfx"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type Repository struct {
	db      *badger.DB
	records *badgerfx.Repository[*recordModel]
}

func NewRepository(db *badger.DB) *Repository {
	return &Repository{
		db: db,
		records: badgerfx.NewRepository(
			keyByID,
			func() *recordModel { return new(recordModel) },
		),
	}
}

// Create stores a new record.
func (r *Repository) Create(_ context.Context, draft *RecordDraft) (*Record, error) {
	model := newRecordModel(draft)

	err := r.db.Update(func(txn *badger.Txn) error {
		return r.records.Write(txn, model)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create run record: %w", err)
	}

	return newRecord(model), nil
}

// GetByID retrieves a record by its ID.
func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*Record, error) {
	var record *recordModel

	err := r.db.View(func(txn *badger.Txn) error {
		found, err := r.getByID(txn, id)
		if err == nil {
			record = found
		}

		return err
	})

	return newRecord(record), err
}

// Update applies updater to a stored record. The operation and its location
// cannot change.
func (r *Repository) Update(_ context.Context, id uuid.UUID, updater func(*Record) error) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		old, err := r.getByID(txn, id)
		if err != nil {
			return fmt.Errorf("failed to get run record before update: %w", err)
		}

		record := newRecord(old)
		if updErr := updater(record); updErr != nil {
			return updErr
		}

		if record.Kind != old.Kind || record.Location.WorkDir != old.WorkDir {
			return fmt.Errorf("cannot change operation of run %s", id)
		}

		model := *old
		model.apply(&record.RecordDraft)
		model.Touch()

		return r.records.Write(txn, &model)
	})
	if err != nil {
		return fmt.Errorf("failed to update run record: %w", err)
	}

	return nil
}

// Delete deletes a record.
func (r *Repository) Delete(_ context.Context, id uuid.UUID) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		delErr := r.records.Delete(txn, id.String())
		if errors.Is(delErr, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}

		return delErr
	})
	if err != nil {
		return fmt.Errorf("failed to delete run record: %w", err)
	}

	return nil
}

// List returns up to limit records, newest first. A non-positive limit
// returns everything.
func (r *Repository) List(_ context.Context, limit int) ([]Record, error) {
	var models []*recordModel

	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		models, err = r.records.List(txn, prefixByID, newestFirst(limit), limit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list run records: %w", err)
	}

	return toRecords(models), nil
}

// ListByWorkDir returns records of one working copy, newest first.
func (r *Repository) ListByWorkDir(_ context.Context, workDir string, limit int) ([]Record, error) {
	var models []*recordModel

	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		models, err = r.records.ListByIndex(txn, workDirPrefix(workDir), newestFirst(limit), limit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list run records: %w", err)
	}

	return toRecords(models), nil
}

// Prune deletes finished records older than the newest keep finished ones
// and returns how many were removed. Live records neither count nor go.
func (r *Repository) Prune(_ context.Context, keep int) (int, error) {
	var stale []*recordModel

	err := r.db.View(func(txn *badger.Txn) error {
		all, err := r.records.List(txn, prefixByID, newestFirst(0), 0)
		if err != nil {
			return err
		}

		finished := lo.Filter(all, func(m *recordModel, _ int) bool {
			return m.State.Terminal()
		})
		if len(finished) > keep {
			stale = finished[keep:]
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to list run records: %w", err)
	}

	if len(stale) == 0 {
		return 0, nil
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		for _, m := range stale {
			if delErr := r.records.Delete(txn, m.ID.String()); delErr != nil {
				return delErr
			}
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to prune run records: %w", err)
	}

	return len(stale), nil
}

func (r *Repository) getByID(txn *badger.Txn, id uuid.UUID) (*recordModel, error) {
	model, err := r.records.Read(txn, id.String())
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id.String())
	}
	if err != nil {
		return nil, err //nolint:wrapcheck //wrapped by badgerfx
	}

	return model, nil
}

func newestFirst(limit int) badger.IteratorOptions {
	opts := badger.DefaultIteratorOptions
	opts.Reverse = true
	opts.PrefetchSize = 10
	if limit > 0 && limit < opts.PrefetchSize {
		opts.PrefetchSize = limit
	}

	return opts
}

func toRecords(models []*recordModel) []Record {
	return lo.Map(models, func(m *recordModel, _ int) Record {
		return *newRecord(m)
	})
}

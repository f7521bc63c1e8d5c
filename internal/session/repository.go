package session

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const keyLastComment = "session:last_comment"

type Repository struct {
	db *badger.DB
}

func NewRepository(db *badger.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) LastComment() (string, error) {
	var comment string

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyLastComment))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get last comment: %w", err)
		}

		value, err := item.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("failed to read last comment: %w", err)
		}
		comment = string(value)

		return nil
	})

	return comment, err
}

func (r *Repository) SaveLastComment(comment string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyLastComment), []byte(comment))
	})
	if err != nil {
		return fmt.Errorf("failed to save last comment: %w", err)
	}

	return nil
}

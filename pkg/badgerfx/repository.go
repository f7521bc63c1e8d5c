package badgerfx

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Entity is a value stored under its own key plus any number of index keys
// that point back to it.
type Entity interface {
	StorageKey() string
	StorageIndexes() []string
	MarshalStorage() ([]byte, error)
	UnmarshalStorage(data []byte) error
}

type EntityFactory[T Entity] func() T

// KeyFunc maps an entity id to its storage key.
type KeyFunc func(id string) string

type Repository[T Entity] struct {
	keyOf   KeyFunc
	factory EntityFactory[T]
}

func NewRepository[T Entity](keyOf KeyFunc, factory EntityFactory[T]) *Repository[T] {
	return &Repository[T]{
		keyOf:   keyOf,
		factory: factory,
	}
}

// List returns entities stored under prefix. A positive limit stops the
// iteration early.
func (r *Repository[T]) List(txn *badger.Txn, prefix string, options badger.IteratorOptions, limit int) ([]T, error) {
	return r.iterate(txn, prefix, options, limit, func(item *badger.Item) (T, error) {
		return r.decode(item)
	})
}

// ListByIndex resolves index entries under prefix to their entities.
func (r *Repository[T]) ListByIndex(
	txn *badger.Txn,
	prefix string,
	options badger.IteratorOptions,
	limit int,
) ([]T, error) {
	return r.iterate(txn, prefix, options, limit, func(item *badger.Item) (T, error) {
		key, err := item.ValueCopy(nil)
		if err != nil {
			var zero T
			return zero, fmt.Errorf("failed to get entity key: %w", err)
		}

		return r.readKey(txn, key)
	})
}

func (r *Repository[T]) Read(txn *badger.Txn, id string) (T, error) {
	return r.readKey(txn, []byte(r.keyOf(id)))
}

func (r *Repository[T]) Write(txn *badger.Txn, entity T) error {
	data, err := entity.MarshalStorage()
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	if indexErr := r.CreateIndexes(txn, entity); indexErr != nil {
		return indexErr
	}

	if setErr := txn.Set([]byte(entity.StorageKey()), data); setErr != nil {
		return fmt.Errorf("failed to update entity: %w", setErr)
	}

	return nil
}

func (r *Repository[T]) Delete(txn *badger.Txn, id string) error {
	entity, err := r.Read(txn, id)
	if err != nil {
		return err
	}

	if indexErr := r.DeleteIndexes(txn, entity); indexErr != nil {
		return indexErr
	}

	if delErr := txn.Delete([]byte(entity.StorageKey())); delErr != nil {
		return fmt.Errorf("failed to delete entity: %w", delErr)
	}

	return nil
}

func (r *Repository[T]) CreateIndexes(txn *badger.Txn, entity T) error {
	key := []byte(entity.StorageKey())
	for _, index := range entity.StorageIndexes() {
		if err := txn.Set([]byte(index), key); err != nil {
			return fmt.Errorf("failed to set entity index: %w", err)
		}
	}

	return nil
}

func (r *Repository[T]) DeleteIndexes(txn *badger.Txn, entity T) error {
	for _, index := range entity.StorageIndexes() {
		if err := txn.Delete([]byte(index)); err != nil {
			return fmt.Errorf("failed to delete entity index: %w", err)
		}
	}

	return nil
}

func (r *Repository[T]) readKey(txn *badger.Txn, key []byte) (T, error) {
	item, err := txn.Get(key)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to get entity: %w", err)
	}

	return r.decode(item)
}

func (r *Repository[T]) decode(item *badger.Item) (T, error) {
	entity := r.factory()
	if err := item.Value(func(val []byte) error {
		return entity.UnmarshalStorage(val)
	}); err != nil {
		var zero T
		return zero, fmt.Errorf("failed to unmarshal entity: %w", err)
	}

	return entity, nil
}

func (r *Repository[T]) iterate(
	txn *badger.Txn,
	prefix string,
	options badger.IteratorOptions,
	limit int,
	load func(item *badger.Item) (T, error),
) ([]T, error) {
	validPrefix := []byte(prefix)
	seekPrefix := []byte(prefix)
	if options.Reverse {
		seekPrefix = append(seekPrefix, SeekEnd)
	}

	it := txn.NewIterator(options)
	defer it.Close()

	var entities []T
	for it.Seek(seekPrefix); it.ValidForPrefix(validPrefix); it.Next() {
		if limit > 0 && len(entities) >= limit {
			break
		}

		entity, err := load(it.Item())
		if err != nil {
			return nil, err
		}

		entities = append(entities, entity)
	}

	return entities, nil
}

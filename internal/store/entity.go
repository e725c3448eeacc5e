package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"

	"github.com/dgraph-io/badger/v4"

	domainerrors "github.com/RHgrive/Study-Plus/internal/errors"
)

// Entity provides generic CRUD and indexed lookups for one record kind.
// Every operation runs in its own Badger transaction; nothing spans records.
type Entity[T any] struct {
	store     *Store
	kind      Kind
	prefix    string
	indexes   []Index[T]
	normalize func(*T)
}

// Index defines a secondary index on an entity.
type Index[T any] struct {
	name   string
	keyGen func(*T) []string
	unique bool
}

// NewEntity creates a new Entity instance for type T stored under kind's prefix.
func NewEntity[T any](s *Store, kind Kind) *Entity[T] {
	return &Entity[T]{
		store:   s,
		kind:    kind,
		prefix:  kind.Prefix(),
		indexes: make([]Index[T], 0),
	}
}

// WithIndex adds a non-unique secondary index to the entity.
// keyGen returns the index values for a record; an empty slice leaves the record unindexed.
func (e *Entity[T]) WithIndex(name string, keyGen func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{
		name:   name,
		keyGen: keyGen,
	})
	return e
}

// WithUniqueIndex adds a secondary index where each value may belong to one record only.
// Writes that would give a value a second owner fail with ErrDuplicateKey.
func (e *Entity[T]) WithUniqueIndex(name string, keyGen func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{
		name:   name,
		keyGen: keyGen,
		unique: true,
	})
	return e
}

// WithNormalize registers a hook run on every record before it is written.
// Derived fields are recomputed here so they can never disagree with their source.
func (e *Entity[T]) WithNormalize(fn func(*T)) *Entity[T] {
	e.normalize = fn
	return e
}

// Kind returns the collection this entity stores.
func (e *Entity[T]) Kind() Kind {
	return e.kind
}

// Create stores a new record under id.
// Returns ErrDuplicateKey if a record with this id already exists.
func (e *Entity[T]) Create(ctx context.Context, id string, entity *T) error {
	if err := e.store.checkOpen(ctx); err != nil {
		return err
	}
	if e.normalize != nil {
		e.normalize(entity)
	}

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal %s record: %w", e.kind, err)
	}

	err = e.store.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(recordKey(e.prefix, id))
		if err == nil {
			return domainerrors.DuplicateKeyf("%s %s already exists", e.kind, id).WithCause(errIDTaken)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to check existing key: %w", err)
		}

		if err := e.checkUnique(txn, id, entity); err != nil {
			return err
		}

		if err := txn.Set(recordKey(e.prefix, id), data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}
		return e.setIndexKeys(txn, id, entity)
	})
	return wrapDBError(err)
}

// Get retrieves a record by id.
// Returns ErrNotFound if the record does not exist.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := e.store.checkOpen(ctx); err != nil {
		return nil, err
	}

	var entity *T
	err := e.store.db.View(func(txn *badger.Txn) error {
		var err error
		entity, err = e.getInTxn(txn, id)
		return err
	})
	if err != nil {
		return nil, wrapDBError(err)
	}
	return entity, nil
}

// Update replaces an existing record.
// Returns ErrNotFound if the record does not exist; Update never creates.
func (e *Entity[T]) Update(ctx context.Context, id string, entity *T) error {
	if err := e.store.checkOpen(ctx); err != nil {
		return err
	}
	if e.normalize != nil {
		e.normalize(entity)
	}

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal %s record: %w", e.kind, err)
	}

	err = e.store.db.Update(func(txn *badger.Txn) error {
		old, err := e.getInTxn(txn, id)
		if err != nil {
			return err
		}

		if err := e.deleteIndexKeys(txn, id, old); err != nil {
			return err
		}
		if err := e.checkUnique(txn, id, entity); err != nil {
			return err
		}

		if err := txn.Set(recordKey(e.prefix, id), data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}
		return e.setIndexKeys(txn, id, entity)
	})
	return wrapDBError(err)
}

// Delete deletes a record by id.
// This operation is idempotent - it does not return an error if the record does not exist.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	if err := e.store.checkOpen(ctx); err != nil {
		return err
	}

	err := e.store.db.Update(func(txn *badger.Txn) error {
		entity, err := e.getInTxn(txn, id)
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := e.deleteIndexKeys(txn, id, entity); err != nil {
			return err
		}
		if err := txn.Delete(recordKey(e.prefix, id)); err != nil {
			return fmt.Errorf("failed to delete key: %w", err)
		}
		return nil
	})
	return wrapDBError(err)
}

// List returns an iterator over all records, in key order.
func (e *Entity[T]) List(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		if err := e.store.checkOpen(ctx); err != nil {
			yield(nil, err)
			return
		}

		prefix := []byte(e.prefix)
		err := e.store.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix
			opts.PrefetchValues = true

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				if isIndexKey(it.Item().Key(), e.prefix) {
					continue
				}

				entity := new(T)
				err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, entity)
				})
				if err != nil {
					return fmt.Errorf("failed to unmarshal %s record: %w", e.kind, err)
				}

				if !yield(entity, nil) {
					return errStopIteration
				}
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStopIteration) {
			yield(nil, wrapDBError(err))
		}
	}
}

// errStopIteration unwinds the View transaction when the consumer stops early.
var errStopIteration = errors.New("iteration stopped")

// All collects every record. No ordering guarantee beyond key order.
func (e *Entity[T]) All(ctx context.Context) ([]T, error) {
	records := make([]T, 0)
	for entity, err := range e.List(ctx) {
		if err != nil {
			return nil, err
		}
		records = append(records, *entity)
	}
	return records, nil
}

// GetByIndex returns every record whose index value equals value.
// Returns an empty slice, not ErrNotFound, when nothing matches.
func (e *Entity[T]) GetByIndex(ctx context.Context, indexName, value string) ([]T, error) {
	if err := e.checkIndex(ctx, indexName); err != nil {
		return nil, err
	}

	records := make([]T, 0)
	err := e.store.db.View(func(txn *badger.Txn) error {
		ids, err := e.scanIndex(txn, indexName, indexValuePrefix(e.prefix, indexName, value), nil)
		if err != nil {
			return err
		}
		records, err = e.loadAll(txn, ids)
		return err
	})
	if err != nil {
		return nil, wrapDBError(err)
	}
	return records, nil
}

// GetByIndexRange returns every record whose index value v satisfies from <= v <= to,
// ordered by v. An empty bound is open on that side.
func (e *Entity[T]) GetByIndexRange(ctx context.Context, indexName, from, to string) ([]T, error) {
	if err := e.checkIndex(ctx, indexName); err != nil {
		return nil, err
	}
	if from != "" && to != "" && from > to {
		return []T{}, nil
	}

	records := make([]T, 0)
	err := e.store.db.View(func(txn *badger.Txn) error {
		seek := append(indexPrefix(e.prefix, indexName), from...)
		ids, err := e.scanIndex(txn, indexName, seek, func(value string) bool {
			return to == "" || value <= to
		})
		if err != nil {
			return err
		}
		records, err = e.loadAll(txn, ids)
		return err
	})
	if err != nil {
		return nil, wrapDBError(err)
	}
	return records, nil
}

// Clear removes every record of this kind along with its index keys.
func (e *Entity[T]) Clear(ctx context.Context) error {
	if err := e.store.checkOpen(ctx); err != nil {
		return err
	}
	return wrapDBError(e.store.db.DropPrefix([]byte(e.prefix)))
}

// scanIndex collects owning ids starting at seek while keys stay within the index.
// inRange, when set, stops the scan at the first value it rejects.
func (e *Entity[T]) scanIndex(txn *badger.Txn, indexName string, seek []byte, inRange func(string) bool) ([]string, error) {
	idxPrefix := indexPrefix(e.prefix, indexName)

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = idxPrefix

	it := txn.NewIterator(opts)
	defer it.Close()

	// An exact-value scan must stay within that value's keys.
	scanPrefix := idxPrefix
	if inRange == nil {
		scanPrefix = seek
	}

	var ids []string
	for it.Seek(seek); it.ValidForPrefix(scanPrefix); it.Next() {
		value, id, err := parseIndexKey(it.Item().KeyCopy(nil), idxPrefix)
		if err != nil {
			return nil, err
		}
		if inRange != nil && !inRange(value) {
			break
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (e *Entity[T]) loadAll(txn *badger.Txn, ids []string) ([]T, error) {
	records := make([]T, 0, len(ids))
	for _, id := range ids {
		entity, err := e.getInTxn(txn, id)
		if errors.Is(err, domainerrors.ErrNotFound) {
			// Stale index entry; the record is authoritative.
			continue
		}
		if err != nil {
			return nil, err
		}
		records = append(records, *entity)
	}
	return records, nil
}

func (e *Entity[T]) getInTxn(txn *badger.Txn, id string) (*T, error) {
	item, err := txn.Get(recordKey(e.prefix, id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domainerrors.NotFoundf("%s %s not found", e.kind, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	entity := new(T)
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, entity)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s record: %w", e.kind, err)
	}
	return entity, nil
}

// checkUnique fails if a unique index value of entity is already owned by a different id.
func (e *Entity[T]) checkUnique(txn *badger.Txn, id string, entity *T) error {
	for _, idx := range e.indexes {
		if !idx.unique {
			continue
		}
		for _, value := range idx.keyGen(entity) {
			owners, err := e.scanIndex(txn, idx.name, indexValuePrefix(e.prefix, idx.name, value), nil)
			if err != nil {
				return err
			}
			for _, owner := range owners {
				if owner != id {
					return domainerrors.DuplicateKeyf("%s index %s conflict on %q (owned by %s)", e.kind, idx.name, value, owner)
				}
			}
		}
	}
	return nil
}

func (e *Entity[T]) setIndexKeys(txn *badger.Txn, id string, entity *T) error {
	for _, idx := range e.indexes {
		for _, value := range idx.keyGen(entity) {
			if err := txn.Set(indexKey(e.prefix, idx.name, value, id), nil); err != nil {
				return fmt.Errorf("failed to set index key: %w", err)
			}
		}
	}
	return nil
}

func (e *Entity[T]) deleteIndexKeys(txn *badger.Txn, id string, entity *T) error {
	for _, idx := range e.indexes {
		for _, value := range idx.keyGen(entity) {
			if err := txn.Delete(indexKey(e.prefix, idx.name, value, id)); err != nil {
				return fmt.Errorf("failed to delete index key: %w", err)
			}
		}
	}
	return nil
}

func (e *Entity[T]) checkIndex(ctx context.Context, indexName string) error {
	if err := e.store.checkOpen(ctx); err != nil {
		return err
	}
	for _, idx := range e.indexes {
		if idx.name == indexName {
			return nil
		}
	}
	return fmt.Errorf("%s has no index %q", e.kind, indexName)
}

package badger

import (
	"bytes"
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/poiesic/clipkeep/core"
	"github.com/poiesic/clipkeep/storage"
)

// EntryRepository implements storage.EntryRepository for BadgerDB.
type EntryRepository struct {
	backend *Backend
}

var _ storage.EntryRepository = (*EntryRepository)(nil)

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(backend *Backend) (storage.EntryRepository, error) {
	if backend == nil {
		return nil, storage.ErrStorageClosed
	}
	return &EntryRepository{backend: backend}, nil
}

// Close is a no-op: the backend owns the database handle.
func (r *EntryRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *EntryRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// Sync delegates to the backend.
func (r *EntryRepository) Sync() error {
	return r.backend.Sync()
}

// Add stores one or more new entries.
func (r *EntryRepository) Add(ctx context.Context, entries ...*core.Entry) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			if err := r.writeEntry(tx, entry); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Update rewrites existing entries, moving their date index key when the
// last-copied timestamp changed.
func (r *EntryRepository) Update(ctx context.Context, entries ...*core.Entry) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			old, err := r.readEntry(tx, makeEntryKey(entry.Id))
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			if !old.LastCopiedAt.Equal(entry.LastCopiedAt) {
				if err := tx.Delete(makeEntryDateKey(old.LastCopiedAt, old.Id)); err != nil {
					return err
				}
			}
			if err := r.writeEntry(tx, entry); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Delete removes entries by their IDs. Missing IDs are ignored.
func (r *EntryRepository) Delete(ctx context.Context, ids ...uuid.UUID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeEntryKey(id)
			entry, err := r.readEntry(tx, key)
			if err != nil {
				return err
			}
			if entry == nil {
				continue
			}

			if err := tx.Delete(makeEntryDateKey(entry.LastCopiedAt, entry.Id)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// DeleteAll removes every stored entry.
func (r *EntryRepository) DeleteAll(ctx context.Context) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, prefix := range []string{entryPrefix + ":", entryDatePrefix + ":"} {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(prefix)
			opts.PrefetchValues = false
			iter := tx.NewIterator(opts)

			var keys [][]byte
			for iter.Rewind(); iter.Valid(); iter.Next() {
				keys = append(keys, iter.Item().KeyCopy(nil))
			}
			iter.Close()

			for _, key := range keys {
				if err := tx.Delete(key); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)
}

// ListAll retrieves every stored entry, most recently copied first, by
// walking the date index in reverse.
func (r *EntryRepository) ListAll(ctx context.Context) ([]*core.Entry, error) {
	var results []*core.Entry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek past the newest possible index key, then walk backwards
		// while still inside the date prefix.
		startKey := makePartialEntryDateKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
		prefix := []byte(entryDatePrefix + ":")

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}

			var id uuid.UUID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			entry, err := r.readEntry(tx, makeEntryKey(id))
			if err != nil {
				return err
			}
			if entry != nil {
				results = append(results, entry)
			}
		}
		return nil
	}, false)

	return results, err
}

func (r *EntryRepository) writeEntry(tx *badger.Txn, entry *core.Entry) error {
	if err := tx.Set(makeEntryKey(entry.Id), storage.MarshalEntry(entry)); err != nil {
		return err
	}
	return tx.Set(makeEntryDateKey(entry.LastCopiedAt, entry.Id), storage.MarshalID(entry.Id))
}

// readEntry reads and deserializes an entry, returning nil if the key
// does not exist.
func (r *EntryRepository) readEntry(tx *badger.Txn, key []byte) (*core.Entry, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var entry *core.Entry
	err = item.Value(func(val []byte) error {
		var err error
		entry, err = storage.UnmarshalEntry(val)
		return err
	})
	return entry, err
}

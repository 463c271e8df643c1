package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDBStore is a persistent store backed by LevelDB. One database holds every namespace;
// each stored key is the namespace length (uint16, big endian), the namespace, then the key,
// so no namespace is a byte prefix of another.
type LevelDBStore struct {
	db *leveldb.DB
}

const maxNamespaceLen = math.MaxUint16

func namespacePrefix(namespace string) ([]byte, error) {
	if len(namespace) > maxNamespaceLen {
		return nil, fmt.Errorf("namespace longer than %d bytes", maxNamespaceLen)
	}
	prefix := make([]byte, 2, 2+len(namespace))
	binary.BigEndian.PutUint16(prefix, uint16(len(namespace)))
	return append(prefix, namespace...), nil
}

func levelKey(namespace, key string) ([]byte, error) {
	prefix, err := namespacePrefix(namespace)
	if err != nil {
		return nil, err
	}
	return append(prefix, key...), nil
}

// NewLevelDBStore creates or opens a LevelDB database at the specified path.
func NewLevelDBStore(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb at %s: %w", path, err)
	}
	return &LevelDBStore{db: db}, nil
}

func (s *LevelDBStore) GetItem(ctx context.Context, namespace, key string) ([]byte, error) {
	if err := validateKey(namespace, key); err != nil {
		return nil, err
	}
	dbKey, err := levelKey(namespace, key)
	if err != nil {
		return nil, err
	}
	value, err := s.db.Get(dbKey, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", Path(namespace, key), err)
	}
	return value, nil
}

func (s *LevelDBStore) GetAllItems(ctx context.Context, namespace string) ([]Entry, error) {
	if namespace == "" {
		return nil, fmt.Errorf("namespace is required")
	}
	prefix, err := namespacePrefix(namespace)
	if err != nil {
		return nil, err
	}
	iter := s.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	var entries []Entry
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			Key:   string(iter.Key()[len(prefix):]),
			Value: cloneBytes(iter.Value()),
		})
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate namespace %s: %w", namespace, err)
	}
	return entries, nil
}

func (s *LevelDBStore) SetItem(ctx context.Context, namespace, key string, value []byte) error {
	return s.BatchSetItems(ctx, namespace, []Entry{{Key: key, Value: value}})
}

// BatchSetItems applies all entries in a single synced LevelDB batch
func (s *LevelDBStore) BatchSetItems(ctx context.Context, namespace string, entries []Entry) error {
	if err := validateEntries(namespace, entries); err != nil {
		return err
	}
	batch := new(leveldb.Batch)
	for _, entry := range entries {
		dbKey, err := levelKey(namespace, entry.Key)
		if err != nil {
			return err
		}
		batch.Put(dbKey, entry.Value)
	}
	if err := s.db.Write(batch, &opt.WriteOptions{Sync: true}); err != nil {
		return fmt.Errorf("failed to write batch of %d items: %w", len(entries), err)
	}
	return nil
}

// Close closes the database
func (s *LevelDBStore) Close() error {
	return s.db.Close()
}

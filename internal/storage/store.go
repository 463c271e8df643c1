// Package storage persists opaque values grouped under a namespace.
package storage

//go:generate mockgen -source=store.go -destination=../mocks/mock_state_store.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by GetItem when the key holds no value
var ErrNotFound = errors.New("item not found")

// Entry is a single key/value pair inside a namespace
type Entry struct {
	Key   string
	Value []byte
}

// StateStore is the persistence interface the permission store is built on.
// BatchSetItems writes every entry in one call; backends apply it atomically.
type StateStore interface {
	GetItem(ctx context.Context, namespace, key string) ([]byte, error)
	GetAllItems(ctx context.Context, namespace string) ([]Entry, error)
	SetItem(ctx context.Context, namespace, key string, value []byte) error
	BatchSetItems(ctx context.Context, namespace string, entries []Entry) error
	Close() error
}

// Path returns the logical path of a key: {namespace}.{key}
func Path(namespace, key string) string {
	return namespace + "." + key
}

func validateKey(namespace, key string) error {
	if namespace == "" {
		return fmt.Errorf("namespace is required")
	}
	if key == "" {
		return fmt.Errorf("key is required")
	}
	return nil
}

func validateEntries(namespace string, entries []Entry) error {
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if err := validateKey(namespace, entry.Key); err != nil {
			return err
		}
		if _, ok := seen[entry.Key]; ok {
			return fmt.Errorf("duplicate key %q in batch", entry.Key)
		}
		seen[entry.Key] = struct{}{}
	}
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

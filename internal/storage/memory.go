package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore keeps everything in process memory. Used for local runs and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string][]byte),
	}
}

func (s *MemoryStore) GetItem(ctx context.Context, namespace, key string) ([]byte, error) {
	if err := validateKey(namespace, key); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[namespace][key]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneBytes(value), nil
}

func (s *MemoryStore) GetAllItems(ctx context.Context, namespace string) ([]Entry, error) {
	if namespace == "" {
		return nil, fmt.Errorf("namespace is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.data[namespace]
	entries := make([]Entry, 0, len(items))
	for key, value := range items {
		entries = append(entries, Entry{Key: key, Value: cloneBytes(value)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

func (s *MemoryStore) SetItem(ctx context.Context, namespace, key string, value []byte) error {
	return s.BatchSetItems(ctx, namespace, []Entry{{Key: key, Value: value}})
}

func (s *MemoryStore) BatchSetItems(ctx context.Context, namespace string, entries []Entry) error {
	if err := validateEntries(namespace, entries); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	items, ok := s.data[namespace]
	if !ok {
		items = make(map[string][]byte)
		s.data[namespace] = items
	}
	for _, entry := range entries {
		items[entry.Key] = cloneBytes(entry.Value)
	}
	return nil
}

// Close satisfies StateStore; there is nothing to release.
func (s *MemoryStore) Close() error {
	return nil
}

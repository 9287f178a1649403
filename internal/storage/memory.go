package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStorage is an in-process object store for tests.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte

	// FailPut makes the next Put calls fail, for rollback tests.
	FailPut bool
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string][]byte)}
}

func (s *MemoryStorage) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailPut {
		return "", fmt.Errorf("simulated storage failure for %s", key)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	s.objects[key] = cp
	return "mem://" + key, nil
}

func (s *MemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return data, nil
}

func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *MemoryStorage) Presign(_ context.Context, key string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("mem://%s?expires=%d", key, time.Now().Add(ttl).Unix()), nil
}

// Len reports the number of stored objects.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Has reports whether a key exists.
func (s *MemoryStorage) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok
}

package storage

import (
	"context"
	"errors"
	"sync"
)

// MemoryStore is an in-process BlobStore. It is the default backend when no
// SQLite path is configured and doubles as the test store; FailWrites lets
// tests exercise the write-error path.
type MemoryStore struct {
	mu         sync.Mutex
	blobs      map[string]string
	failWrites bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.blobs[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites {
		return errors.New("memory store: writes disabled")
	}
	s.blobs[key] = value
	return nil
}

// FailWrites toggles write failures for error-path tests.
func (s *MemoryStore) FailWrites(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites = fail
}

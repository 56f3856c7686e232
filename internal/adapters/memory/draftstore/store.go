package draftstore

import (
	"context"
	"sync"

	"github.com/chiro-horizon/registration-api/internal/ports/out/draftstore"
)

// Store is an in-memory implementation of draftstore.Store.
// It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	blobs map[draftstore.Key][]byte
}

func NewStore() *Store {
	return &Store{blobs: make(map[draftstore.Key][]byte)}
}

func (s *Store) Load(ctx context.Context, key draftstore.Key) ([]byte, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

func (s *Store) Save(ctx context.Context, key draftstore.Key, data []byte) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.blobs[key] = stored
	return nil
}

func (s *Store) Clear(ctx context.Context, key draftstore.Key) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

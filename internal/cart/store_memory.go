package cart

import (
	"context"
	"sync"
)

type MemStore struct {
	mu sync.RWMutex
	m  map[string][]Item
}

func NewMemStore() *MemStore {
	return &MemStore{m: map[string][]Item{}}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Load(ctx context.Context, slot string) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.m[slot]
	if !ok {
		return []Item{}, nil
	}
	out := make([]Item, len(stored))
	copy(out, stored)
	return out, nil
}

func (s *MemStore) Save(ctx context.Context, slot string, items []Item) error {
	cp := make([]Item, len(items))
	copy(cp, items)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[slot] = cp
	return nil
}

func (s *MemStore) Clear(ctx context.Context, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, slot)
	return nil
}

package catalog

import (
	"context"
	"sort"
	"sync"
)

type MemStore struct {
	mu sync.RWMutex
	m  map[int64]Product
}

// NewMemStore seeds the in-memory catalog with the current drops.
func NewMemStore() *MemStore {
	s := &MemStore{m: map[int64]Product{}}
	s.m[1] = Product{ID: 1, Name: "Camisa Sup Cypher", PriceCents: 12000, Year: 2025, Image: "assets/images/drops/DHV/camisa_hv_02.jpg"}
	s.m[2] = Product{ID: 2, Name: "Nos Por Nós", PriceCents: 13000, Year: 2024, Image: "assets/images/drops/NPN/camisa_npn_02.jpg"}
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context, year int) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.m))
	for _, p := range s.m {
		if year != AllYears && p.Year != year {
			continue
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id int64) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.m[id]
	return p, ok, nil
}

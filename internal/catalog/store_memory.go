package catalog

import (
	"context"
	"sync"
)

// MemStore is the Store used by tests and local development; it has the
// same id-assignment and delete semantics as FileStore, minus persistence.
type MemStore struct {
	mu       sync.RWMutex
	products []Product
}

func NewMemStore(seed ...Product) *MemStore {
	s := &MemStore{}
	s.products = append(s.products, seed...)
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id int) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, true, nil
		}
	}
	return Product{}, false, nil
}

func (s *MemStore) Add(ctx context.Context, f Fields) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	maxID := 0
	for _, p := range s.products {
		if p.ID > maxID {
			maxID = p.ID
		}
	}

	p := Product{ID: maxID + 1, Name: f.Name, Price: f.Price, ImageURL: f.ImageURL}
	s.products = append(s.products, p)
	return p, nil
}

func (s *MemStore) Update(ctx context.Context, id int, f Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i].Name = f.Name
			s.products[i].Price = f.Price
			s.products[i].ImageURL = f.ImageURL
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.products[:0]
	for _, p := range s.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.products = kept
	return nil
}

package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps the whole product list in memory and mirrors every
// mutation back to one JSON document. The document is the source of truth
// only at startup; afterwards memory leads and save rewrites the file.
type FileStore struct {
	mu       sync.RWMutex
	path     string
	products []Product
}

// OpenFileStore loads the product document. A missing or malformed file is
// a startup failure; there is no recovery path.
func OpenFileStore(path string) (*FileStore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}

	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	return &FileStore{path: path, products: products}, nil
}

func (s *FileStore) Ping(ctx context.Context) error { return nil }

func (s *FileStore) List(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *FileStore) Get(ctx context.Context, id int) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, true, nil
		}
	}
	return Product{}, false, nil
}

func (s *FileStore) Add(ctx context.Context, f Fields) (Product, error) {
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

	if err := s.save(); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *FileStore) Update(ctx context.Context, id int, f Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i].Name = f.Name
			s.products[i].Price = f.Price
			s.products[i].ImageURL = f.ImageURL
			return s.save()
		}
	}
	return ErrNotFound
}

// Delete removes the matching product if present and rewrites the document
// either way.
func (s *FileStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.products[:0]
	for _, p := range s.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.products = kept

	return s.save()
}

// save rewrites the whole document. Caller holds the write lock. The write
// goes to a temp file first so a crash mid-write cannot corrupt the store.
func (s *FileStore) save() error {
	if s.products == nil {
		s.products = []Product{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(s.products); err != nil {
		return fmt.Errorf("encode products: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".products-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}

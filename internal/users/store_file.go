package users

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore mirrors the catalog document store: full list in memory, whole
// document rewritten on every mutation.
type FileStore struct {
	mu    sync.RWMutex
	path  string
	users []User
}

func OpenFileStore(path string) (*FileStore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}

	var users []User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	return &FileStore{path: path, users: users}, nil
}

func (s *FileStore) Ping(ctx context.Context) error { return nil }

func (s *FileStore) Register(ctx context.Context, username, password string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return User{}, ErrDuplicateUsername
		}
	}

	// Next id follows the last element, not the max; this matches the
	// persisted documents produced by earlier revisions of the shop.
	nextID := 1
	if n := len(s.users); n > 0 {
		nextID = s.users[n-1].ID + 1
	}

	u := User{ID: nextID, Username: username, Password: password, Role: RoleUser}
	s.users = append(s.users, u)

	if err := s.save(); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *FileStore) Authenticate(ctx context.Context, username, password string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username && u.Password == password {
			return u, nil
		}
	}
	return User{}, ErrInvalidCredentials
}

// Len reports how many users are registered.
func (s *FileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func (s *FileStore) save() error {
	if s.users == nil {
		s.users = []User{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(s.users); err != nil {
		return fmt.Errorf("encode users: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".users-*")
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

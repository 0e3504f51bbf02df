package users

import (
	"context"
	"sync"
)

type MemStore struct {
	mu    sync.RWMutex
	users []User
}

func NewMemStore(seed ...User) *MemStore {
	s := &MemStore{}
	s.users = append(s.users, seed...)
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Register(ctx context.Context, username, password string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return User{}, ErrDuplicateUsername
		}
	}

	nextID := 1
	if n := len(s.users); n > 0 {
		nextID = s.users[n-1].ID + 1
	}

	u := User{ID: nextID, Username: username, Password: password, Role: RoleUser}
	s.users = append(s.users, u)
	return u, nil
}

func (s *MemStore) Authenticate(ctx context.Context, username, password string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username && u.Password == password {
			return u, nil
		}
	}
	return User{}, ErrInvalidCredentials
}

func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

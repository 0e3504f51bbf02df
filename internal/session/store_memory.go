package session

import (
	"context"
	"sync"
	"time"
)

// MemStore holds sessions for the single-process default. Get hands out a
// copy and Put stores one, so a request never mutates shared state before
// its explicit Save. Entries expire ttl after their last Put; expired ones
// are dropped lazily so abandoned visitor sessions cannot pile up forever.
type MemStore struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[string]memEntry
	now func() time.Time
}

type memEntry struct {
	state    *State
	deadline time.Time
}

// NewMemStore creates a store whose entries live ttl past their last write.
// A ttl of zero or less disables expiry.
func NewMemStore(ttl time.Duration) *MemStore {
	return &MemStore{
		ttl: ttl,
		m:   map[string]memEntry{},
		now: time.Now,
	}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Get(ctx context.Context, id string) (*State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.m[id]
	if !ok {
		return nil, false, nil
	}
	if s.expired(e, s.now()) {
		delete(s.m, id)
		return nil, false, nil
	}
	return e.state.clone(), true, nil
}

func (s *MemStore) Put(ctx context.Context, st *State) error {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.m {
		if s.expired(e, now) {
			delete(s.m, id)
		}
	}

	var deadline time.Time
	if s.ttl > 0 {
		deadline = now.Add(s.ttl)
	}
	s.m[st.ID] = memEntry{state: st.clone(), deadline: deadline}
	return nil
}

func (s *MemStore) expired(e memEntry, now time.Time) bool {
	return s.ttl > 0 && now.After(e.deadline)
}

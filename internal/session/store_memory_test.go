package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemStore_ExpiresIdleSessions(t *testing.T) {
	ctx := context.Background()

	clock := time.Unix(1000, 0)
	s := NewMemStore(time.Minute)
	s.now = func() time.Time { return clock }

	require.NoError(t, s.Put(ctx, &State{ID: "s1", Cart: map[string]CartItem{}}))

	clock = clock.Add(30 * time.Second)
	_, ok, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)

	clock = clock.Add(2 * time.Minute)
	_, ok, err = s.Get(ctx, "s1")
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, s.m)
}

func TestMemStore_PutRefreshesDeadlineAndSweeps(t *testing.T) {
	ctx := context.Background()

	clock := time.Unix(1000, 0)
	s := NewMemStore(time.Minute)
	s.now = func() time.Time { return clock }

	require.NoError(t, s.Put(ctx, &State{ID: "stale", Cart: map[string]CartItem{}}))
	require.NoError(t, s.Put(ctx, &State{ID: "active", Cart: map[string]CartItem{}}))

	// Touch "active" past the deadline of "stale"; the write sweeps it out.
	clock = clock.Add(45 * time.Second)
	require.NoError(t, s.Put(ctx, &State{ID: "active", Cart: map[string]CartItem{}}))

	clock = clock.Add(30 * time.Second)
	require.NoError(t, s.Put(ctx, &State{ID: "other", Cart: map[string]CartItem{}}))
	require.NotContains(t, s.m, "stale")

	_, ok, err := s.Get(ctx, "active")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMemStore_ZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()

	clock := time.Unix(1000, 0)
	s := NewMemStore(0)
	s.now = func() time.Time { return clock }

	require.NoError(t, s.Put(ctx, &State{ID: "s1", Cart: map[string]CartItem{}}))

	clock = clock.Add(1000 * time.Hour)
	_, ok, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
}

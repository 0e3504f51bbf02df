package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisStore is the REDIS_ADDR-selected backing; it lets sessions survive
// restarts and be shared across processes.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (*State, bool, error) {
	val, err := s.client.Get(ctx, redisKeyPrefix+id).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var st State
	if err := json.Unmarshal([]byte(val), &st); err != nil {
		return nil, false, fmt.Errorf("decode session: %w", err)
	}
	if st.Cart == nil {
		st.Cart = map[string]CartItem{}
	}
	return &st, true, nil
}

func (s *RedisStore) Put(ctx context.Context, st *State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.client.Set(ctx, redisKeyPrefix+st.ID, data, s.ttl).Err()
}

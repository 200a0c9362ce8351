package cart

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "cart:"

// RedisStore keeps each cart as a single JSON value under cart:<slot>, the
// server-side analog of the one localStorage slot the storefront started
// with.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Load(ctx context.Context, slot string) ([]Item, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+slot).Bytes()
	if errors.Is(err, redis.Nil) {
		return []Item{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		// Corrupt slot reads as empty, same as absent.
		return []Item{}, nil
	}
	return items, nil
}

func (s *RedisStore) Save(ctx context.Context, slot string, items []Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKeyPrefix+slot, raw, 0).Err()
}

func (s *RedisStore) Clear(ctx context.Context, slot string) error {
	return s.client.Del(ctx, redisKeyPrefix+slot).Err()
}

// internal/cache/redis.go
package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the cache in a single Redis hash. HGetAll maps directly
// onto the key -> description document; a transactional DEL+HSET gives the
// full-overwrite save semantics the pipeline expects.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Load(ctx context.Context) (map[string]string, error) {
	entries, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("load cache hash %s: %w", s.key, err)
	}
	// HGetAll on a missing key returns an empty map, which is exactly the
	// "no prior storage" contract.
	return entries, nil
}

func (s *RedisStore) Save(ctx context.Context, entries map[string]string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key)
	if len(entries) > 0 {
		flat := make([]interface{}, 0, len(entries)*2)
		for k, v := range entries {
			flat = append(flat, k, v)
		}
		pipe.HSet(ctx, s.key, flat...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save cache hash %s: %w", s.key, err)
	}
	return nil
}

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKV stores keys in a Redis instance, for boards shared across machines.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV connects a Redis-backed KV to addr. The connection is lazy;
// failures surface on the first Get or Set.
func NewRedisKV(addr string, db int) *RedisKV {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	return &RedisKV{client: client}
}

// Get reads the value stored under key.
func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

// Set writes value under key with no expiry.
func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (r *RedisKV) Close() error {
	return r.client.Close()
}

package repositories

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisKeyValueRepository stores entries as plain Redis strings
type RedisKeyValueRepository struct {
	client *redis.Client
}

// NewRedisKeyValueRepository creates a new Redis-backed repository
func NewRedisKeyValueRepository(client *redis.Client) *RedisKeyValueRepository {
	return &RedisKeyValueRepository{client: client}
}

// Get retrieves a value by key
func (r *RedisKeyValueRepository) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return value, nil
}

// PutAll writes every entry inside MULTI/EXEC
func (r *RedisKeyValueRepository) PutAll(ctx context.Context, entries map[string][]byte) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, value := range entries {
			pipe.Set(ctx, key, value, 0)
		}
		return nil
	})
	return err
}

// Ping checks if Redis is reachable
func (r *RedisKeyValueRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisKeyValueRepository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

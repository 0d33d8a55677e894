package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// redisStorage implements Storage on top of Redis strings.
// All keys are prefixed so several deployments can share one Redis database.
type redisStorage struct {
	client *redis.Client
	prefix string
}

// NewRedisStorage creates a new Redis storage.
//
// "prefix" is prepended to every key, e.g. "treydbuddy:".
func NewRedisStorage(client *redis.Client, prefix string) *redisStorage {
	return &redisStorage{
		client: client,
		prefix: prefix,
	}
}

func (s *redisStorage) key(key string) string {
	return s.prefix + key
}

// Get retrieves a value by key
func (s *redisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores a value by key without expiration
func (s *redisStorage) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// Remove deletes a key
func (s *redisStorage) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to remove key %q: %w", key, err)
	}
	return nil
}

// Close closes the Redis client
func (s *redisStorage) Close() error {
	return s.client.Close()
}

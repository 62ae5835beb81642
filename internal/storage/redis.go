// internal/storage/redis.go
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each visitor's state in one hash that expires after ttl of inactivity.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func generateVisitorKey(visitorID string) string {
	return fmt.Sprintf("storefront:visitor:%s", visitorID)
}

func (s *RedisStore) Get(ctx context.Context, visitorID, key string) (string, bool, error) {
	value, err := s.client.HGet(ctx, generateVisitorKey(visitorID), key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, visitorID, key, value string) error {
	hashKey := generateVisitorKey(visitorID)

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, hashKey, key, value)
	if s.ttl > 0 {
		pipe.Expire(ctx, hashKey, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, visitorID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := s.client.HDel(ctx, generateVisitorKey(visitorID), keys...).Err(); err != nil {
		return fmt.Errorf("failed to remove state: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

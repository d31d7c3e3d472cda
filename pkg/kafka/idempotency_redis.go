package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisIdempotencyPrefix = "idempotency:"

// RedisIdempotencyStore is a Redis-backed implementation of IdempotencyStore.
// Entries share state across instances of a consumer group and expire via
// Redis TTLs. The namespace keeps independent consumer groups from deduping
// each other's copies of the same event.
type RedisIdempotencyStore struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

// NewRedisIdempotencyStore creates a Redis-backed idempotency store with the
// given namespace and TTL per processed event ID.
func NewRedisIdempotencyStore(client *redis.Client, namespace string, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		client:    client,
		namespace: namespace,
		ttl:       ttl,
	}
}

func (s *RedisIdempotencyStore) key(eventID string) string {
	return redisIdempotencyPrefix + s.namespace + ":" + eventID
}

// Contains checks if the event ID has been processed.
func (s *RedisIdempotencyStore) Contains(ctx context.Context, eventID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(eventID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

// Add marks the event ID as processed.
func (s *RedisIdempotencyStore) Add(ctx context.Context, eventID string) error {
	if err := s.client.Set(ctx, s.key(eventID), "1", s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

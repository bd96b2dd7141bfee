package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/Iron-Ham/taskboard/internal/errors"
)

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisStore keeps values as plain Redis strings with no expiry.
type RedisStore struct {
	client *redis.Client
	prefix string
	owned  bool
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, apperrors.NewStoreError("failed to connect",
			errors.Join(apperrors.ErrStoreUnavailable, err)).WithBackend(BackendRedis)
	}
	s := NewRedisStoreWithClient(client, opts.KeyPrefix)
	s.owned = true
	return s, nil
}

// NewRedisStoreWithClient wraps an existing client. Close leaves the client
// open; its owner is responsible for closing it.
func NewRedisStoreWithClient(client *redis.Client, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, prefix: keyPrefix}
}

// Get returns the value stored under the prefixed key.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", apperrors.NewStoreError("get failed", err).WithBackend(BackendRedis).WithKey(s.prefix + key)
	}
	return val, nil
}

// Set stores value under the prefixed key without expiry.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return apperrors.NewStoreError("set failed", err).WithBackend(BackendRedis).WithKey(s.prefix + key)
	}
	return nil
}

// Close closes the client if the store created it.
func (s *RedisStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}

package tokenstore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/LVRodrigues/fpa-management/internal/errors"
	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "fpa:session:"

// RedisStorage implements Storage on top of Redis for front-ends running more than one instance
type RedisStorage struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

var _ Storage = (*RedisStorage)(nil)

type RedisOption func(*RedisStorage)

// WithKeyPrefix namespaces every key. An empty prefix keeps the default.
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *RedisStorage) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// WithTTL expires entries ttl after their last read or write. Zero keeps them until deleted.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *RedisStorage) {
		r.ttl = ttl
	}
}

func NewRedisStorage(client redis.Cmdable, opts ...RedisOption) *RedisStorage {
	r := &RedisStorage{client: client, prefix: defaultRedisPrefix}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewRedisStorageFromURL connects using a redis:// URL
func NewRedisStorageFromURL(rawURL string, opts ...RedisOption) (*RedisStorage, error) {
	options, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("[tokenstore NewRedisStorageFromURL] invalid redis url: %w", err)
	}
	return NewRedisStorage(redis.NewClient(options), opts...), nil
}

func (r *RedisStorage) key(key string) string {
	return r.prefix + key
}

// Get slides the entry's expiry when a TTL is configured
func (r *RedisStorage) Get(ctx context.Context, key string) (string, error) {
	var cmd *redis.StringCmd
	if r.ttl > 0 {
		cmd = r.client.GetEx(ctx, r.key(key), r.ttl)
	} else {
		cmd = r.client.Get(ctx, r.key(key))
	}
	value, err := cmd.Result()
	if errors.Is(err, redis.Nil) {
		return "", errors.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("[tokenstore RedisStorage.Get] %w: %w", errors.ErrStorage, err)
	}
	return value, nil
}

func (r *RedisStorage) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("[tokenstore RedisStorage.Set] %w: %w", errors.ErrStorage, err)
	}
	return nil
}

func (r *RedisStorage) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("[tokenstore RedisStorage.Delete] %w: %w", errors.ErrStorage, err)
	}
	return nil
}

// Ping checks the connection
func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("[tokenstore RedisStorage.Ping] %w: %w", errors.ErrStorage, err)
	}
	return nil
}

// Close releases the underlying client when it owns a connection pool
func (r *RedisStorage) Close() error {
	if closer, ok := r.client.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBackend keeps each document under <prefix><name>
type RedisBackend struct {
	rdb    *redis.Client
	prefix string
}

// OpenRedis parses a redis:// URL and pings the server
func OpenRedis(ctx context.Context, url, prefix string) (*RedisBackend, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisBackend(rdb, prefix), nil
}

func NewRedisBackend(rdb *redis.Client, prefix string) *RedisBackend {
	p := KeyPrefix(prefix, ":")
	if p == "" {
		p = "crucible:"
	}
	return &RedisBackend{rdb: rdb, prefix: p}
}

func (r *RedisBackend) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := r.rdb.Get(ctx, r.prefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return data, err
}

func (r *RedisBackend) Put(ctx context.Context, name string, data []byte) error {
	return r.rdb.Set(ctx, r.prefix+name, data, 0).Err()
}

package scrape

import (
	"context"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"hash/fnv"
	"os"
	"path/filepath"
	"time"
)

// Cache stores response bodies by URL.
type Cache interface {
	Get(ctx context.Context, url string) ([]byte, bool, error)
	Set(ctx context.Context, url string, body []byte) error
}

// FileCache keeps one file per URL under Dir.
type FileCache struct {
	Dir string
}

func (c FileCache) path(url string) string {
	return filepath.Join(c.Dir, fmt.Sprintf("%d.body", hash(url)))
}

func (c FileCache) Get(_ context.Context, url string) ([]byte, bool, error) {
	body, err := os.ReadFile(c.path(url))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

func (c FileCache) Set(_ context.Context, url string, body []byte) error {
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(c.path(url), body, 0644)
}

// RedisCache keeps bodies in redis for TTL.
type RedisCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCache(rdb *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) key(url string) string {
	return fmt.Sprintf("%s:%d", c.prefix, hash(url))
}

func (c *RedisCache) Get(ctx context.Context, url string) ([]byte, bool, error) {
	body, err := c.rdb.Get(ctx, c.key(url)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

func (c *RedisCache) Set(ctx context.Context, url string, body []byte) error {
	return c.rdb.Set(ctx, c.key(url), body, c.ttl).Err()
}

func hash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

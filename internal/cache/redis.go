// internal/cache/redis.go
//
// Redis-backed store for rendered pages.
//
// Context
// -------
// The page cache middleware only needs byte get/set with a TTL, so it
// depends on the small PageStore interface rather than on go-redis
// directly.  RedisPages adapts any redis.Cmdable; NewRedis opens and
// pings a client from a redis:// URL.
//
// An empty URL disables Redis: NewRedis returns (nil, nil) and callers
// skip the page cache.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by PageStore.Get when the key is absent.
var ErrMiss = errors.New("cache: miss")

// PageStore holds opaque page payloads.
type PageStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// RedisOptions configures NewRedis.
type RedisOptions struct {
	URL          string
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewRedis parses opts.URL, applies overrides, and pings the server.
func NewRedis(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	if opts.URL == "" {
		return nil, nil
	}
	o, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if opts.PoolSize > 0 {
		o.PoolSize = opts.PoolSize
	}
	if opts.DialTimeout > 0 {
		o.DialTimeout = opts.DialTimeout
	}
	if opts.ReadTimeout > 0 {
		o.ReadTimeout = opts.ReadTimeout
	}
	if opts.WriteTimeout > 0 {
		o.WriteTimeout = opts.WriteTimeout
	}

	c := redis.NewClient(o)
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.Ping(pctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return c, nil
}

// RedisPages adapts a go-redis client to PageStore.
type RedisPages struct {
	C redis.Cmdable
}

// Get implements PageStore.
func (r RedisPages) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.C.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return b, err
}

// Set implements PageStore.
func (r RedisPages) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return r.C.Set(ctx, key, val, ttl).Err()
}

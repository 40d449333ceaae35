// Package cache is a small JSON cache over Redis.
//
// A nil *Store, or one built without a client, is a valid always-miss cache,
// so callers never branch on whether Redis is configured.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/arstoys/pkg/logger"
	"github.com/shashiranjanraj/arstoys/pkg/metrics"
)

const driver = "redis"

// Store reads and writes JSON values under a key prefix.
type Store struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// Options configures Connect.
type Options struct {
	Addr     string
	Password string
	Prefix   string
	TTL      time.Duration
}

// Connect initialises the Redis client and verifies the connection with a
// ping. An empty Addr returns a disabled store and no error.
func Connect(ctx context.Context, opts Options) (*Store, error) {
	if opts.Addr == "" {
		return &Store{}, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return &Store{}, fmt.Errorf("cache: redis ping: %w", err)
	}
	return New(rdb, opts.Prefix, opts.TTL), nil
}

// New wraps an existing client.
func New(rdb *redis.Client, prefix string, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Store{rdb: rdb, prefix: prefix, ttl: ttl}
}

// Enabled reports whether a Redis client backs the store.
func (s *Store) Enabled() bool { return s != nil && s.rdb != nil }

func (s *Store) key(k string) string { return s.prefix + k }

// Get unmarshals the value at key into dest. It reports false on a miss,
// on any Redis error, and when the store is disabled.
func (s *Store) Get(ctx context.Context, key string, dest interface{}) bool {
	if !s.Enabled() {
		return false
	}

	val, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.WithCtx(ctx).Warn("cache: get failed", "key", key, "error", err)
		}
		metrics.CacheMissed(driver)
		return false
	}

	if err := json.Unmarshal(val, dest); err != nil {
		metrics.CacheMissed(driver)
		return false
	}

	metrics.CacheHit(driver)
	return true
}

// Set stores value under key for the store's TTL.
func (s *Store) Set(ctx context.Context, key string, value interface{}) error {
	if !s.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(key), data, s.ttl).Err()
}

// Version returns the generation counter for a namespace. Cached entries
// embed it in their keys, so Bump invalidates a whole namespace at once.
func (s *Store) Version(ctx context.Context, namespace string) int64 {
	if !s.Enabled() {
		return 0
	}
	v, err := s.rdb.Get(ctx, s.key(namespace+":version")).Int64()
	if err != nil {
		return 0
	}
	return v
}

// Bump advances the generation counter for namespace.
func (s *Store) Bump(ctx context.Context, namespace string) {
	if !s.Enabled() {
		return
	}
	if err := s.rdb.Incr(ctx, s.key(namespace+":version")).Err(); err != nil {
		logger.WithCtx(ctx).Warn("cache: bump failed", "namespace", namespace, "error", err)
	}
}

// VersionedKey builds "<namespace>:v<version>:<suffix>".
func VersionedKey(namespace string, version int64, suffix string) string {
	return fmt.Sprintf("%s:v%d:%s", namespace, version, suffix)
}

// Close releases the Redis connection.
func (s *Store) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.rdb.Close()
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"outliner/local-app/src/pkg/log"
)

const defaultRedisTimeout = 5 * time.Second

// RedisConfig configures a Redis-backed store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every key so several applications can share a database.
	Prefix string
	// Timeout bounds each store call. Zero selects a 5s default.
	Timeout time.Duration
}

// RedisStore implements KVStore on Redis strings.
type RedisStore struct {
	client  goredis.UniversalClient
	prefix  string
	timeout time.Duration
	logger  *log.Logger
}

// OpenRedis connects to Redis and verifies the connection with a ping.
func OpenRedis(ctx context.Context, cfg RedisConfig, logger *log.Logger) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRedisTimeout
	}

	client := goredis.NewUniversalClient(&goredis.UniversalOptions{
		Addrs:        []string{cfg.Addr},
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.Info(ctx, "Redis store connected", log.Fields{"addr": cfg.Addr, "db": cfg.DB})
	return NewRedisStore(client, cfg.Prefix, timeout, logger), nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client goredis.UniversalClient, prefix string, timeout time.Duration, logger *log.Logger) *RedisStore {
	if timeout <= 0 {
		timeout = defaultRedisTimeout
	}
	return &RedisStore{client: client, prefix: prefix, timeout: timeout, logger: logger}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", notFound(key)
	}
	if err != nil {
		s.logger.Error(ctx, "Failed to read value", log.Fields{"error": err, "key": key})
		return "", accessError("get", key, err)
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		s.logger.Error(ctx, "Failed to write value", log.Fields{"error": err, "key": key})
		return accessError("set", key, err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		s.logger.Error(ctx, "Failed to remove value", log.Fields{"error": err, "key": key})
		return accessError("remove", key, err)
	}
	return nil
}

// Keys scans for keys under the prefix and returns them without it, sorted.
// SCAN may report a key more than once, so the result is deduplicated.
func (s *RedisStore) Keys(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var keys []string
	iter := s.client.Scan(ctx, 0, escapeGlob(s.prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		key, ok := strings.CutPrefix(iter.Val(), s.prefix)
		if !ok {
			continue
		}
		keys = append(keys, key)
	}
	if err := iter.Err(); err != nil {
		return nil, accessError("keys", "", err)
	}
	slices.Sort(keys)
	return slices.Compact(keys), nil
}

// escapeGlob quotes the characters Redis MATCH patterns treat specially
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *RedisStore) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("close redis client: %w", err)
	}
	return nil
}

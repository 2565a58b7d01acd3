package redisrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	errs "github.com/jrsteele09/riskdesk/internal/errors"
	"github.com/jrsteele09/riskdesk/sessions"
	"github.com/redis/go-redis/v9"
)

// Opinionated default timeouts for Redis operations.
const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
	pingTimeout  = 2 * time.Second
)

var _ sessions.Repo = (*RedisRepo)(nil)

// RedisRepo stores session records as plain Redis strings under a key prefix.
type RedisRepo struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// Option defines a function type to modify the RedisRepo instance.
type Option func(*RedisRepo)

// WithTTL expires the stored record after ttl (0 keeps it until cleared)
func WithTTL(ttl time.Duration) Option {
	return func(r *RedisRepo) {
		r.ttl = ttl
	}
}

// Dial parses a Redis URL and returns a client that has answered a ping.
func Dial(ctx context.Context, redisURL string) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}
	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout

	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping failed: %w", err)
	}
	return client, nil
}

func New(client *redis.Client, prefix string, options ...Option) (*RedisRepo, error) {
	if client == nil {
		return nil, errors.New("[redisrepo New] client is required")
	}
	r := &RedisRepo{client: client, prefix: prefix}
	for _, opt := range options {
		opt(r)
	}
	return r, nil
}

func (r *RedisRepo) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

func (r *RedisRepo) Put(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisRepo) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (r *RedisRepo) Close() error {
	return r.client.Close()
}

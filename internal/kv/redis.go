package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures NewRedis.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	Timeout  time.Duration
}

// Redis stores each key as a plain Redis string under a shared prefix.
type Redis struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

// NewRedis connects and pings the server before returning.
func NewRedis(opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.Timeout,
		MaxRetries:  -1,
	})

	r := NewRedisFromClient(client, opts.Prefix, opts.Timeout)

	ctx, cancel := r.context()
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return r, nil
}

// NewRedisFromClient wraps an existing client. A non-positive timeout means 2s.
func NewRedisFromClient(client *redis.Client, prefix string, timeout time.Duration) *Redis {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Redis{client: client, prefix: prefix, timeout: timeout}
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) key(k string) string {
	return r.prefix + k
}

func (r *Redis) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

func (r *Redis) Get(key string) (string, error) {
	ctx, cancel := r.context()
	defer cancel()

	value, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

func (r *Redis) Set(key, value string) error {
	ctx, cancel := r.context()
	defer cancel()

	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

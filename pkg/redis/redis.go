package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/kivahq/kiva-waitlist/pkg/circuitbreaker"
)

const connectTimeout = 5 * time.Second

type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RedisCache implements the application cache on top of a Redis client.
// Data operations go through a circuit breaker so a dead Redis is not
// hammered on every request; Ping bypasses the breaker so health checks
// always observe the real connection state.
type RedisCache struct {
	client  *redis.Client
	breaker circuitbreaker.CircuitBreaker
}

func NewRedisCache(cfg *Config) (*RedisCache, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis: config is nil")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: connect: %w", err)
	}

	return &RedisCache{
		client:  client,
		breaker: circuitbreaker.NewCircuitBreaker(nil),
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	var value string

	err := c.breaker.Call(func() error {
		result, err := c.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			value = ""
			return nil
		}
		if err != nil {
			return err
		}
		value = result
		return nil
	})

	if err != nil {
		return "", fmt.Errorf("redis: get %q: %w", key, err)
	}
	return value, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	err := c.breaker.Call(func() error {
		return c.client.Set(ctx, key, value, ttl).Err()
	})

	if err != nil {
		return fmt.Errorf("redis: set %q: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	err := c.breaker.Call(func() error {
		return c.client.Del(ctx, key).Err()
	})

	if err != nil {
		return fmt.Errorf("redis: delete %q: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetClient exposes the underlying client for components that need more
// than the cache interface (the Redis rate limiter's Lua script).
func (c *RedisCache) GetClient() *redis.Client {
	return c.client
}

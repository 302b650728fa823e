package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/agendahub/agenda-backend/pkg/config"
	"github.com/agendahub/agenda-backend/pkg/errors"
)

// Client wraps the go-redis client with the narrow surface the rest of the
// codebase needs. Keys are namespaced under "agenda:".
type Client struct {
	rdb *goredis.Client
}

func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "invalid redis url")
	}
	if cfg.Address != "" {
		opts.Addr = cfg.Address
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	opts.DB = cfg.DB
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	rdb := goredis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "redis ping failed")
	}
	return &Client{rdb: rdb}, nil
}

func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "redis set failed")
	}
	return nil
}

// Get returns the empty string, nil when the key does not exist.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err == goredis.Nil {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(errors.CodeDependency, err, "redis get failed")
	}
	return val, nil
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "redis del failed")
	}
	return nil
}

// Incr increments the counter at key and sets its expiry on first increment.
// Used by the login rate limiter's fixed windows.
func (c *Client) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, errors.Wrap(errors.CodeDependency, err, "redis incr failed")
	}
	if count == 1 {
		if err := c.rdb.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, errors.Wrap(errors.CodeDependency, err, "redis expire failed")
		}
	}
	return count, nil
}

func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "redis ping failed")
	}
	return nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

func RefreshTokenKey(accessID string) string {
	return fmt.Sprintf("agenda:refresh:%s", accessID)
}

func LoginAttemptKey(kind, value string) string {
	return fmt.Sprintf("agenda:login-attempts:%s:%s", kind, value)
}

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions controls the ranking cache client.
type RedisOptions struct {
	URL         string
	PoolSize    int
	DialTimeout time.Duration
}

// ConnectRedis builds a client from opts.URL, overrides the pool settings the
// URL leaves unset and pings the server within ctx.
func ConnectRedis(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("redis url must not be empty")
	}

	options, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if opts.PoolSize > 0 {
		options.PoolSize = opts.PoolSize
	}
	if opts.DialTimeout > 0 {
		options.DialTimeout = opts.DialTimeout
	}

	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("unable to connect to redis: %w", err)
	}

	return client, nil
}

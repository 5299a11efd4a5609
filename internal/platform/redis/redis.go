package redis

import (
	"context"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Options selects the Redis endpoint.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Connect builds a client and verifies it answers PING.
func Connect(ctx context.Context, opts Options) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// ConnectOptional returns nil when no address is configured or Redis is unreachable.
func ConnectOptional(ctx context.Context, opts Options, logger *slog.Logger) (*goredis.Client, func()) {
	if strings.TrimSpace(opts.Addr) == "" {
		if logger != nil {
			logger.Warn("REDIS_ADDR not set, one-time codes stay in process memory")
		}
		return nil, func() {}
	}
	client, err := Connect(ctx, opts)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to connect to redis, one-time codes stay in process memory", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if logger != nil {
		logger.Info("redis connection established", slog.String("addr", opts.Addr))
	}
	return client, func() { _ = client.Close() }
}

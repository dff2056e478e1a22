// Package redis holds the Redis backed adapters.
package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Connect initializes a Redis client from a redis:// URL or a host:port
// address and checks that the server answers.
func Connect(ctx context.Context, address string) (*goredis.Client, error) {
	var client *goredis.Client
	if strings.HasPrefix(address, "redis://") || strings.HasPrefix(address, "rediss://") {
		opt, err := goredis.ParseURL(address)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client = goredis.NewClient(opt)
	} else {
		client = goredis.NewClient(&goredis.Options{Addr: address})
	}

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctxPing).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTimeout = 5 * time.Second

	// KeyPrefix namespaces every key this service writes, so the instance can
	// be shared with other apps.
	KeyPrefix = "kancl"
)

// Key joins parts under KeyPrefix, e.g. Key("translations", "en") is
// "kancl:translations:en".
func Key(parts ...string) string {
	return KeyPrefix + ":" + strings.Join(parts, ":")
}

// Config captures the settings for establishing a Redis connection.
type Config struct {
	Addr     string
	Password string
	DB       int
	Timeout  time.Duration
}

// Connect builds a client and checks it with a ping before returning.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

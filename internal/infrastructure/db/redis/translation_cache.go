package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jandrly/kancl/internal/core/domain"
)

const defaultCacheTTL = 10 * time.Minute

// TranslationCache keeps serialized locale maps under Key("translations", locale).
type TranslationCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewTranslationCache uses a 10 minute TTL when ttl is not positive.
func NewTranslationCache(client redis.Cmdable, ttl time.Duration) *TranslationCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &TranslationCache{client: client, ttl: ttl}
}

func (c *TranslationCache) Get(ctx context.Context, locale string) (*domain.Translation, bool, error) {
	raw, err := c.client.Get(ctx, c.key(locale)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var t domain.Translation
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	return &t, true, nil
}

func (c *TranslationCache) Set(ctx context.Context, t *domain.Translation) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(t.Locale), raw, c.ttl).Err()
}

func (c *TranslationCache) Invalidate(ctx context.Context, locale string) error {
	return c.client.Del(ctx, c.key(locale)).Err()
}

func (c *TranslationCache) key(locale string) string {
	return Key("translations", locale)
}

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenCache is the allowlist of active login tokens, keyed by token
// id (jti). Logout removes the entry, which invalidates the token
// server-side before its JWT expiry.
type TokenCache interface {
	Add(ctx context.Context, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenID string) error
}

type tokenCache struct {
	client *redis.Client
}

// NewTokenCache creates a Redis-backed token cache
func NewTokenCache(client *redis.Client) TokenCache {
	return &tokenCache{client: client}
}

func (c *tokenCache) key(tokenID string) string {
	return fmt.Sprintf("token:%s", tokenID)
}

func (c *tokenCache) Add(ctx context.Context, tokenID string, ttl time.Duration) error {
	return c.client.Set(ctx, c.key(tokenID), "1", ttl).Err()
}

func (c *tokenCache) Exists(ctx context.Context, tokenID string) (bool, error) {
	n, err := c.client.Exists(ctx, c.key(tokenID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *tokenCache) Revoke(ctx context.Context, tokenID string) error {
	return c.client.Del(ctx, c.key(tokenID)).Err()
}

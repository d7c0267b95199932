package redis

// Package redis provides Redis-based adapters for identity caching, admin
// sessions and the auth-changed event channel.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/ports"
)

// IdentityCache stores the per-device identity entries in Redis. Keys mirror
// the browser-era layout: userId, isLoggedIn and adminData per device scope.
type IdentityCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// IdentityCacheOptions groups constructor parameters for IdentityCache.
type IdentityCacheOptions struct {
	Client redis.UniversalClient
	Prefix string
	// TTL bounds how long an idle device scope keeps its entries. Zero
	// means no expiry.
	TTL time.Duration
}

// NewIdentityCache creates a Redis-backed identity cache.
func NewIdentityCache(opts IdentityCacheOptions) *IdentityCache {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "identity:"
	}
	return &IdentityCache{client: opts.Client, prefix: prefix, ttl: opts.TTL}
}

func (c *IdentityCache) clientIDKey(scope string) string { return c.prefix + scope + ":userId" }
func (c *IdentityCache) loggedInKey(scope string) string { return c.prefix + scope + ":isLoggedIn" }
func (c *IdentityCache) adminKey(scope string) string    { return c.prefix + scope + ":adminData" }

// ClientID returns the stored client id for a scope.
func (c *IdentityCache) ClientID(ctx context.Context, scope string) (string, error) {
	id, err := c.client.Get(ctx, c.clientIDKey(scope)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ports.ErrCacheMiss
		}
		return "", fmt.Errorf("redis get client id: %w", err)
	}
	return id, nil
}

// SetClientID stores the client id and the isLoggedIn marker together.
func (c *IdentityCache) SetClientID(ctx context.Context, scope, id string) error {
	if id == "" {
		return errors.New("client id cannot be empty")
	}
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, c.clientIDKey(scope), id, c.ttl)
	pipe.Set(ctx, c.loggedInKey(scope), "true", c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set client id: %w", err)
	}
	return nil
}

// ClearClientID removes the client entries for a scope. Used for self-healing
// when a cached id no longer matches a row.
func (c *IdentityCache) ClearClientID(ctx context.Context, scope string) error {
	if err := c.client.Del(ctx, c.clientIDKey(scope), c.loggedInKey(scope)).Err(); err != nil {
		return fmt.Errorf("redis clear client id: %w", err)
	}
	return nil
}

// Admin returns the cached admin entry for a scope.
func (c *IdentityCache) Admin(ctx context.Context, scope string) (ports.CachedAdmin, error) {
	data, err := c.client.Get(ctx, c.adminKey(scope)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ports.CachedAdmin{}, ports.ErrCacheMiss
		}
		return ports.CachedAdmin{}, fmt.Errorf("redis get admin entry: %w", err)
	}

	var entry ports.CachedAdmin
	if unmarshalErr := json.Unmarshal([]byte(data), &entry); unmarshalErr != nil {
		return ports.CachedAdmin{}, fmt.Errorf("unmarshal admin entry: %w", unmarshalErr)
	}
	return entry, nil
}

// SetAdmin stores the admin entry for a scope.
func (c *IdentityCache) SetAdmin(ctx context.Context, scope string, entry ports.CachedAdmin) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal admin entry: %w", err)
	}
	if err := c.client.Set(ctx, c.adminKey(scope), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set admin entry: %w", err)
	}
	return nil
}

// ClearAdmin removes the admin entry for a scope.
func (c *IdentityCache) ClearAdmin(ctx context.Context, scope string) error {
	if err := c.client.Del(ctx, c.adminKey(scope)).Err(); err != nil {
		return fmt.Errorf("redis clear admin entry: %w", err)
	}
	return nil
}

// ClearAll removes every identity entry for the scope in one round trip.
func (c *IdentityCache) ClearAll(ctx context.Context, scope string) error {
	if err := c.client.Del(ctx,
		c.clientIDKey(scope),
		c.loggedInKey(scope),
		c.adminKey(scope),
	).Err(); err != nil {
		return fmt.Errorf("redis clear identity entries: %w", err)
	}
	return nil
}

var _ ports.IdentityCache = (*IdentityCache)(nil)

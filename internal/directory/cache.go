// Package directory resolves user and stylist ids to display names. The
// backend's name listing is slow and changes rarely, so lookups go through a
// Redis cache with a TTL and only fall through to the backend on a miss.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/glamora-hn/booking-engine/pkg/logging"
)

const namesKey = "directory:names"

// UserName is one id-to-name directory entry.
type UserName struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Lister fetches the full name directory from the backend.
type Lister interface {
	ListUserNames(ctx context.Context) ([]UserName, error)
}

// ListerFunc adapts a plain function to a Lister.
type ListerFunc func(ctx context.Context) ([]UserName, error)

// ListUserNames implements Lister.
func (f ListerFunc) ListUserNames(ctx context.Context) ([]UserName, error) {
	return f(ctx)
}

// Cache is the Redis-backed name directory.
type Cache struct {
	client *redis.Client
	lister Lister
	ttl    time.Duration
	logger *logging.Logger
}

// NewCache creates a directory cache. Entries expire ttl after each fill.
func NewCache(client *redis.Client, lister Lister, ttl time.Duration, logger *logging.Logger) *Cache {
	if client == nil {
		panic("directory: redis client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Cache{
		client: client,
		lister: lister,
		ttl:    ttl,
		logger: logger,
	}
}

// Names returns the directory, from cache when warm. A cold or expired cache
// triggers one backend fetch; a corrupt cache entry is treated as a miss.
func (c *Cache) Names(ctx context.Context) ([]UserName, error) {
	raw, err := c.client.Get(ctx, namesKey).Result()
	if err == nil {
		var names []UserName
		if err := json.Unmarshal([]byte(raw), &names); err == nil {
			return names, nil
		}
		c.logger.Warn("directory: dropping corrupt cache entry")
	} else if err != redis.Nil {
		return nil, fmt.Errorf("directory: read cache: %w", err)
	}
	return c.Refresh(ctx)
}

// Lookup resolves one id to a name; "" when the id is not in the directory.
func (c *Cache) Lookup(ctx context.Context, id string) (string, error) {
	names, err := c.Names(ctx)
	if err != nil {
		return "", err
	}
	for _, n := range names {
		if n.ID == id {
			return n.Name, nil
		}
	}
	return "", nil
}

// Refresh fetches the directory from the backend and overwrites the cache.
func (c *Cache) Refresh(ctx context.Context) ([]UserName, error) {
	names, err := c.lister.ListUserNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("directory: fetch names: %w", err)
	}
	data, err := json.Marshal(names)
	if err != nil {
		return nil, fmt.Errorf("directory: marshal names: %w", err)
	}
	if err := c.client.Set(ctx, namesKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("directory: cache write failed", "error", err)
	}
	return names, nil
}

// Invalidate drops the cached directory.
func (c *Cache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, namesKey).Err(); err != nil {
		return fmt.Errorf("directory: invalidate cache: %w", err)
	}
	return nil
}

// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"planning_backend/internal/platform/db"
)

// DefaultTTL applies when no positive TTL is configured.
const DefaultTTL = 5 * time.Minute

// CachingRepository decorates a db.CRUD with Redis read-through caching.
// Reads are served from Redis when possible; every write invalidates the whole namespace.
type CachingRepository[T any] struct {
	inner     db.CRUD[T]
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ db.CRUD[struct{}] = (*CachingRepository[struct{}])(nil)

// NewCachingRepository wraps inner. A nil rdb disables caching entirely.
// If ttl is 0, it defaults to DefaultTTL.
func NewCachingRepository[T any](rdb *redis.Client, ttl time.Duration, inner db.CRUD[T], namespace string) *CachingRepository[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachingRepository[T]{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: safe(namespace),
	}
}

// GetAll returns the live rows, checking the cache first.
func (c *CachingRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	if c.rdb == nil {
		return c.inner.GetAll(ctx)
	}
	key := c.namespace + ":all"

	var out []T
	if c.load(ctx, key, &out) {
		return out, nil
	}

	out, err := c.inner.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, out)
	return out, nil
}

// GetByID returns one live row. Misses (including db.ErrNotFound) are never cached.
func (c *CachingRepository[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	if c.rdb == nil {
		return c.inner.GetByID(ctx, id)
	}
	key := fmt.Sprintf("%s:id:%d", c.namespace, id)

	var out T
	if c.load(ctx, key, &out) {
		return &out, nil
	}

	got, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, got)
	return got, nil
}

func (c *CachingRepository[T]) Add(ctx context.Context, entity *T) error {
	if err := c.inner.Add(ctx, entity); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachingRepository[T]) Update(ctx context.Context, entity *T) error {
	if err := c.inner.Update(ctx, entity); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachingRepository[T]) Delete(ctx context.Context, id uint) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// load decodes the cached value at key into dst. Corrupted entries are dropped.
func (c *CachingRepository[T]) load(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// store is best effort: a failed write only costs a later cache miss.
func (c *CachingRepository[T]) store(ctx context.Context, key string, v any) {
	if b, err := json.Marshal(v); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
}

func (c *CachingRepository[T]) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	_ = c.deleteByPattern(ctx, c.namespace+":*")
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingRepository[T]) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}

package redis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// invalidated is stored in place of a dropped view. Fill refuses to overwrite
// it, so a reader holding a row loaded before the invalidation cannot put it
// back.
var invalidated = []byte("\x00invalidated")

const defaultInvalidationTTL = time.Minute

// ViewCache is a JSON-backed Redis cache for read projections of type T.
//
// Entries are only ever written with SET NX. Invalidate replaces the entry with
// a marker that lives as long as a regular entry would, which closes the window
// between a reader loading a row and filling the cache with it.
type ViewCache[T any] struct {
	client          *goredis.Client
	ttl             time.Duration
	invalidationTTL time.Duration
	log             *slog.Logger
}

// NewViewCache returns a cache whose entries expire after ttl. A zero ttl
// keeps entries until invalidated; markers then expire after a minute.
func NewViewCache[T any](client *goredis.Client, ttl time.Duration, log *slog.Logger) *ViewCache[T] {
	if log == nil {
		log = slog.Default()
	}
	invalidationTTL := ttl
	if invalidationTTL <= 0 {
		invalidationTTL = defaultInvalidationTTL
	}
	return &ViewCache[T]{client: client, ttl: ttl, invalidationTTL: invalidationTTL, log: log}
}

// Get returns (nil, false) on a miss, an invalidated key, a Redis error, or
// undecodable data.
func (c *ViewCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn("view cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	if bytes.Equal(data, invalidated) {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		c.log.Warn("view cache entry undecodable", "key", key, "error", err)
		return nil, false
	}
	return &v, true
}

// Fill stores value under key unless the key already holds an entry or an
// invalidation marker. It reports whether the value was stored.
func (c *ViewCache[T]) Fill(ctx context.Context, key string, value *T) bool {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("view cache marshal failed", "key", key, "error", err)
		return false
	}
	stored, err := c.client.SetNX(ctx, key, data, c.ttl).Result()
	if err != nil {
		c.log.Warn("view cache write failed", "key", key, "error", err)
		return false
	}
	return stored
}

// Invalidate drops the entry under key and blocks refills until the marker
// expires.
func (c *ViewCache[T]) Invalidate(ctx context.Context, key string) {
	if err := c.client.Set(ctx, key, invalidated, c.invalidationTTL).Err(); err != nil {
		c.log.Warn("view cache invalidation failed", "key", key, "error", err)
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// response.go provides the Valkey-backed response cache. Public catalog
// responses are stored under "page:<tag>:<key>" so an admin write can drop
// everything derived from one catalog with a single prefix scan.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix is the Valkey key prefix for cached responses.
const keyPrefix = "page:"

// genPrefix holds per-tag generation counters. It must not match the
// keyPrefix scan pattern.
const genPrefix = "pagegen:"

// setIfCurrentScript stores ARGV[2] at KEYS[2] with a PX of ARGV[3] only
// when the generation at KEYS[1] equals ARGV[1].
var setIfCurrentScript = redis.NewScript(`
local gen = tonumber(redis.call('GET', KEYS[1]) or '0')
if gen ~= tonumber(ARGV[1]) then
	return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

// ResponseCache manages response caching in Valkey.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache creates a cache backed by the given Valkey client.
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &ResponseCache{client: client, ttl: ttl}
}

func cacheKey(tag, key string) string {
	return keyPrefix + tag + ":" + key
}

// Get retrieves a cached response. Returns false on miss or error.
func (rc *ResponseCache) Get(ctx context.Context, tag, key string) ([]byte, bool) {
	val, err := rc.client.Get(ctx, cacheKey(tag, key)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("response cache get error", "tag", tag, "key", key, "error", err)
		return nil, false
	}
	slog.Debug("response cache hit", "tag", tag, "key", key)
	return val, true
}

// Set stores a response with the configured TTL.
func (rc *ResponseCache) Set(ctx context.Context, tag, key string, body []byte) {
	if err := rc.client.Set(ctx, cacheKey(tag, key), body, rc.ttl).Err(); err != nil {
		slog.Warn("response cache set error", "tag", tag, "key", key, "error", err)
	}
}

// Generation returns the tag's generation, 0 when never invalidated.
func (rc *ResponseCache) Generation(ctx context.Context, tag string) uint64 {
	gen, err := rc.client.Get(ctx, genPrefix+tag).Uint64()
	if err != nil && err != redis.Nil {
		slog.Warn("response cache generation error", "tag", tag, "error", err)
	}
	return gen
}

// SetIfCurrent stores a response only while the tag is still at gen.
func (rc *ResponseCache) SetIfCurrent(ctx context.Context, tag, key string, gen uint64, body []byte) bool {
	keys := []string{genPrefix + tag, cacheKey(tag, key)}
	stored, err := setIfCurrentScript.Run(ctx, rc.client, keys, gen, body, rc.ttl.Milliseconds()).Int()
	if err != nil {
		slog.Warn("response cache set error", "tag", tag, "key", key, "error", err)
		return false
	}
	if stored == 0 {
		slog.Debug("response cache set skipped, tag invalidated", "tag", tag, "key", key)
	}
	return stored == 1
}

// InvalidateTag bumps the tag's generation, then removes every response
// under tag by scanning for its prefix.
func (rc *ResponseCache) InvalidateTag(ctx context.Context, tag string) {
	if err := rc.client.Incr(ctx, genPrefix+tag).Err(); err != nil {
		slog.Warn("response cache generation bump error", "tag", tag, "error", err)
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := rc.client.Scan(ctx, cursor, keyPrefix+tag+":*", 100).Result()
		if err != nil {
			slog.Warn("response cache scan error", "tag", tag, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("response cache bulk delete error", "tag", tag, "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	slog.Debug("response cache invalidated", "tag", tag, "deleted", deleted)
}

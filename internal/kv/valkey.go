// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package kv

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// versionSuffix is appended to a document key to hold its version counter.
// The document itself stays a plain JSON string at the bare key.
const versionSuffix = ":version"

// casScript writes ARGV[1] to KEYS[1] and bumps KEYS[2] only if the current
// version equals ARGV[2]. Returns the new version, or -1 on mismatch.
// A missing document is version 0 whatever counter was left behind, the
// same as Get reports it.
var casScript = redis.NewScript(`
local current = 0
if redis.call('EXISTS', KEYS[1]) == 1 then
	current = tonumber(redis.call('GET', KEYS[2]) or '0')
end
if current ~= tonumber(ARGV[2]) then
	return -1
end
redis.call('SET', KEYS[1], ARGV[1])
return redis.call('INCR', KEYS[2])
`)

// Valkey stores documents in Valkey (or any Redis-compatible server).
// The client is owned by the caller; Close leaves it open.
type Valkey struct {
	client *redis.Client
}

// NewValkey creates a Store on top of an already connected client.
func NewValkey(client *redis.Client) *Valkey {
	return &Valkey{client: client}
}

func (v *Valkey) Get(ctx context.Context, key string) (*Entry, error) {
	vals, err := v.client.MGet(ctx, key, key+versionSuffix).Result()
	if err != nil {
		return nil, fmt.Errorf("kv get %s: %w", key, err)
	}

	raw, ok := vals[0].(string)
	if !ok {
		return nil, nil
	}

	var version int64
	if s, ok := vals[1].(string); ok {
		if _, err := fmt.Sscan(s, &version); err != nil {
			return nil, fmt.Errorf("kv get %s: bad version %q: %w", key, s, err)
		}
	}

	return &Entry{Value: []byte(raw), Version: version}, nil
}

func (v *Valkey) Set(ctx context.Context, key string, value []byte) error {
	_, err := v.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, value, 0)
		pipe.Incr(ctx, key+versionSuffix)
		return nil
	})
	if err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

func (v *Valkey) CompareAndSet(ctx context.Context, key string, value []byte, expected int64) (int64, error) {
	next, err := casScript.Run(ctx, v.client, []string{key, key + versionSuffix}, value, expected).Int64()
	if err != nil {
		return 0, fmt.Errorf("kv compare-and-set %s: %w", key, err)
	}
	if next < 0 {
		return 0, ErrVersionMismatch
	}
	return next, nil
}

func (v *Valkey) Close() error { return nil }

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package kv is the key-value adapter the catalogs are persisted through.
// Each key holds one whole JSON document together with a version counter
// that every write increments, so callers can detect concurrent edits with
// CompareAndSet instead of silently overwriting each other.
package kv

import (
	"context"
	"errors"
)

// ErrVersionMismatch is returned by CompareAndSet when the stored version
// differs from the expected one. Nothing is written.
var ErrVersionMismatch = errors.New("kv: version mismatch")

// Entry is a stored document and its version. An absent key has version 0.
type Entry struct {
	Value   []byte
	Version int64
}

// Store persists opaque JSON documents by key.
type Store interface {
	// Get returns the entry for key, or (nil, nil) if the key is absent.
	Get(ctx context.Context, key string) (*Entry, error)

	// Set overwrites key unconditionally.
	Set(ctx context.Context, key string, value []byte) error

	// CompareAndSet writes value only if the stored version equals
	// expected (0 meaning the key must not exist) and returns the new
	// version.
	CompareAndSet(ctx context.Context, key string, value []byte, expected int64) (int64, error)

	Close() error
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long a cached response stays valid.
const DefaultTTL = 5 * time.Minute

// Tags group cached responses by the catalog they were built from.
const (
	TagProducts = "products"
	TagPDFs     = "pdfs"
)

// Cache stores rendered responses grouped by tag. Cache failures are
// logged and reported as misses, never returned to the caller.
//
// Each tag carries a generation that InvalidateTag advances. A reader that
// builds a response from the backing store takes the generation first and
// stores with SetIfCurrent, so a body loaded before an invalidation is
// never cached after it.
type Cache interface {
	Get(ctx context.Context, tag, key string) ([]byte, bool)
	Set(ctx context.Context, tag, key string, body []byte)
	// Generation returns the tag's current generation.
	Generation(ctx context.Context, tag string) uint64
	// SetIfCurrent stores body only while tag is still at gen.
	SetIfCurrent(ctx context.Context, tag, key string, gen uint64, body []byte) bool
	// InvalidateTag advances the tag's generation and drops every entry
	// stored under it.
	InvalidateTag(ctx context.Context, tag string)
}

// Nop is a Cache that never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string, string) ([]byte, bool)                { return nil, false }
func (Nop) Set(context.Context, string, string, []byte)                       {}
func (Nop) Generation(context.Context, string) uint64                         { return 0 }
func (Nop) SetIfCurrent(context.Context, string, string, uint64, []byte) bool { return false }
func (Nop) InvalidateTag(context.Context, string)                             {}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage stores uploaded documents in object storage and returns
// the public URLs they are served from. Backends: S3-compatible (AWS SDK
// v2, path-style for CEPH/Hetzner), MinIO, and in-memory for tests.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
)

// MaxUploadBytes is the largest file accepted for upload (20 MB).
const MaxUploadBytes = 20 << 20

// ErrForeignURL reports a URL that does not point into this storage, so
// there is no object to delete.
var ErrForeignURL = errors.New("storage: url does not belong to this storage")

// Blobs stores objects under keys and addresses them by public URL.
type Blobs interface {
	// Put uploads body under key and returns its public URL.
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	// Delete removes the object behind a URL previously returned by Put.
	Delete(ctx context.Context, url string) error
}

// keyFromURL strips prefix from rawURL when it matches.
func keyFromURL(rawURL, prefix string) (string, bool) {
	key, ok := strings.CutPrefix(rawURL, prefix)
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package service applies admin edits to the persisted catalogs. Every
// mutation loads the current document, checks cross-cutting rules, applies
// a pure change, writes it back against the version it read, and drops
// the public cache for that catalog.
package service

import "errors"

var (
	// ErrCategoryNotEmpty reports an attempt to delete a category that
	// still holds products.
	ErrCategoryNotEmpty = errors.New("category still has products")

	// ErrConflict reports that the catalog changed between load and save.
	// The caller may reload and retry.
	ErrConflict = errors.New("catalog was modified concurrently")

	// ErrInvalidUpload reports a missing name or file, or a non-PDF file.
	ErrInvalidUpload = errors.New("invalid upload")

	// ErrTooLarge reports an upload above the size limit.
	ErrTooLarge = errors.New("file too large")
)

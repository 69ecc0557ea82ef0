// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"encoding/json"
	"fmt"

	"sarren/internal/catalog"
	"sarren/internal/documents"
	"sarren/internal/kv"
)

// ProductStore loads and saves the product catalog document.
type ProductStore struct {
	kv kv.Store
}

// NewProductStore returns a new ProductStore.
func NewProductStore(s kv.Store) *ProductStore {
	return &ProductStore{kv: s}
}

// Load returns the catalog and the version it was read at. An absent
// document yields an empty catalog at version 0.
func (s *ProductStore) Load(ctx context.Context) (catalog.ProductCatalog, int64, error) {
	var c catalog.ProductCatalog
	version, found, err := load(ctx, s.kv, catalog.Key, &c)
	if err != nil {
		return catalog.Empty(), 0, err
	}
	if !found {
		return catalog.Empty(), 0, nil
	}
	return catalog.Normalize(c), version, nil
}

// Save writes c if the stored version still equals version and returns
// the new version. A concurrent write surfaces as kv.ErrVersionMismatch.
func (s *ProductStore) Save(ctx context.Context, c catalog.ProductCatalog, version int64) (int64, error) {
	return save(ctx, s.kv, catalog.Key, catalog.Normalize(c), version)
}

// Put overwrites the catalog unconditionally.
func (s *ProductStore) Put(ctx context.Context, c catalog.ProductCatalog) error {
	return put(ctx, s.kv, catalog.Key, catalog.Normalize(c))
}

// DocumentStore loads and saves the PDF catalog document.
type DocumentStore struct {
	kv kv.Store
}

// NewDocumentStore returns a new DocumentStore.
func NewDocumentStore(s kv.Store) *DocumentStore {
	return &DocumentStore{kv: s}
}

// Load returns the PDF catalog and its version. Absent means empty.
func (s *DocumentStore) Load(ctx context.Context) (documents.PdfCatalog, int64, error) {
	var c documents.PdfCatalog
	version, found, err := load(ctx, s.kv, documents.Key, &c)
	if err != nil {
		return documents.Empty(), 0, err
	}
	if !found {
		return documents.Empty(), 0, nil
	}
	return documents.Normalize(c), version, nil
}

// Save writes c if the stored version still equals version.
func (s *DocumentStore) Save(ctx context.Context, c documents.PdfCatalog, version int64) (int64, error) {
	return save(ctx, s.kv, documents.Key, documents.Normalize(c), version)
}

// Put overwrites the PDF catalog unconditionally.
func (s *DocumentStore) Put(ctx context.Context, c documents.PdfCatalog) error {
	return put(ctx, s.kv, documents.Key, documents.Normalize(c))
}

func load(ctx context.Context, s kv.Store, key string, dst any) (int64, bool, error) {
	e, err := s.Get(ctx, key)
	if err != nil {
		return 0, false, fmt.Errorf("load %s: %w", key, err)
	}
	if e == nil {
		return 0, false, nil
	}
	if err := json.Unmarshal(e.Value, dst); err != nil {
		return 0, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return e.Version, true, nil
}

func save(ctx context.Context, s kv.Store, key string, v any, version int64) (int64, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", key, err)
	}
	next, err := s.CompareAndSet(ctx, key, data, version)
	if err != nil {
		return 0, fmt.Errorf("save %s: %w", key, err)
	}
	return next, nil
}

func put(ctx context.Context, s kv.Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, data); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

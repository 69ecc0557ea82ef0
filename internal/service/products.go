package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"sarren/internal/cache"
	"sarren/internal/catalog"
	"sarren/internal/kv"
	"sarren/internal/store"
)

// Products edits the product catalog.
type Products struct {
	store *store.ProductStore
	cache cache.Cache
}

// NewProducts creates the product catalog service.
func NewProducts(s *store.ProductStore, c cache.Cache) *Products {
	return &Products{store: s, cache: c}
}

// Get returns the current catalog. A catalog that was never written is empty.
func (p *Products) Get(ctx context.Context) (catalog.ProductCatalog, error) {
	c, _, err := p.store.Load(ctx)
	if err != nil {
		return catalog.Empty(), fmt.Errorf("get products: %w", err)
	}
	return c, nil
}

// AddCategory creates an empty category from title.
func (p *Products) AddCategory(ctx context.Context, title string) (catalog.ProductCatalog, error) {
	return p.mutate(ctx, "add category", func(c catalog.ProductCatalog) (catalog.ProductCatalog, error) {
		return catalog.AddCategory(c, title)
	})
}

// UpdateCategory renames a category.
func (p *Products) UpdateCategory(ctx context.Context, id, title string) (catalog.ProductCatalog, error) {
	return p.mutate(ctx, "update category", func(c catalog.ProductCatalog) (catalog.ProductCatalog, error) {
		return catalog.UpdateCategory(c, id, title)
	})
}

// DeleteCategory removes a category that has no products.
func (p *Products) DeleteCategory(ctx context.Context, id string) (catalog.ProductCatalog, error) {
	return p.mutate(ctx, "delete category", func(c catalog.ProductCatalog) (catalog.ProductCatalog, error) {
		if !catalog.IsCategoryEmpty(c, id) {
			return c, ErrCategoryNotEmpty
		}
		return catalog.DeleteCategory(c, id)
	})
}

// AddProduct creates a product in the given category.
func (p *Products) AddProduct(ctx context.Context, categoryID string, in catalog.ProductInput) (catalog.ProductCatalog, error) {
	return p.mutate(ctx, "add product", func(c catalog.ProductCatalog) (catalog.ProductCatalog, error) {
		next, product, err := catalog.AddProduct(c, categoryID, in)
		if err == nil {
			slog.Debug("product created", "id", product.ID, "category", categoryID)
		}
		return next, err
	})
}

// UpdateProduct merges patch into the product with the given id.
func (p *Products) UpdateProduct(ctx context.Context, id string, patch catalog.ProductPatch) (catalog.ProductCatalog, error) {
	return p.mutate(ctx, "update product", func(c catalog.ProductCatalog) (catalog.ProductCatalog, error) {
		return catalog.UpdateProduct(c, id, patch)
	})
}

// DeleteProduct removes the product with the given id.
func (p *Products) DeleteProduct(ctx context.Context, id string) (catalog.ProductCatalog, error) {
	return p.mutate(ctx, "delete product", func(c catalog.ProductCatalog) (catalog.ProductCatalog, error) {
		return catalog.DeleteProduct(c, id)
	})
}

// mutate runs one load, change, save, invalidate cycle. When change fails
// the stored catalog is untouched and returned alongside the error, which
// lets callers treat catalog.ErrNotFound as a no-op.
func (p *Products) mutate(ctx context.Context, op string, change func(catalog.ProductCatalog) (catalog.ProductCatalog, error)) (catalog.ProductCatalog, error) {
	current, version, err := p.store.Load(ctx)
	if err != nil {
		return catalog.Empty(), fmt.Errorf("%s: %w", op, err)
	}

	next, err := change(current)
	if err != nil {
		return current, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := p.store.Save(ctx, next, version); err != nil {
		if errors.Is(err, kv.ErrVersionMismatch) {
			return current, fmt.Errorf("%s: %w", op, ErrConflict)
		}
		return current, fmt.Errorf("%s: %w", op, err)
	}

	p.cache.InvalidateTag(ctx, cache.TagProducts)
	return next, nil
}

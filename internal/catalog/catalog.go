// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog holds the product catalog document (categories containing
// products) and the pure functions that mutate it. Every mutator returns a
// new ProductCatalog and leaves its input untouched, so callers can load a
// catalog, apply a change, and persist the result without aliasing.
package catalog

import (
	"errors"
	"slices"

	"github.com/google/uuid"

	"sarren/internal/slug"
)

// Key is the KV key the product catalog is persisted under.
const Key = "products"

var (
	// ErrNotFound reports that the targeted category or product does not
	// exist. The returned catalog is the unchanged input.
	ErrNotFound = errors.New("catalog: not found")

	// ErrConflict reports that a new category's id collides with an
	// existing one.
	ErrConflict = errors.New("catalog: category id already exists")
)

// Product is a single catalog entry. IDs are unique across the whole
// catalog, not just within a category.
type Product struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Name  string `json:"name"`
	Desc  string `json:"desc"`
}

// Category groups products. ID is the slug of the title at creation time
// and does not change when the title is edited.
type Category struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Products []Product `json:"products"`
}

// ProductCatalog is the root document. Category order is display order.
type ProductCatalog struct {
	Categories []Category `json:"categories"`
}

// ProductInput carries the fields of a product being created.
type ProductInput struct {
	Label string
	Name  string
	Desc  string
}

// ProductPatch carries a partial product update. Nil fields are preserved.
type ProductPatch struct {
	Label *string
	Name  *string
	Desc  *string
}

// newID generates product ids. Tests may replace it.
var newID = uuid.NewString

// Empty returns a catalog with no categories.
func Empty() ProductCatalog {
	return ProductCatalog{Categories: []Category{}}
}

// Normalize replaces nil slices with empty ones so the catalog always
// encodes as arrays rather than null. Decoded documents pass through here.
func Normalize(c ProductCatalog) ProductCatalog {
	out := ProductCatalog{Categories: make([]Category, len(c.Categories))}
	for i, cat := range c.Categories {
		if cat.Products == nil {
			cat.Products = []Product{}
		}
		out.Categories[i] = cat
	}
	return out
}

// AddCategory appends a new, empty category whose id is derived from title.
// A title with no letters or digits yields the empty id, which is still a
// valid id for the first such category. Only an id already in use is
// rejected, with ErrConflict.
func AddCategory(c ProductCatalog, title string) (ProductCatalog, error) {
	id := slug.Generate(title)
	if _, ok := FindCategory(c, id); ok {
		return c, ErrConflict
	}

	categories := make([]Category, 0, len(c.Categories)+1)
	categories = append(categories, c.Categories...)
	categories = append(categories, Category{ID: id, Title: title, Products: []Product{}})
	return ProductCatalog{Categories: categories}, nil
}

// UpdateCategory replaces the title of the category with the given id.
// The id and the products are left as they are.
func UpdateCategory(c ProductCatalog, id, title string) (ProductCatalog, error) {
	idx := categoryIndex(c, id)
	if idx < 0 {
		return c, ErrNotFound
	}

	categories := slices.Clone(c.Categories)
	categories[idx].Title = title
	return ProductCatalog{Categories: categories}, nil
}

// DeleteCategory removes the category with the given id. Whether the
// category still holds products is the caller's concern.
func DeleteCategory(c ProductCatalog, id string) (ProductCatalog, error) {
	idx := categoryIndex(c, id)
	if idx < 0 {
		return c, ErrNotFound
	}

	categories := make([]Category, 0, len(c.Categories)-1)
	categories = append(categories, c.Categories[:idx]...)
	categories = append(categories, c.Categories[idx+1:]...)
	return ProductCatalog{Categories: categories}, nil
}

// AddProduct assigns a fresh id to the product and appends it to the
// category's product list. The created product is returned alongside.
func AddProduct(c ProductCatalog, categoryID string, in ProductInput) (ProductCatalog, Product, error) {
	idx := categoryIndex(c, categoryID)
	if idx < 0 {
		return c, Product{}, ErrNotFound
	}

	p := Product{ID: newID(), Label: in.Label, Name: in.Name, Desc: in.Desc}

	categories := slices.Clone(c.Categories)
	products := make([]Product, 0, len(categories[idx].Products)+1)
	products = append(products, categories[idx].Products...)
	categories[idx].Products = append(products, p)
	return ProductCatalog{Categories: categories}, p, nil
}

// UpdateProduct merges the non-nil fields of patch into the first product
// with the given id, scanning categories in order.
func UpdateProduct(c ProductCatalog, productID string, patch ProductPatch) (ProductCatalog, error) {
	ci, pi := productIndex(c, productID)
	if ci < 0 {
		return c, ErrNotFound
	}

	categories := slices.Clone(c.Categories)
	products := slices.Clone(categories[ci].Products)
	p := products[pi]
	if patch.Label != nil {
		p.Label = *patch.Label
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Desc != nil {
		p.Desc = *patch.Desc
	}
	products[pi] = p
	categories[ci].Products = products
	return ProductCatalog{Categories: categories}, nil
}

// DeleteProduct removes the product with the given id from whichever
// category holds it.
func DeleteProduct(c ProductCatalog, productID string) (ProductCatalog, error) {
	ci, pi := productIndex(c, productID)
	if ci < 0 {
		return c, ErrNotFound
	}

	categories := slices.Clone(c.Categories)
	old := categories[ci].Products
	products := make([]Product, 0, len(old)-1)
	products = append(products, old[:pi]...)
	products = append(products, old[pi+1:]...)
	categories[ci].Products = products
	return ProductCatalog{Categories: categories}, nil
}

// IsCategoryEmpty reports whether the category has no products. An
// unknown id also reports true, so callers guarding a delete must check
// existence separately.
func IsCategoryEmpty(c ProductCatalog, id string) bool {
	cat, ok := FindCategory(c, id)
	if !ok {
		return true
	}
	return len(cat.Products) == 0
}

// FindCategory returns the category with the given id.
func FindCategory(c ProductCatalog, id string) (Category, bool) {
	idx := categoryIndex(c, id)
	if idx < 0 {
		return Category{}, false
	}
	return c.Categories[idx], true
}

// FindProduct returns the first product with the given id and the id of
// the category holding it.
func FindProduct(c ProductCatalog, productID string) (Product, string, bool) {
	ci, pi := productIndex(c, productID)
	if ci < 0 {
		return Product{}, "", false
	}
	return c.Categories[ci].Products[pi], c.Categories[ci].ID, true
}

// ProductCount returns the number of products across all categories.
func ProductCount(c ProductCatalog) int {
	n := 0
	for _, cat := range c.Categories {
		n += len(cat.Products)
	}
	return n
}

func categoryIndex(c ProductCatalog, id string) int {
	return slices.IndexFunc(c.Categories, func(cat Category) bool {
		return cat.ID == id
	})
}

func productIndex(c ProductCatalog, productID string) (int, int) {
	for ci, cat := range c.Categories {
		for pi, p := range cat.Products {
			if p.ID == productID {
				return ci, pi
			}
		}
	}
	return -1, -1
}

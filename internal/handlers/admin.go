// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers of the catalog API. Every
// response is JSON; errors are {"error": "<message>"}.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"sarren/internal/catalog"
	"sarren/internal/service"
)

// Admin groups the catalog editing handlers.
type Admin struct {
	products  *service.Products
	documents *service.Documents
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(products *service.Products, documents *service.Documents) *Admin {
	return &Admin{products: products, documents: documents}
}

// Dashboard answers the admin UI routes. Page rendering lives in the
// frontend; this only confirms the gate let the request through.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"app": "sarren-admin", "path": r.URL.Path})
}

// ProductsGet returns the full product catalog.
func (a *Admin) ProductsGet(w http.ResponseWriter, r *http.Request) {
	c, err := a.products.Get(r.Context())
	if err != nil {
		catalogError(w, "get products", err, c)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ProductsCreate adds a category or a product, depending on the type field.
func (a *Admin) ProductsCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	var (
		c   catalog.ProductCatalog
		err error
	)
	switch req.Type {
	case "category":
		c, err = a.products.AddCategory(r.Context(), req.Title)
	default:
		c, err = a.products.AddProduct(r.Context(), req.CategoryID, catalog.ProductInput{
			Label: req.Label,
			Name:  req.Name,
			Desc:  req.Desc,
		})
	}
	if err != nil {
		catalogError(w, "create "+req.Type, err, c)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ProductsUpdate renames a category or patches a product.
func (a *Admin) ProductsUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	var (
		c   catalog.ProductCatalog
		err error
	)
	switch req.Type {
	case "category":
		if req.Title == nil {
			writeError(w, http.StatusBadRequest, `Field "title" is required.`)
			return
		}
		c, err = a.products.UpdateCategory(r.Context(), req.ID, *req.Title)
	default:
		c, err = a.products.UpdateProduct(r.Context(), req.ID, catalog.ProductPatch{
			Label: req.Label,
			Name:  req.Name,
			Desc:  req.Desc,
		})
	}
	if err != nil {
		catalogError(w, "update "+req.Type, err, c)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ProductsDelete removes a category (only when empty) or a product, chosen
// by the type and id query parameters.
func (a *Admin) ProductsDelete(w http.ResponseWriter, r *http.Request) {
	typ := r.URL.Query().Get("type")
	id := r.URL.Query().Get("id")
	if typ == "" || id == "" {
		writeError(w, http.StatusBadRequest, "Missing type or id")
		return
	}

	var (
		c   catalog.ProductCatalog
		err error
	)
	switch typ {
	case "category":
		c, err = a.products.DeleteCategory(r.Context(), id)
	case "product":
		c, err = a.products.DeleteProduct(r.Context(), id)
	default:
		writeError(w, http.StatusBadRequest, "Invalid type")
		return
	}
	if err != nil {
		catalogError(w, "delete "+typ, err, c)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// catalogError maps a product service error onto an HTTP response. An
// unknown id is a no-op: the unchanged catalog is returned with 200.
func catalogError(w http.ResponseWriter, op string, err error, current catalog.ProductCatalog) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		slog.Info("catalog edit had no effect", "op", op, "error", err)
		writeJSON(w, http.StatusOK, current)
	case errors.Is(err, service.ErrCategoryNotEmpty):
		writeError(w, http.StatusBadRequest, "Cannot delete a category that contains products")
	case errors.Is(err, catalog.ErrConflict):
		writeError(w, http.StatusConflict, "A category with this title already exists")
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusConflict, "The catalog was changed by someone else, reload and try again")
	default:
		slog.Error("catalog edit failed", "op", op, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

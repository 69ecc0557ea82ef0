// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"sarren/internal/cache"
	"sarren/internal/mail"
	"sarren/internal/service"
)

// publicKey is the cache entry holding a catalog's public JSON.
const publicKey = "public"

// Public groups the read-only catalog endpoints used by the marketing site
// and the contact form relay. Catalog reads go through the response cache
// first and are stored on miss; admin writes invalidate the tag.
type Public struct {
	products  *service.Products
	documents *service.Documents
	cache     cache.Cache
	mailer    mail.Sender
}

// NewPublic creates a new Public handler group.
func NewPublic(products *service.Products, documents *service.Documents, c cache.Cache, mailer mail.Sender) *Public {
	return &Public{products: products, documents: documents, cache: c, mailer: mailer}
}

// Products serves the product catalog.
func (p *Public) Products(w http.ResponseWriter, r *http.Request) {
	p.serveCached(w, r, cache.TagProducts, func(ctx context.Context) (any, error) {
		return p.products.Get(ctx)
	})
}

// PDFs serves the PDF library.
func (p *Public) PDFs(w http.ResponseWriter, r *http.Request) {
	p.serveCached(w, r, cache.TagPDFs, func(ctx context.Context) (any, error) {
		return p.documents.Get(ctx)
	})
}

func (p *Public) serveCached(w http.ResponseWriter, r *http.Request, tag string, load func(context.Context) (any, error)) {
	ctx := r.Context()

	if cached, ok := p.cache.Get(ctx, tag, publicKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.Write(cached)
		return
	}

	gen := p.cache.Generation(ctx, tag)
	v, err := load(ctx)
	if err != nil {
		slog.Error("public catalog load failed", "tag", tag, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("public catalog encode failed", "tag", tag, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	body = append(body, '\n')
	p.cache.SetIfCurrent(ctx, tag, publicKey, gen, body)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Write(body)
}

// Contact relays an RFQ, surplus or contact form submission by email.
func (p *Public) Contact(w http.ResponseWriter, r *http.Request) {
	var fields map[string]string
	if err := decodeJSON(w, r, &fields); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	form := mail.Form{Type: fields["type"], Fields: fields}
	delete(form.Fields, "type")

	if err := form.Validate(); err != nil {
		if errors.Is(err, mail.ErrUnknownForm) {
			writeError(w, http.StatusBadRequest, "Unknown form type")
			return
		}
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if err := validate.Var(form.Fields["email"], "email"); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	if err := p.mailer.Send(r.Context(), form.Message()); err != nil {
		slog.Error("contact form relay failed", "type", form.Type, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to send")
		return
	}

	slog.Info("contact form relayed", "type", form.Type)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

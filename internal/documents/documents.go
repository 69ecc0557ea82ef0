// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package documents holds the PDF library catalog: an ordered list of
// uploaded documents and the pure functions that change it.
package documents

import (
	"errors"
	"slices"
)

// Key is the KV key the document catalog is persisted under.
const Key = "pdfs"

// ErrNotFound reports that no document has the requested id.
var ErrNotFound = errors.New("documents: not found")

// PdfDocument is one uploaded file. UploadedAt is an RFC 3339 UTC timestamp.
type PdfDocument struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	UploadedAt string `json:"uploadedAt"`
}

// PdfCatalog is the root document, in upload order.
type PdfCatalog struct {
	Documents []PdfDocument `json:"documents"`
}

// Empty returns a catalog with no documents.
func Empty() PdfCatalog {
	return PdfCatalog{Documents: []PdfDocument{}}
}

// Normalize replaces a nil document list with an empty one.
func Normalize(c PdfCatalog) PdfCatalog {
	if c.Documents == nil {
		return Empty()
	}
	return c
}

// AddDocument appends doc and returns the new catalog.
func AddDocument(c PdfCatalog, doc PdfDocument) PdfCatalog {
	docs := make([]PdfDocument, 0, len(c.Documents)+1)
	docs = append(docs, c.Documents...)
	return PdfCatalog{Documents: append(docs, doc)}
}

// RemoveDocument drops the document with the given id. An unknown id
// returns the input unchanged with ErrNotFound.
func RemoveDocument(c PdfCatalog, id string) (PdfCatalog, error) {
	idx := slices.IndexFunc(c.Documents, func(d PdfDocument) bool { return d.ID == id })
	if idx < 0 {
		return c, ErrNotFound
	}

	docs := make([]PdfDocument, 0, len(c.Documents)-1)
	docs = append(docs, c.Documents[:idx]...)
	docs = append(docs, c.Documents[idx+1:]...)
	return PdfCatalog{Documents: docs}, nil
}

// FindDocument returns the document with the given id.
func FindDocument(c PdfCatalog, id string) (PdfDocument, bool) {
	for _, d := range c.Documents {
		if d.ID == id {
			return d, true
		}
	}
	return PdfDocument{}, false
}

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"sarren/internal/cache"
	"sarren/internal/documents"
	"sarren/internal/kv"
	"sarren/internal/storage"
	"sarren/internal/store"
)

// PDFContentType is the only content type accepted for uploads.
const PDFContentType = "application/pdf"

// Upload is a PDF submitted by an admin.
type Upload struct {
	Name        string
	Filename    string
	ContentType string
	Body        io.Reader
	Size        int64
}

// DeleteResult reports the outcome of removing a document. The catalog
// entry is always gone when err is nil; BlobDeleted is false when the
// stored file could not be removed and is left for cleanup.
type DeleteResult struct {
	Catalog     documents.PdfCatalog
	BlobURL     string
	BlobDeleted bool
}

// Documents manages the PDF library.
type Documents struct {
	store *store.DocumentStore
	blobs storage.Blobs
	cache cache.Cache
	now   func() time.Time
	newID func() string
}

// NewDocuments creates the PDF library service.
func NewDocuments(s *store.DocumentStore, blobs storage.Blobs, c cache.Cache) *Documents {
	return &Documents{
		store: s,
		blobs: blobs,
		cache: c,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Get returns the current PDF catalog.
func (d *Documents) Get(ctx context.Context) (documents.PdfCatalog, error) {
	c, _, err := d.store.Load(ctx)
	if err != nil {
		return documents.Empty(), fmt.Errorf("get pdfs: %w", err)
	}
	return c, nil
}

// Upload stores the file under pdfs/<uuid>.pdf and appends its record.
func (d *Documents) Upload(ctx context.Context, u Upload) (documents.PdfCatalog, error) {
	name := strings.TrimSpace(u.Name)
	if name == "" || u.Body == nil {
		return documents.Empty(), fmt.Errorf("upload: %w: name and file are required", ErrInvalidUpload)
	}
	if u.ContentType != PDFContentType {
		return documents.Empty(), fmt.Errorf("upload: %w: only PDF files are allowed", ErrInvalidUpload)
	}
	if u.Size > storage.MaxUploadBytes {
		return documents.Empty(), fmt.Errorf("upload: %w", ErrTooLarge)
	}

	id := d.newID()
	url, err := d.blobs.Put(ctx, "pdfs/"+id+".pdf", PDFContentType, u.Body, u.Size)
	if err != nil {
		return documents.Empty(), fmt.Errorf("upload: %w", err)
	}

	current, version, err := d.store.Load(ctx)
	if err == nil {
		next := documents.AddDocument(current, documents.PdfDocument{
			ID:         id,
			Name:       name,
			URL:        url,
			UploadedAt: d.now().UTC().Format(time.RFC3339),
		})
		if _, err = d.store.Save(ctx, next, version); err == nil {
			d.cache.InvalidateTag(ctx, cache.TagPDFs)
			slog.Info("pdf uploaded", "id", id, "name", name, "filename", u.Filename, "size", u.Size)
			return next, nil
		}
	}

	// The record was not written, so the blob has no owner.
	if delErr := d.blobs.Delete(ctx, url); delErr != nil {
		slog.Warn("orphaned pdf blob", "url", url, "error", delErr)
	}
	if errors.Is(err, kv.ErrVersionMismatch) {
		return current, fmt.Errorf("upload: %w", ErrConflict)
	}
	return current, fmt.Errorf("upload: %w", err)
}

// Delete removes the document record, then its stored file.
func (d *Documents) Delete(ctx context.Context, id string) (DeleteResult, error) {
	current, version, err := d.store.Load(ctx)
	if err != nil {
		return DeleteResult{Catalog: documents.Empty()}, fmt.Errorf("delete pdf: %w", err)
	}

	doc, ok := documents.FindDocument(current, id)
	if !ok {
		return DeleteResult{Catalog: current}, fmt.Errorf("delete pdf %s: %w", id, documents.ErrNotFound)
	}

	next, err := documents.RemoveDocument(current, id)
	if err != nil {
		return DeleteResult{Catalog: current}, fmt.Errorf("delete pdf %s: %w", id, err)
	}
	if _, err := d.store.Save(ctx, next, version); err != nil {
		if errors.Is(err, kv.ErrVersionMismatch) {
			err = ErrConflict
		}
		return DeleteResult{Catalog: current}, fmt.Errorf("delete pdf %s: %w", id, err)
	}
	d.cache.InvalidateTag(ctx, cache.TagPDFs)

	result := DeleteResult{Catalog: next, BlobURL: doc.URL, BlobDeleted: true}
	if err := d.blobs.Delete(ctx, doc.URL); err != nil {
		slog.Warn("pdf blob delete failed, left for cleanup", "id", id, "url", doc.URL, "error", err)
		result.BlobDeleted = false
	}
	return result, nil
}

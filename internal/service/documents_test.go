package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"sarren/internal/cache"
	"sarren/internal/documents"
	"sarren/internal/kv"
	"sarren/internal/storage"
	"sarren/internal/store"
)

func newDocuments(t *testing.T) (*Documents, kv.Store, *storage.Memory, *spyCache) {
	t.Helper()
	mem := kv.NewMemory()
	blobs := storage.NewMemory()
	spy := &spyCache{}
	d := NewDocuments(store.NewDocumentStore(mem), blobs, spy)
	d.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.FixedZone("EET", 2*3600)) }
	ids := []string{"doc-1", "doc-2", "doc-3"}
	d.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	return d, mem, blobs, spy
}

func pdfUpload(name string) Upload {
	body := "%PDF-1.7 test"
	return Upload{
		Name:        name,
		Filename:    "tds.pdf",
		ContentType: PDFContentType,
		Body:        strings.NewReader(body),
		Size:        int64(len(body)),
	}
}

func TestDocuments_Upload(t *testing.T) {
	d, mem, blobs, spy := newDocuments(t)

	got, err := d.Upload(context.Background(), pdfUpload("  TDS Alkyd  "))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(got.Documents) != 1 {
		t.Fatalf("documents: got %d, want 1", len(got.Documents))
	}
	want := documents.PdfDocument{
		ID:         "doc-1",
		Name:       "TDS Alkyd",
		URL:        "memory://pdfs/doc-1.pdf",
		UploadedAt: "2026-03-04T03:06:07Z",
	}
	if got.Documents[0] != want {
		t.Errorf("document: got %+v, want %+v", got.Documents[0], want)
	}

	obj, ok := blobs.Object("pdfs/doc-1.pdf")
	if !ok || obj.ContentType != PDFContentType {
		t.Errorf("blob: got %+v, %v", obj, ok)
	}

	stored, _, _ := store.NewDocumentStore(mem).Load(context.Background())
	if len(stored.Documents) != 1 {
		t.Error("record not persisted")
	}
	if tags := spy.tags(); len(tags) != 1 || tags[0] != cache.TagPDFs {
		t.Errorf("invalidated: got %v, want [pdfs]", tags)
	}
}

func TestDocuments_UploadRejected(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Upload)
		wantErr error
	}{
		{"missing name", func(u *Upload) { u.Name = "" }, ErrInvalidUpload},
		{"blank name", func(u *Upload) { u.Name = "   " }, ErrInvalidUpload},
		{"missing file", func(u *Upload) { u.Body = nil }, ErrInvalidUpload},
		{"not a pdf", func(u *Upload) { u.ContentType = "image/png" }, ErrInvalidUpload},
		{"too large", func(u *Upload) { u.Size = storage.MaxUploadBytes + 1 }, ErrTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, mem, blobs, _ := newDocuments(t)
			u := pdfUpload("Doc")
			tt.mutate(&u)

			_, err := d.Upload(context.Background(), u)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err: got %v, want %v", err, tt.wantErr)
			}
			if blobs.Len() != 0 {
				t.Error("blob stored for a rejected upload")
			}
			if e, _ := mem.Get(context.Background(), documents.Key); e != nil {
				t.Error("catalog written for a rejected upload")
			}
		})
	}
}

func TestDocuments_UploadConflictRemovesBlob(t *testing.T) {
	mem := kv.NewMemory()
	blobs := storage.NewMemory()
	d := NewDocuments(store.NewDocumentStore(racingStore{mem}), blobs, cache.Nop{})

	_, err := d.Upload(context.Background(), pdfUpload("Doc"))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err: got %v, want ErrConflict", err)
	}
	if blobs.Len() != 0 {
		t.Error("blob should be removed when the record is not written")
	}
}

func TestDocuments_Delete(t *testing.T) {
	d, mem, blobs, _ := newDocuments(t)
	ctx := context.Background()
	d.Upload(ctx, pdfUpload("First"))
	d.Upload(ctx, pdfUpload("Second"))

	res, err := d.Delete(ctx, "doc-1")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !res.BlobDeleted || res.BlobURL != "memory://pdfs/doc-1.pdf" {
		t.Errorf("result: got %+v", res)
	}
	if len(res.Catalog.Documents) != 1 || res.Catalog.Documents[0].ID != "doc-2" {
		t.Errorf("catalog: got %+v", res.Catalog)
	}
	if _, ok := blobs.Object("pdfs/doc-1.pdf"); ok {
		t.Error("blob still present")
	}
	stored, _, _ := store.NewDocumentStore(mem).Load(ctx)
	if _, ok := documents.FindDocument(stored, "doc-1"); ok {
		t.Error("record still persisted")
	}

	// A retry finds nothing.
	if _, err := d.Delete(ctx, "doc-1"); !errors.Is(err, documents.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestDocuments_DeleteUnknown(t *testing.T) {
	d, _, _, spy := newDocuments(t)
	_, err := d.Delete(context.Background(), "nope")
	if !errors.Is(err, documents.ErrNotFound) {
		t.Fatalf("err: got %v, want ErrNotFound", err)
	}
	if len(spy.tags()) != 0 {
		t.Error("cache invalidated for unknown id")
	}
}

func TestDocuments_DeleteBlobFailure(t *testing.T) {
	d, mem, blobs, _ := newDocuments(t)
	ctx := context.Background()
	d.Upload(ctx, pdfUpload("Doc"))
	blobs.FailDelete = errors.New("storage down")

	res, err := d.Delete(ctx, "doc-1")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if res.BlobDeleted {
		t.Error("BlobDeleted should be false")
	}
	if res.BlobURL != "memory://pdfs/doc-1.pdf" {
		t.Errorf("BlobURL: got %q", res.BlobURL)
	}
	stored, _, _ := store.NewDocumentStore(mem).Load(ctx)
	if len(stored.Documents) != 0 {
		t.Error("record should be removed even when the blob is not")
	}
}

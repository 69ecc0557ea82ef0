// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Every backend is in memory, so these tests need no running services.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"sarren/internal/auth"
	"sarren/internal/cache"
	"sarren/internal/catalog"
	"sarren/internal/documents"
	"sarren/internal/kv"
	"sarren/internal/mail"
	"sarren/internal/service"
	"sarren/internal/session"
	"sarren/internal/storage"
	"sarren/internal/store"
)

const (
	testPassword = "s3cret-admin"
	testSecret   = "test-secret-that-is-long-enough-32b"
)

// fakeSender records messages instead of sending them.
type fakeSender struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, m mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

// testEnv wires handlers over in-memory backends.
type testEnv struct {
	admin    *Admin
	auth     *Auth
	public   *Public
	kv       *kv.Memory
	blobs    *storage.Memory
	cache    *cache.Memory
	mailer   *fakeSender
	sessions *session.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mem := kv.NewMemory()
	blobs := storage.NewMemory()
	c := cache.NewMemory(time.Minute)
	mailer := &fakeSender{}
	sessions := session.NewStore(testSecret, false)

	products := service.NewProducts(store.NewProductStore(mem), c)
	docs := service.NewDocuments(store.NewDocumentStore(mem), blobs, c)

	return &testEnv{
		admin:    NewAdmin(products, docs),
		auth:     NewAuth(sessions, auth.NewChecker(testPassword, "", "")),
		public:   NewPublic(products, docs, c, mailer),
		kv:       mem,
		blobs:    blobs,
		cache:    c,
		mailer:   mailer,
		sessions: sessions,
	}
}

// seedProducts stores a catalog with one populated and one empty category.
func (e *testEnv) seedProducts(t *testing.T) {
	t.Helper()
	c := catalog.ProductCatalog{Categories: []catalog.Category{
		{ID: "resins", Title: "Resins & Polymers", Products: []catalog.Product{
			{ID: "p1", Label: "Resin", Name: "Alkyd Resin", Desc: "Test desc"},
		}},
		{ID: "solvents", Title: "Solvents", Products: []catalog.Product{}},
	}}
	if err := store.NewProductStore(e.kv).Put(context.Background(), c); err != nil {
		t.Fatalf("seed products: %v", err)
	}
}

// storedProducts reads the persisted product catalog.
func (e *testEnv) storedProducts(t *testing.T) catalog.ProductCatalog {
	t.Helper()
	c, _, err := store.NewProductStore(e.kv).Load(context.Background())
	if err != nil {
		t.Fatalf("load products: %v", err)
	}
	return c
}

// storedDocuments reads the persisted PDF catalog.
func (e *testEnv) storedDocuments(t *testing.T) documents.PdfCatalog {
	t.Helper()
	c, _, err := store.NewDocumentStore(e.kv).Load(context.Background())
	if err != nil {
		t.Fatalf("load pdfs: %v", err)
	}
	return c
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// decodeBody decodes the recorder's JSON body into T.
func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return v
}

// errorMessage returns the "error" field of a JSON error response.
func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[map[string]string](t, rr)["error"]
}

// pdfUpload builds a multipart upload request. An empty contentType omits
// the file part.
func pdfUpload(t *testing.T, name, filename, contentType string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if name != "" {
		if err := mw.WriteField("name", name); err != nil {
			t.Fatalf("write name: %v", err)
		}
	}
	if contentType != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := io.Copy(part, bytes.NewReader(content)); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/pdfs", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// samplePDF is enough of a PDF for content sniffing.
var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF\n")

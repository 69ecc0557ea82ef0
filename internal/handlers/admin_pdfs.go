// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"unicode/utf8"

	"sarren/internal/documents"
	"sarren/internal/service"
	"sarren/internal/storage"
)

// multipartOverhead leaves room for the name field and part headers on top
// of the file itself.
const multipartOverhead = 64 << 10

// PDFsGet returns the PDF library.
func (a *Admin) PDFsGet(w http.ResponseWriter, r *http.Request) {
	c, err := a.documents.Get(r.Context())
	if err != nil {
		slog.Error("get pdfs failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// PDFUpload stores a PDF sent as multipart form fields "name" and "file".
func (a *Admin) PDFUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(storage.MaxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) || errors.Is(err, multipart.ErrMessageTooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 20 MB.")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	defer r.MultipartForm.RemoveAll()

	name := strings.TrimSpace(r.FormValue("name"))
	file, header, err := r.FormFile("file")
	if name == "" || err != nil {
		if err == nil {
			file.Close()
		}
		writeError(w, http.StatusBadRequest, "Missing name or file")
		return
	}
	defer file.Close()

	if utf8.RuneCountInString(name) > maxDocNameLen {
		writeError(w, http.StatusBadRequest, "Name is too long (max 300 characters).")
		return
	}
	if !isPDF(header.Header.Get("Content-Type"), file) {
		writeError(w, http.StatusBadRequest, "File must be a PDF")
		return
	}

	c, err := a.documents.Upload(r.Context(), service.Upload{
		Name:        name,
		Filename:    header.Filename,
		ContentType: service.PDFContentType,
		Body:        file,
		Size:        header.Size,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, c)
	case errors.Is(err, service.ErrInvalidUpload):
		writeError(w, http.StatusBadRequest, "Missing name or file")
	case errors.Is(err, service.ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 20 MB.")
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusConflict, "The library was changed by someone else, try again")
	default:
		slog.Error("pdf upload failed", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, "Upload failed")
	}
}

// PDFDelete removes the document named by the id query parameter.
func (a *Admin) PDFDelete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Missing id")
		return
	}

	res, err := a.documents.Delete(r.Context(), id)
	switch {
	case err == nil:
		if !res.BlobDeleted {
			w.Header().Set("X-Blob-Orphaned", res.BlobURL)
		}
		writeJSON(w, http.StatusOK, res.Catalog)
	case errors.Is(err, documents.ErrNotFound):
		writeError(w, http.StatusNotFound, "Document not found")
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusConflict, "The library was changed by someone else, try again")
	default:
		slog.Error("pdf delete failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// isPDF checks the declared content type and sniffs the first bytes of
// the file, then rewinds it.
func isPDF(declared string, file io.ReadSeeker) bool {
	if declared != service.PDFContentType {
		return false
	}
	sniff := make([]byte, 512)
	n, err := file.Read(sniff)
	if err != nil && err != io.EOF {
		return false
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return false
	}
	return http.DetectContentType(sniff[:n]) == service.PDFContentType
}

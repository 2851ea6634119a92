package upload

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// pngHeader is a minimal valid PNG signature for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13}

// multipartBody builds a multipart request body with a single file part.
func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

// nextHandler records whether the wrapped handler ran and what filename the
// middleware placed in the context.
type nextHandler struct {
	called   bool
	filename string
	hasFile  bool
}

func (h *nextHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.filename, h.hasFile = FilenameFromCtx(r.Context())
	w.WriteHeader(http.StatusOK)
}

func TestImageSavesValidUpload(t *testing.T) {
	dir := t.TempDir()
	next := &nextHandler{}
	handler := Image(dir)(next)

	body, contentType := multipartBody(t, FieldName, "cover.png", pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !next.called {
		t.Fatalf("handler not reached, status %d body %s", rec.Code, rec.Body)
	}
	if !next.hasFile {
		t.Fatal("no filename in context")
	}
	if !strings.HasSuffix(next.filename, ".png") {
		t.Errorf("stored filename %q missing extension", next.filename)
	}
	if _, err := os.Stat(filepath.Join(dir, next.filename)); err != nil {
		t.Errorf("stored file missing: %v", err)
	}
}

func TestImageRejectsNonImage(t *testing.T) {
	dir := t.TempDir()
	next := &nextHandler{}
	handler := Image(dir)(next)

	body, contentType := multipartBody(t, FieldName, "notes.txt", []byte("plain text file"))
	req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if next.called {
		t.Error("handler ran despite rejected upload")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	var envelope struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Success {
		t.Error("envelope success = true on rejection")
	}
	if !strings.Contains(envelope.Error, "not allowed") {
		t.Errorf("error message = %q", envelope.Error)
	}

	// Nothing should have been written to disk.
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("rejected upload left %d files on disk", len(entries))
	}
}

func TestImagePassesThroughWithoutMultipart(t *testing.T) {
	next := &nextHandler{}
	handler := Image(t.TempDir())(next)

	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !next.called {
		t.Fatal("JSON request did not pass through")
	}
	if next.hasFile {
		t.Error("filename set for request without upload")
	}
}

func TestImagePassesThroughWithoutFile(t *testing.T) {
	next := &nextHandler{}
	handler := Image(t.TempDir())(next)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("title", "A post without an image")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/posts", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !next.called {
		t.Fatalf("multipart request without file did not pass through, status %d", rec.Code)
	}
	if next.hasFile {
		t.Error("filename set for request without upload")
	}
}

func TestImageRejectsOversizedFile(t *testing.T) {
	next := &nextHandler{}
	handler := Image(t.TempDir())(next)

	big := make([]byte, MaxSize+1)
	copy(big, pngHeader)
	body, contentType := multipartBody(t, FieldName, "huge.png", big)
	req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if next.called {
		t.Error("handler ran despite oversized upload")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

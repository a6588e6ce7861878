package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"orthopress/internal/storage"
)

// multipartFile builds a multipart body with one file field.
func multipartFile(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write(data)
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func uploadStorage(t *testing.T, handler http.HandlerFunc) *storage.Client {
	t.Helper()

	upstream := httptest.NewServer(handler)
	t.Cleanup(upstream.Close)

	sc, err := storage.New(upstream.URL, "test", "test-access", "test-secret", "public", "private", "")
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	return sc
}

func TestUploadStoresAsset(t *testing.T) {
	sc := uploadStorage(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := NewUploads(sc)

	body, contentType := multipartFile(t, "notes.txt", []byte("plain asset"))
	req := httptest.NewRequest(http.MethodPost, "/api/admin/upload", body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	h.Upload(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("got status %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "uploads/general/") {
		t.Errorf("url should use the default folder: %s", rr.Body.String())
	}
}

func TestUploadPropagatesProviderError(t *testing.T) {
	sc := uploadStorage(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`<?xml version="1.0"?><Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`))
	})
	h := NewUploads(sc)

	body, contentType := multipartFile(t, "notes.txt", []byte("plain asset"))
	req := httptest.NewRequest(http.MethodPost, "/api/admin/upload", body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	h.Upload(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("got status %d, want the provider's 403", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "AccessDenied") {
		t.Errorf("body should name the provider error code: %s", rr.Body.String())
	}
}

func TestUploadRejectsBadFolder(t *testing.T) {
	sc := uploadStorage(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := NewUploads(sc)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "notes.txt")
	fw.Write([]byte("x"))
	mw.WriteField("folder", "../escape")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/admin/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rr := httptest.NewRecorder()
	h.Upload(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want 400", rr.Code)
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"orthopress/internal/models"
	"orthopress/internal/storage"
	"orthopress/internal/store"
)

const (
	// maxDocumentSize caps topic summary uploads (50 MiB).
	maxDocumentSize = 50 << 20

	// signedURLExpiry is how long a minted delivery URL stays valid.
	signedURLExpiry = 30 * time.Minute

	// presignTimeout bounds the mint call against the storage provider.
	presignTimeout = 10 * time.Second

	// uploadTimeout bounds a document upload end to end.
	uploadTimeout = 10 * time.Minute
)

// documentTypes are the accepted topic summary document MIME types.
var documentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-powerpoint":                                           true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
}

// TopicSummaries groups the access-controlled study document handlers.
// Documents live in the private bucket; readers reach them only through
// short-lived signed URLs or the streaming proxy.
type TopicSummaries struct {
	summaries *store.TopicSummaryStore
	storage   *storage.Client
	// streamClient fetches private objects for proxied delivery. No
	// client timeout; each request is bounded by its own context.
	streamClient *http.Client
}

// NewTopicSummaries creates a new TopicSummaries handler group.
func NewTopicSummaries(summaries *store.TopicSummaryStore, sc *storage.Client) *TopicSummaries {
	return &TopicSummaries{
		summaries:    summaries,
		storage:      sc,
		streamClient: &http.Client{},
	}
}

// List serves all topic summaries. The listing is public; only the
// documents themselves are gated.
func (h *TopicSummaries) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.summaries.List()
	if err != nil {
		slog.Error("topic summary list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"topicSummaries": items})
}

// summaryByID resolves the id route parameter to a record, writing the
// error response on failure.
func (h *TopicSummaries) summaryByID(w http.ResponseWriter, r *http.Request) *models.TopicSummary {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil
	}

	summary, err := h.summaries.FindByID(id)
	if err != nil {
		slog.Error("topic summary lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return nil
	}
	if summary == nil {
		writeError(w, http.StatusNotFound, "not found")
		return nil
	}
	return summary
}

// Get serves a single topic summary record.
func (h *TopicSummaries) Get(w http.ResponseWriter, r *http.Request) {
	summary := h.summaryByID(w, r)
	if summary == nil {
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Create stores a new document in the private bucket and records its
// metadata. Multipart form: file plus title, description, tags,
// category fields.
func (h *TopicSummaries) Create(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "storage is not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), uploadTimeout)
	defer cancel()

	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !documentTypes[contentType] {
		writeError(w, http.StatusBadRequest, "unsupported document type")
		return
	}

	id := uuid.New()
	key := "topic-summaries/" + id.String() + strings.ToLower(path.Ext(header.Filename))
	if err := h.storage.Upload(ctx, h.storage.PrivateBucket(), key, contentType, file, header.Size); err != nil {
		status, msg := storage.UpstreamError(err)
		slog.Error("topic summary upload failed", "status", status, "error", err)
		writeError(w, status, "document upload failed: "+msg)
		return
	}

	summary, err := h.summaries.Create(&models.TopicSummary{
		ID:          id,
		Title:       title,
		Description: r.FormValue("description"),
		Tags:        splitCSV(r.FormValue("tags")),
		Category:    r.FormValue("category"),
		FileURL:     "/api/topic-summaries/" + id.String() + "/stream",
		FileType:    contentType,
		StorageKey:  key,
	})
	if err != nil {
		slog.Error("topic summary create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, summary)
}

// Delete removes a topic summary and its stored document. A failed
// object delete is logged but does not undo the record removal.
func (h *TopicSummaries) Delete(w http.ResponseWriter, r *http.Request) {
	summary := h.summaryByID(w, r)
	if summary == nil {
		return
	}

	deleted, err := h.summaries.Delete(summary.ID)
	if err != nil {
		slog.Error("topic summary delete failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if deleted == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if h.storage != nil && deleted.StorageKey != "" {
		if err := h.storage.Delete(r.Context(), h.storage.PrivateBucket(), deleted.StorageKey); err != nil {
			slog.Warn("topic summary object delete failed", "key", deleted.StorageKey, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "deleted"})
}

// SignedURL mints a fresh time-boxed delivery URL for an authenticated
// reader. Every call returns a distinct URL over the same document.
func (h *TopicSummaries) SignedURL(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "storage is not configured")
		return
	}

	summary := h.summaryByID(w, r)
	if summary == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), presignTimeout)
	defer cancel()

	url, err := h.storage.PresignedURL(ctx, summary.StorageKey, signedURLExpiry)
	if err != nil {
		slog.Error("presign failed", "key", summary.StorageKey, "error", err)
		writeError(w, http.StatusBadGateway, "could not generate delivery url")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"url":      url,
		"fileType": summary.FileType,
	})
}

// Stream proxies the document body to an authenticated reader, passing
// the Range header through so PDF viewers can seek. The upstream status
// and the content headers are re-emitted as-is.
func (h *TopicSummaries) Stream(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "storage is not configured")
		return
	}

	summary := h.summaryByID(w, r)
	if summary == nil {
		return
	}

	presignCtx, cancel := context.WithTimeout(r.Context(), presignTimeout)
	url, err := h.storage.PresignedURL(presignCtx, summary.StorageKey, signedURLExpiry)
	cancel()
	if err != nil {
		slog.Error("stream presign failed", "key", summary.StorageKey, "error", err)
		writeError(w, http.StatusBadGateway, "could not reach document storage")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, url, nil)
	if err != nil {
		slog.Error("stream request build failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if rng := r.Header.Get("Range"); rng != "" {
		req.Header.Set("Range", rng)
	}

	resp, err := h.streamClient.Do(req)
	if err != nil {
		slog.Error("stream fetch failed", "key", summary.StorageKey, "error", err)
		writeError(w, http.StatusBadGateway, "could not reach document storage")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		// The provider's status is re-emitted so clients can tell a
		// missing object from an unreachable provider.
		status := resp.StatusCode
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		slog.Error("stream upstream error", "key", summary.StorageKey, "status", resp.StatusCode)
		writeError(w, status, fmt.Sprintf("document fetch failed (upstream status %d)", resp.StatusCode))
		return
	}

	for _, header := range []string{"Content-Type", "Content-Length", "Content-Range", "Accept-Ranges"} {
		if v := resp.Header.Get(header); v != "" {
			w.Header().Set(header, v)
		}
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", summary.FileType)
	}

	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		// Client disconnects are routine mid-stream; nothing to send.
		slog.Debug("stream copy interrupted", "key", summary.StorageKey, "error", err)
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"orthopress/internal/imaging"
	"orthopress/internal/storage"
)

// maxUploadSize caps public-asset uploads (20 MiB).
const maxUploadSize = 20 << 20

// folderPattern restricts the optional folder form value so keys stay
// flat and predictable.
var folderPattern = regexp.MustCompile(`^[a-z0-9-]{1,50}$`)

// Uploads handles the admin image/asset relay into the public bucket.
type Uploads struct {
	storage *storage.Client
}

// NewUploads creates a new Uploads handler.
func NewUploads(sc *storage.Client) *Uploads {
	return &Uploads{storage: sc}
}

// Upload accepts a multipart file, re-encodes oversized images, and
// forwards the result to the public bucket. A failed re-encode falls
// back to the original bytes rather than failing the upload.
func (h *Uploads) Upload(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "storage is not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), uploadTimeout)
	defer cancel()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	folder := r.FormValue("folder")
	if folder == "" {
		folder = "general"
	}
	if !folderPattern.MatchString(folder) {
		writeError(w, http.StatusBadRequest, "invalid folder name")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	ext := strings.ToLower(path.Ext(header.Filename))

	if imaging.ShouldCompress(contentType, int64(len(data))) {
		compressed, newType, cerr := imaging.Compress(data)
		if cerr != nil {
			slog.Warn("image compression failed, uploading original",
				"filename", header.Filename, "error", cerr)
		} else {
			slog.Debug("image compressed",
				"original", len(data), "compressed", len(compressed))
			data = compressed
			contentType = newType
			ext = ".jpg"
		}
	}

	now := time.Now().UTC()
	key := fmt.Sprintf("uploads/%s/%04d/%02d/%s%s", folder, now.Year(), now.Month(), uuid.NewString(), ext)

	if err := h.storage.Upload(ctx, h.storage.PublicBucket(), key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		status, msg := storage.UpstreamError(err)
		slog.Error("asset upload failed", "key", key, "status", status, "error", err)
		writeError(w, status, "upload failed: "+msg)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"url": h.storage.FileURL(key),
	})
}

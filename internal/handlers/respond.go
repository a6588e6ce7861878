// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API handlers for the Orthopress
// server.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"orthopress/internal/store"
)

// maxJSONBody caps request bodies on JSON endpoints. Uploads have their
// own multipart limits.
const maxJSONBody = 2 << 20

// errorResponse is the uniform error body for the whole API.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// writeError sends a JSON error body with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeStoreError maps store-layer failures to API responses. Unique
// violations become 409; everything else is logged and becomes a 500.
func writeStoreError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, store.ErrDuplicate) {
		writeError(w, http.StatusConflict, "already exists")
		return
	}
	slog.Error(op, "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// decodeJSON decodes a size-limited JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

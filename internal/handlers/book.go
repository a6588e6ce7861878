// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"orthopress/internal/cache"
	"orthopress/internal/models"
	"orthopress/internal/store"
)

// Books groups the book recommendation handlers.
type Books struct {
	books    *store.BookStore
	listings *cache.ListingCache
}

// NewBooks creates a new Books handler group.
func NewBooks(books *store.BookStore, listings *cache.ListingCache) *Books {
	return &Books{books: books, listings: listings}
}

type bookRequest struct {
	Title       string      `json:"title" validate:"required,max=300"`
	Author      string      `json:"author" validate:"required,max=300"`
	Description string      `json:"description" validate:"max=2000"`
	CoverImage  string      `json:"coverImage" validate:"max=500"`
	EbookLink   string      `json:"ebookLink" validate:"max=500"`
	BuyLink     string      `json:"buyLink" validate:"max=500"`
	Tags        flexStrings `json:"tags"`
	IsActive    *bool       `json:"isActive"`
	Order       int         `json:"order"`
}

func (req *bookRequest) toModel() *models.Book {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return &models.Book{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		EbookLink:   req.EbookLink,
		BuyLink:     req.BuyLink,
		Tags:        req.Tags.toList(),
		IsActive:    active,
		Order:       req.Order,
	}
}

// List serves the public listing: active books in display order.
func (h *Books) List(w http.ResponseWriter, r *http.Request) {
	const cacheKey = "books"
	if body, ok := h.listings.Get(r.Context(), cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
		return
	}

	books, err := h.books.ListActive()
	if err != nil {
		slog.Error("book list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	body, err := json.Marshal(map[string]any{"books": books})
	if err != nil {
		slog.Error("book list encode failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.listings.Set(r.Context(), cacheKey, body)
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// ListAdmin serves every book, including inactive ones.
func (h *Books) ListAdmin(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.ListAll()
	if err != nil {
		slog.Error("admin book list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"books": books})
}

// bookID parses the id route parameter, writing a 400 on failure.
func bookID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// Create inserts a new book.
func (h *Books) Create(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if !decodeJSON(w, r, &req) || !checkStruct(w, &req) {
		return
	}

	created, err := h.books.Create(req.toModel())
	if err != nil {
		slog.Error("book create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.listings.InvalidateAll(r.Context())
	writeJSON(w, http.StatusCreated, created)
}

// Update rewrites a book by id.
func (h *Books) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}

	var req bookRequest
	if !decodeJSON(w, r, &req) || !checkStruct(w, &req) {
		return
	}

	book := req.toModel()
	book.ID = id

	updated, err := h.books.Update(book)
	if err != nil {
		slog.Error("book update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	h.listings.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, updated)
}

// Toggle flips a book's visibility in the public listing.
func (h *Books) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}

	book, err := h.books.Toggle(id)
	if err != nil {
		slog.Error("book toggle failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if book == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	h.listings.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, book)
}

// Delete removes a book.
func (h *Books) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}

	deleted, err := h.books.Delete(id)
	if err != nil {
		slog.Error("book delete failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	h.listings.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"message": "deleted"})
}

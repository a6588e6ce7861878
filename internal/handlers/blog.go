// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"orthopress/internal/cache"
	"orthopress/internal/content"
	"orthopress/internal/gate"
	"orthopress/internal/middleware"
	"orthopress/internal/models"
	"orthopress/internal/store"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// Blogs groups the article handlers: public listing and reads with the
// access gate, admin CRUD, and reader comments.
type Blogs struct {
	blogs    *store.BlogStore
	listings *cache.ListingCache
}

// NewBlogs creates a new Blogs handler group.
func NewBlogs(blogs *store.BlogStore, listings *cache.ListingCache) *Blogs {
	return &Blogs{blogs: blogs, listings: listings}
}

// flexStrings accepts either a JSON array of strings or a single
// comma-separated string, which older clients still send.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = nil
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			*f = append(*f, p)
		}
	}
	return nil
}

func (f flexStrings) toList() models.StringList {
	if f == nil {
		return models.StringList{}
	}
	return models.StringList(f)
}

// splitCSV parses a comma-separated form value into a list, trimming
// whitespace and dropping empties.
func splitCSV(s string) models.StringList {
	out := models.StringList{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type blogRequest struct {
	MainHeading     string              `json:"mainHeading" validate:"required,max=300"`
	SubHeading      string              `json:"subHeading" validate:"max=300"`
	Slug            string              `json:"slug" validate:"required,max=300"`
	HeroImage       string              `json:"heroImage"`
	Gallery         flexStrings         `json:"gallery"`
	Content         models.BlockList    `json:"content"`
	Tags            flexStrings         `json:"tags"`
	Category        string              `json:"category" validate:"max=200"`
	Status          string              `json:"status"`
	ScheduledAt     *time.Time          `json:"scheduledAt"`
	MetaTitle       string              `json:"metaTitle" validate:"max=300"`
	MetaDescription string              `json:"metaDescription" validate:"max=500"`
	Keywords        flexStrings         `json:"keywords"`
	Citations       models.CitationList `json:"citations"`
	Sources         models.SourceList   `json:"sources"`
	VideoEmbed      string              `json:"videoEmbed"`
	Attachments     flexStrings         `json:"attachments"`
	DifficultyLevel string              `json:"difficultyLevel" validate:"max=50"`
	SummaryPoints   flexStrings         `json:"summaryPoints"`
	QuizQuestions   models.QuizList     `json:"quizQuestions"`
	Author          string              `json:"author" validate:"max=200"`
	CoAuthors       flexStrings         `json:"coAuthors"`
}

// invalidImageFields lists the image reference fields that are neither
// absolute URLs nor root-relative paths.
func (req *blogRequest) invalidImageFields() []string {
	var bad []string
	if req.HeroImage != "" && !content.IsContentURL(req.HeroImage) {
		bad = append(bad, "heroImage must be an absolute URL or a root-relative path")
	}
	for _, u := range req.Gallery {
		if !content.IsContentURL(u) {
			bad = append(bad, "gallery entries must be absolute URLs or root-relative paths")
			break
		}
	}
	for _, u := range req.Attachments {
		if !content.IsContentURL(u) {
			bad = append(bad, "attachments must be absolute URLs or root-relative paths")
			break
		}
	}
	return bad
}

// toModel builds the storable blog. Reading time and image metadata are
// always derived server-side; client-sent values are ignored.
func (req *blogRequest) toModel() *models.Blog {
	return &models.Blog{
		MainHeading:     strings.TrimSpace(req.MainHeading),
		SubHeading:      strings.TrimSpace(req.SubHeading),
		Slug:            strings.TrimSpace(req.Slug),
		HeroImage:       req.HeroImage,
		Gallery:         req.Gallery.toList(),
		Content:         req.Content,
		Tags:            req.Tags.toList(),
		Category:        req.Category,
		Status:          models.BlogStatus(req.Status),
		ScheduledAt:     req.ScheduledAt,
		ReadingTime:     content.ReadingTime(req.Content),
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		Keywords:        req.Keywords.toList(),
		Citations:       req.Citations,
		Sources:         req.Sources,
		VideoEmbed:      req.VideoEmbed,
		Attachments:     req.Attachments.toList(),
		DifficultyLevel: req.DifficultyLevel,
		SummaryPoints:   req.SummaryPoints.toList(),
		QuizQuestions:   req.QuizQuestions,
		Author:          req.Author,
		CoAuthors:       req.CoAuthors.toList(),
		ImageMetadata:   content.DeriveImageMetadata(req.HeroImage, req.Content),
	}
}

// paginationMeta is the listing pagination envelope.
type paginationMeta struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

func buildPagination(page, limit, total int) paginationMeta {
	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	return paginationMeta{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// listFilters parses listing query parameters.
func listFilters(r *http.Request) (store.ListFilters, int, int) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	return store.ListFilters{
		Status:   models.BlogStatus(q.Get("status")),
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Author:   q.Get("author"),
		Search:   q.Get("search"),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}, page, limit
}

// List serves the public article listing. Only published articles are
// visible regardless of the status parameter. Responses are cached
// briefly keyed by the query string.
func (h *Blogs) List(w http.ResponseWriter, r *http.Request) {
	cacheKey := "blogs?" + r.URL.Query().Encode()
	if body, ok := h.listings.Get(r.Context(), cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
		return
	}

	filters, page, limit := listFilters(r)
	filters.Status = models.BlogStatusPublished

	items, total, err := h.blogs.List(filters)
	if err != nil {
		slog.Error("blog list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	body, err := json.Marshal(map[string]any{
		"blogs":      items,
		"pagination": buildPagination(page, limit, total),
	})
	if err != nil {
		slog.Error("blog list encode failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.listings.Set(r.Context(), cacheKey, body)
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// ListAdmin serves the admin listing with full filter control,
// including drafts and archived articles. Never cached.
func (h *Blogs) ListAdmin(w http.ResponseWriter, r *http.Request) {
	filters, page, limit := listFilters(r)
	if filters.Status != "" && !models.ValidBlogStatus(filters.Status) {
		writeError(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	items, total, err := h.blogs.List(filters)
	if err != nil {
		slog.Error("admin blog list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"blogs":      items,
		"pagination": buildPagination(page, limit, total),
	})
}

// gatedBlog is a blog response with the access-gate flag. When locked,
// Content holds only the preview blocks.
type gatedBlog struct {
	*models.Blog
	Locked      bool `json:"locked"`
	TotalBlocks int  `json:"totalBlocks"`
}

// GetBySlug serves a public article read. Every published read
// increments the view counter, which is why these responses are never
// cached. The store only matches published rows, so draft and archived
// slugs 404 without a counter bump. Unauthenticated readers get the
// preview projection with the locked flag set.
func (h *Blogs) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	blog, err := h.blogs.IncrementViews(slug)
	if err != nil {
		slog.Error("blog read failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if blog == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	authenticated := middleware.UserFrom(r.Context()) != nil
	total := len(blog.Content)
	projected, locked := gate.Project(blog.Content, authenticated)
	blog.Content = projected

	writeJSON(w, http.StatusOK, gatedBlog{Blog: blog, Locked: locked, TotalBlocks: total})
}

// GetAdmin serves an article of any status for editing, without
// touching the view counter.
func (h *Blogs) GetAdmin(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	blog, err := h.blogs.FindBySlug(slug)
	if err != nil {
		slog.Error("admin blog read failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if blog == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	writeJSON(w, http.StatusOK, blog)
}

// Create inserts a new article. Slug collisions come back as 409; the
// unique index is the only arbiter.
func (h *Blogs) Create(w http.ResponseWriter, r *http.Request) {
	var req blogRequest
	if !decodeJSON(w, r, &req) || !checkStruct(w, &req) {
		return
	}

	if req.Status == "" {
		req.Status = string(models.BlogStatusDraft)
	}
	if !models.ValidBlogStatus(models.BlogStatus(req.Status)) {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if bad := req.invalidImageFields(); len(bad) > 0 {
		writeValidationError(w, bad...)
		return
	}

	created, err := h.blogs.Create(req.toModel())
	if err != nil {
		writeStoreError(w, "blog create failed", err)
		return
	}

	h.listings.InvalidateAll(r.Context())
	writeJSON(w, http.StatusCreated, created)
}

// Update rewrites an article addressed by its slug.
func (h *Blogs) Update(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var req blogRequest
	if !decodeJSON(w, r, &req) || !checkStruct(w, &req) {
		return
	}

	if req.Status == "" {
		req.Status = string(models.BlogStatusDraft)
	}
	if !models.ValidBlogStatus(models.BlogStatus(req.Status)) {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if bad := req.invalidImageFields(); len(bad) > 0 {
		writeValidationError(w, bad...)
		return
	}

	blog := req.toModel()
	blog.Slug = slug

	updated, err := h.blogs.Update(blog)
	if err != nil {
		writeStoreError(w, "blog update failed", err)
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	h.listings.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes an article and its comments.
func (h *Blogs) Delete(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	ok, err := h.blogs.Delete(slug)
	if err != nil {
		slog.Error("blog delete failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	h.listings.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"message": "deleted"})
}

type commentRequest struct {
	Author      string `json:"author" validate:"required,max=200"`
	AuthorImage string `json:"authorImage" validate:"max=500"`
	Content     string `json:"content" validate:"required,max=5000"`
	IsStudent   bool   `json:"isStudent"`
}

// AddComment appends a reader comment to a published article.
func (h *Blogs) AddComment(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var req commentRequest
	if !decodeJSON(w, r, &req) || !checkStruct(w, &req) {
		return
	}

	blog, err := h.blogs.FindBySlug(slug)
	if err != nil {
		slog.Error("comment blog lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if blog == nil || !blog.IsPublished() {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	comment, err := h.blogs.AddComment(&models.Comment{
		BlogID:      blog.ID,
		Author:      strings.TrimSpace(req.Author),
		AuthorImage: req.AuthorImage,
		Content:     strings.TrimSpace(req.Content),
		IsStudent:   req.IsStudent,
	})
	if err != nil {
		slog.Error("comment create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

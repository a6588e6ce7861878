package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"orthopress/internal/gate"
	"orthopress/internal/models"
)

// createTestBlog inserts a published blog with n content blocks through
// the handler and returns its slug.
func createTestBlog(t *testing.T, env *testEnv, n int) string {
	t.Helper()

	slug := "test-blog-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanBlogs(t, env.DB, slug) })

	blocks := make([]string, n)
	for i := range blocks {
		blocks[i] = `{"type":"paragraph","data":{"text":"Block body text."}}`
	}
	body := `{
		"mainHeading": "Handler Test Article",
		"slug": "` + slug + `",
		"status": "published",
		"tags": "anchorage, biomechanics",
		"content": [` + strings.Join(blocks, ",") + `]
	}`

	rr := httptest.NewRecorder()
	env.Blogs.Create(rr, httptest.NewRequest(http.MethodPost, "/api/admin/blogs", strings.NewReader(body)))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: got status %d: %s", rr.Code, rr.Body.String())
	}
	return slug
}

func TestBlogCreateParsesCommaSeparatedTags(t *testing.T) {
	env := newTestEnv(t)
	slug := createTestBlog(t, env, 2)

	blog, err := env.BlogStore.FindBySlug(slug)
	if err != nil || blog == nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if len(blog.Tags) != 2 || blog.Tags[0] != "anchorage" || blog.Tags[1] != "biomechanics" {
		t.Errorf("tags: got %v", blog.Tags)
	}
	if blog.ReadingTime < 1 {
		t.Error("expected derived reading time")
	}
}

func TestBlogCreateDuplicateSlug(t *testing.T) {
	env := newTestEnv(t)
	slug := createTestBlog(t, env, 1)

	body := `{"mainHeading":"Again","slug":"` + slug + `","content":[]}`
	rr := httptest.NewRecorder()
	env.Blogs.Create(rr, httptest.NewRequest(http.MethodPost, "/api/admin/blogs", strings.NewReader(body)))
	if rr.Code != http.StatusConflict {
		t.Errorf("got status %d, want 409", rr.Code)
	}
}

func TestBlogCreateRejectsNonURLImages(t *testing.T) {
	env := newTestEnv(t)

	cases := []string{
		`{"mainHeading":"t","slug":"test-bad-hero","heroImage":"not a url %%","content":[]}`,
		`{"mainHeading":"t","slug":"test-bad-gallery","gallery":["ftp://x","also bad"],"content":[]}`,
	}
	for _, body := range cases {
		rr := httptest.NewRecorder()
		env.Blogs.Create(rr, httptest.NewRequest(http.MethodPost, "/api/admin/blogs", strings.NewReader(body)))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("got status %d, want 400: %s", rr.Code, rr.Body.String())
		}
	}

	// Root-relative paths and absolute URLs pass.
	slug := "test-good-hero-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanBlogs(t, env.DB, slug) })
	good := `{"mainHeading":"t","slug":"` + slug + `","heroImage":"/uploads/hero.jpg","gallery":["https://cdn.example.com/a.jpg"],"content":[]}`
	rr := httptest.NewRecorder()
	env.Blogs.Create(rr, httptest.NewRequest(http.MethodPost, "/api/admin/blogs", strings.NewReader(good)))
	if rr.Code != http.StatusCreated {
		t.Errorf("got status %d, want 201: %s", rr.Code, rr.Body.String())
	}
}

func TestBlogCreateListsAllInvalidFields(t *testing.T) {
	env := newTestEnv(t)

	// Both required fields missing; the response names each one.
	rr := httptest.NewRecorder()
	env.Blogs.Create(rr, httptest.NewRequest(http.MethodPost, "/api/admin/blogs",
		strings.NewReader(`{"content":[]}`)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rr.Code)
	}

	var resp struct {
		Error  string   `json:"error"`
		Fields []string `json:"fields"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Fields) != 2 {
		t.Fatalf("fields: got %v, want one entry per invalid field", resp.Fields)
	}
	joined := strings.Join(resp.Fields, " ")
	if !strings.Contains(joined, "mainHeading") || !strings.Contains(joined, "slug") {
		t.Errorf("fields must name mainHeading and slug: %v", resp.Fields)
	}
}

func TestBlogGetBySlugGatesAnonymousReaders(t *testing.T) {
	env := newTestEnv(t)
	slug := createTestBlog(t, env, gate.PreviewBlocks+3)

	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/api/blogs/"+slug, nil), "slug", slug)
	rr := httptest.NewRecorder()
	env.Blogs.GetBySlug(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Content     models.BlockList `json:"content"`
		Locked      bool             `json:"locked"`
		TotalBlocks int              `json:"totalBlocks"`
		Views       int              `json:"views"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if !resp.Locked {
		t.Error("anonymous read must be locked")
	}
	if len(resp.Content) != gate.PreviewBlocks {
		t.Errorf("preview blocks: got %d, want %d", len(resp.Content), gate.PreviewBlocks)
	}
	if resp.TotalBlocks != gate.PreviewBlocks+3 {
		t.Errorf("totalBlocks: got %d", resp.TotalBlocks)
	}
	if resp.Views != 1 {
		t.Errorf("views: got %d, want 1", resp.Views)
	}
}

func TestBlogGetBySlugUnlockedForReaders(t *testing.T) {
	env := newTestEnv(t)
	slug := createTestBlog(t, env, gate.PreviewBlocks+2)

	email := "test-reader-" + uuid.NewString()[:8] + "@example.com"
	t.Cleanup(func() { cleanUsers(t, env.DB, email) })
	user, err := env.UserStore.CreateWithPassword("Reader", email, "", "", "longenoughpw")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/api/blogs/"+slug, nil), "slug", slug)
	req = withUser(req, user)
	rr := httptest.NewRecorder()
	env.Blogs.GetBySlug(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d", rr.Code)
	}

	var resp struct {
		Content models.BlockList `json:"content"`
		Locked  bool             `json:"locked"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Locked {
		t.Error("authenticated read must not be locked")
	}
	if len(resp.Content) != gate.PreviewBlocks+2 {
		t.Errorf("content blocks: got %d", len(resp.Content))
	}
}

func TestBlogGetBySlugHidesDrafts(t *testing.T) {
	env := newTestEnv(t)

	slug := "test-draft-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanBlogs(t, env.DB, slug) })

	_, err := env.BlogStore.Create(&models.Blog{
		MainHeading: "Draft", Slug: slug, Status: models.BlogStatusDraft,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/api/blogs/"+slug, nil), "slug", slug)
	rr := httptest.NewRecorder()
	env.Blogs.GetBySlug(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("got status %d, want 404", rr.Code)
	}

	// Guessing a draft slug must not inflate its counter.
	draft, _ := env.BlogStore.FindBySlug(slug)
	if draft.Views != 0 {
		t.Errorf("draft views after public read: got %d, want 0", draft.Views)
	}
}

func TestBlogAddComment(t *testing.T) {
	env := newTestEnv(t)
	slug := createTestBlog(t, env, 1)

	body := `{"author":"A Student","content":"Very helpful.","isStudent":true}`
	req := withChiURLParam(httptest.NewRequest(http.MethodPost, "/api/blogs/"+slug+"/comments", strings.NewReader(body)), "slug", slug)
	rr := httptest.NewRecorder()
	env.Blogs.AddComment(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("got status %d: %s", rr.Code, rr.Body.String())
	}

	blog, _ := env.BlogStore.FindBySlug(slug)
	if len(blog.Comments) != 1 {
		t.Fatalf("comments: got %d, want 1", len(blog.Comments))
	}
	if !blog.Comments[0].IsStudent {
		t.Error("isStudent flag lost")
	}
}

func TestBlogListPagination(t *testing.T) {
	env := newTestEnv(t)
	createTestBlog(t, env, 1)
	createTestBlog(t, env, 1)

	req := httptest.NewRequest(http.MethodGet, "/api/blogs?page=1&limit=1", nil)
	rr := httptest.NewRecorder()
	env.Blogs.List(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d", rr.Code)
	}

	var resp struct {
		Blogs      []models.BlogSummary `json:"blogs"`
		Pagination paginationMeta       `json:"pagination"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Blogs) != 1 {
		t.Errorf("page size: got %d, want 1", len(resp.Blogs))
	}
	if resp.Pagination.TotalCount < 2 {
		t.Errorf("totalCount: got %d, want >= 2", resp.Pagination.TotalCount)
	}
	if !resp.Pagination.HasNext {
		t.Error("expected hasNext with more rows than the page")
	}
	if resp.Pagination.HasPrev {
		t.Error("first page must not have hasPrev")
	}
}

func TestBlogUpdateRederivesMetadata(t *testing.T) {
	env := newTestEnv(t)
	slug := createTestBlog(t, env, 1)

	body := `{
		"mainHeading": "Updated",
		"slug": "` + slug + `",
		"status": "published",
		"heroImage": "https://cdn.example.com/hero.jpg",
		"content": [{"type":"image","data":{"url":"https://cdn.example.com/fig1.jpg"}}]
	}`
	req := withChiURLParam(httptest.NewRequest(http.MethodPut, "/api/admin/blogs/"+slug, strings.NewReader(body)), "slug", slug)
	rr := httptest.NewRecorder()
	env.Blogs.Update(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		ImageMetadata models.ImageMetadata `json:"imageMetadata"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ImageMetadata.TotalImages != 2 {
		t.Errorf("totalImages: got %d, want 2", resp.ImageMetadata.TotalImages)
	}
	if resp.ImageMetadata.HeroImageURL != "https://cdn.example.com/hero.jpg" {
		t.Errorf("hero: got %q", resp.ImageMetadata.HeroImageURL)
	}
}

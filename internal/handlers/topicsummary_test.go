package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"orthopress/internal/models"
	"orthopress/internal/storage"
	"orthopress/internal/store"
)

// newTestStorage points a storage client at a local fake that serves
// one document with standard Range support.
func newTestStorage(t *testing.T, doc []byte) *storage.Client {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, "doc.pdf", time.Now(), bytes.NewReader(doc))
	}))
	t.Cleanup(upstream.Close)

	sc, err := storage.New(upstream.URL, "test", "test-access", "test-secret", "public", "private", "")
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	return sc
}

// seedSummary inserts a topic summary record pointing at a storage key.
func seedSummary(t *testing.T, summaries *store.TopicSummaryStore) *models.TopicSummary {
	t.Helper()

	id := uuid.New()
	summary, err := summaries.Create(&models.TopicSummary{
		ID:         id,
		Title:      "Test Summary " + id.String()[:8],
		Tags:       models.StringList{"growth"},
		FileURL:    "/api/topic-summaries/" + id.String() + "/stream",
		FileType:   "application/pdf",
		StorageKey: "topic-summaries/" + id.String() + ".pdf",
	})
	if err != nil {
		t.Fatalf("seed summary: %v", err)
	}
	return summary
}

func TestTopicSummarySignedURL(t *testing.T) {
	env := newTestEnv(t)
	summaries := store.NewTopicSummaryStore(env.DB)
	sc := newTestStorage(t, []byte("%PDF-1.4 test"))
	h := NewTopicSummaries(summaries, sc)

	summary := seedSummary(t, summaries)
	t.Cleanup(func() {
		env.DB.Exec("DELETE FROM topic_summaries WHERE id = $1", summary.ID)
	})

	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/api/topic-summaries/"+summary.ID.String()+"/signed-url", nil),
		"id", summary.ID.String())
	rr := httptest.NewRecorder()
	h.SignedURL(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", rr.Code, rr.Body.String())
	}

	body := rr.Body.String()
	if !strings.Contains(body, summary.StorageKey) {
		t.Errorf("signed url should reference the storage key: %s", body)
	}
	if !strings.Contains(body, "application/pdf") {
		t.Errorf("response should carry fileType: %s", body)
	}

	// A second mint yields a different URL (fresh signature).
	rr2 := httptest.NewRecorder()
	h.SignedURL(rr2, req)
	if rr2.Body.String() == body {
		t.Log("warning: identical signed urls; signatures should differ over time")
	}
}

func TestTopicSummaryStream(t *testing.T) {
	env := newTestEnv(t)
	summaries := store.NewTopicSummaryStore(env.DB)

	doc := []byte("%PDF-1.4 0123456789abcdef0123456789abcdef")
	h := NewTopicSummaries(summaries, newTestStorage(t, doc))

	summary := seedSummary(t, summaries)
	t.Cleanup(func() {
		env.DB.Exec("DELETE FROM topic_summaries WHERE id = $1", summary.ID)
	})

	// Full read.
	req := withChiURLParam(httptest.NewRequest(http.MethodGet, summary.FileURL, nil), "id", summary.ID.String())
	rr := httptest.NewRecorder()
	h.Stream(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", rr.Code, rr.Body.String())
	}
	if !bytes.Equal(rr.Body.Bytes(), doc) {
		t.Error("streamed body does not match the document")
	}
	if rr.Header().Get("Accept-Ranges") != "bytes" {
		t.Errorf("accept-ranges: got %q", rr.Header().Get("Accept-Ranges"))
	}

	// Range read passes through as a 206 with Content-Range.
	req = withChiURLParam(httptest.NewRequest(http.MethodGet, summary.FileURL, nil), "id", summary.ID.String())
	req.Header.Set("Range", "bytes=0-9")
	rr = httptest.NewRecorder()
	h.Stream(rr, req)
	if rr.Code != http.StatusPartialContent {
		t.Fatalf("range: got status %d, want 206", rr.Code)
	}
	if got := rr.Body.Len(); got != 10 {
		t.Errorf("range body: got %d bytes, want 10", got)
	}
	if cr := rr.Header().Get("Content-Range"); !strings.HasPrefix(cr, "bytes 0-9/") {
		t.Errorf("content-range: got %q", cr)
	}
}

func TestTopicSummaryStreamReemitsUpstreamStatus(t *testing.T) {
	env := newTestEnv(t)
	summaries := store.NewTopicSummaryStore(env.DB)

	// Upstream refuses the fetch; the client sees the provider's status,
	// not a blanket 502.
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	t.Cleanup(upstream.Close)

	sc, err := storage.New(upstream.URL, "test", "test-access", "test-secret", "public", "private", "")
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	h := NewTopicSummaries(summaries, sc)

	summary := seedSummary(t, summaries)
	t.Cleanup(func() {
		env.DB.Exec("DELETE FROM topic_summaries WHERE id = $1", summary.ID)
	})

	req := withChiURLParam(httptest.NewRequest(http.MethodGet, summary.FileURL, nil), "id", summary.ID.String())
	rr := httptest.NewRecorder()
	h.Stream(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("got status %d, want the upstream 403", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "403") {
		t.Errorf("body should carry the upstream status: %s", rr.Body.String())
	}
}

func TestTopicSummaryStreamUnknownID(t *testing.T) {
	env := newTestEnv(t)
	summaries := store.NewTopicSummaryStore(env.DB)
	h := NewTopicSummaries(summaries, newTestStorage(t, nil))

	id := uuid.NewString()
	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/api/topic-summaries/"+id+"/stream", nil), "id", id)
	rr := httptest.NewRecorder()
	h.Stream(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("got status %d, want 404", rr.Code)
	}
}

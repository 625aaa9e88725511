package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/mmcdole/gofeed"

	"github.com/cabouelw/codewise.ai-sub000/internal/config"
	"github.com/cabouelw/codewise.ai-sub000/internal/feed"
	"github.com/cabouelw/codewise.ai-sub000/internal/index"
	"github.com/cabouelw/codewise.ai-sub000/internal/model"
	"github.com/cabouelw/codewise.ai-sub000/internal/pipeline"
)

const testSite = "https://example.com"

var (
	today   = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	channel = model.Channel{SiteTitle: "CodeWise AI", Description: "Feed", BaseURL: testSite}
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testResult() *pipeline.Result {
	posts := []model.ContentItem{
		{Slug: "rag-intro", Title: "RAG intro", CategorySlug: "ai", Category: "AI", Tags: []string{"rag"}, Date: today, LastModified: today},
		{Slug: "rag-deep", Title: "RAG deep dive", CategorySlug: "ai", Category: "AI", Tags: []string{"rag"}, Date: today, LastModified: today},
		{Slug: "css-grid", Title: "CSS grid", CategorySlug: "web", Category: "Web", Date: today, LastModified: today},
	}
	tools := []model.ToolItem{
		{Slug: "writer", Category: "Writing", AIBased: true},
		{Slug: "editor", Category: "Writing", AIBased: true},
		{Slug: "painter", Category: "Design"},
	}
	idx := index.Build(posts, tools, today)
	return &pipeline.Result{
		Posts:   posts,
		Tools:   tools,
		Index:   idx,
		Entries: feed.Dedup(feed.SitemapEntries(idx, config.DefaultPages(), testSite)),
	}
}

func newTestRouter(source Source) *gin.Engine {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := func() time.Time { return today.Add(9 * time.Hour) }
	return NewRouter(New(source, channel, now, log))
}

func okSource() (*pipeline.Result, error) { return testResult(), nil }

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestXMLRoutes(t *testing.T) {
	r := newTestRouter(okSource)

	for _, path := range []string{"/rss.xml", "/sitemap.xml"} {
		t.Run(path, func(t *testing.T) {
			w := get(r, path)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			if got := w.Header().Get("Content-Type"); got != XMLContentType {
				t.Errorf("Content-Type = %q, want %q", got, XMLContentType)
			}
			if got := w.Header().Get("Cache-Control"); got != CacheControl {
				t.Errorf("Cache-Control = %q, want %q", got, CacheControl)
			}
			if !strings.HasPrefix(w.Body.String(), "<?xml") {
				t.Errorf("body is not an XML document:\n%s", w.Body.String())
			}
		})
	}
}

func TestRSSRouteParses(t *testing.T) {
	w := get(newTestRouter(okSource), "/rss.xml")
	parsed, err := gofeed.NewParser().ParseString(w.Body.String())
	if err != nil {
		t.Fatalf("rss does not parse: %v", err)
	}
	if len(parsed.Items) != 3 {
		t.Errorf("got %d items, want 3", len(parsed.Items))
	}
	if parsed.UpdatedParsed == nil || !parsed.UpdatedParsed.Equal(today.Add(9*time.Hour)) {
		t.Errorf("lastBuildDate = %v, want request time", parsed.UpdatedParsed)
	}
}

func TestXMLRoutesFailure(t *testing.T) {
	r := newTestRouter(func() (*pipeline.Result, error) {
		return nil, errors.New("disk on fire")
	})

	for _, path := range []string{"/rss.xml", "/sitemap.xml"} {
		w := get(r, path)
		if w.Code != http.StatusInternalServerError {
			t.Errorf("%s status = %d, want 500", path, w.Code)
		}
		if w.Body.Len() != 0 {
			t.Errorf("%s body = %q, want empty", path, w.Body.String())
		}
	}
}

type relatedResponse struct {
	Slug    string `json:"slug"`
	Related []struct {
		Slug string `json:"slug"`
		URL  string `json:"url"`
	} `json:"related"`
}

func relatedSlugs(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var resp relatedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON %q: %v", w.Body.String(), err)
	}
	out := []string{}
	for _, r := range resp.Related {
		out = append(out, r.Slug)
	}
	return out
}

func TestRelatedRoutes(t *testing.T) {
	r := newTestRouter(okSource)

	tests := []struct {
		path string
		code int
		want []string
	}{
		{path: "/api/posts/rag-intro/related", code: http.StatusOK, want: []string{"rag-deep", "css-grid"}},
		{path: "/api/posts/rag-intro/related?limit=1", code: http.StatusOK, want: []string{"rag-deep"}},
		{path: "/api/tools/writer/related", code: http.StatusOK, want: []string{"editor", "painter"}},
		{path: "/api/tools/painter/related?limit=0", code: http.StatusOK, want: []string{"writer", "editor"}},
		{path: "/api/posts/missing/related", code: http.StatusNotFound},
		{path: "/api/tools/missing/related", code: http.StatusNotFound},
		{path: "/api/posts/rag-intro/related?limit=abc", code: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := get(r, tt.path)
			if w.Code != tt.code {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.code, w.Body.String())
			}
			if tt.code != http.StatusOK {
				return
			}
			if diff := cmp.Diff(tt.want, relatedSlugs(t, w)); diff != "" {
				t.Errorf("related mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRelatedPostURL(t *testing.T) {
	w := get(newTestRouter(okSource), "/api/posts/css-grid/related?limit=1")
	var resp relatedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Related) != 1 || resp.Related[0].URL != testSite+"/blog/"+resp.Related[0].Slug {
		t.Errorf("unexpected related payload: %s", w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	w := get(newTestRouter(okSource), "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if diff := cmp.Diff(`{"status":"ok"}`, w.Body.String()); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

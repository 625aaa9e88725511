// Package httpserver serves the feeds and related-content lookups at
// request time. Every request runs the pipeline against the current
// content store.
package httpserver

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cabouelw/codewise.ai-sub000/internal/feed"
	"github.com/cabouelw/codewise.ai-sub000/internal/model"
	"github.com/cabouelw/codewise.ai-sub000/internal/pipeline"
	"github.com/cabouelw/codewise.ai-sub000/internal/related"
)

// Response headers for the XML documents.
const (
	XMLContentType = "application/xml; charset=utf-8"
	CacheControl   = "s-maxage=3600, stale-while-revalidate=86400"
)

// Source produces a fresh pipeline result.
type Source func() (*pipeline.Result, error)

type Server struct {
	source  Source
	channel model.Channel
	now     func() time.Time
	log     *slog.Logger
}

// New returns a Server. A nil now defaults to time.Now.
func New(source Source, ch model.Channel, now func() time.Time, log *slog.Logger) *Server {
	if now == nil {
		now = time.Now
	}
	return &Server{source: source, channel: ch, now: now, log: log}
}

// NewRouter constructs a Gin engine with the feed, related-content and
// health routes registered.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/rss.xml", s.handleRSS)
	r.GET("/sitemap.xml", s.handleSitemap)
	r.GET("/health", handleHealth)

	api := r.Group("/api")
	api.GET("/posts/:slug/related", s.handleRelatedPosts)
	api.GET("/tools/:slug/related", s.handleRelatedTools)
	return r
}

func (s *Server) handleRSS(c *gin.Context) {
	s.renderXML(c, "rss", func(res *pipeline.Result, buf *bytes.Buffer) error {
		return res.RenderRSS(buf, s.channel, s.now())
	})
}

func (s *Server) handleSitemap(c *gin.Context) {
	s.renderXML(c, "sitemap", func(res *pipeline.Result, buf *bytes.Buffer) error {
		return res.RenderSitemap(buf)
	})
}

// renderXML runs the pipeline and renders into a buffer so that a failure
// leaves the response free of partial XML.
func (s *Server) renderXML(c *gin.Context, doc string, render func(*pipeline.Result, *bytes.Buffer) error) {
	res, err := s.source()
	if err != nil {
		s.log.Error("pipeline failed", "document", doc, "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := render(res, &buf); err != nil {
		s.log.Error("render failed", "document", doc, "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Header("Cache-Control", CacheControl)
	c.Data(http.StatusOK, XMLContentType, buf.Bytes())
}

type postSummary struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category,omitempty"`
	Tags        []string  `json:"tags"`
	ReadingTime string    `json:"readingTime"`
}

func (s *Server) summarize(p model.ContentItem) postSummary {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return postSummary{
		Slug:        p.Slug,
		Title:       p.Title,
		Description: p.Description,
		URL:         feed.PostURL(s.channel.BaseURL, p.Slug),
		Date:        p.Date,
		Category:    p.Category,
		Tags:        tags,
		ReadingTime: p.ReadingTime,
	}
}

func (s *Server) handleRelatedPosts(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	res, err := s.source()
	if err != nil {
		s.log.Error("pipeline failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "content unavailable"})
		return
	}

	slug := c.Param("slug")
	target, found := res.Index.PostBySlug(slug)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found", "slug": slug})
		return
	}

	posts := related.Posts(target, res.Posts, limit)
	out := make([]postSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, s.summarize(p))
	}
	c.JSON(http.StatusOK, gin.H{"slug": slug, "related": out})
}

func (s *Server) handleRelatedTools(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	res, err := s.source()
	if err != nil {
		s.log.Error("pipeline failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "content unavailable"})
		return
	}

	slug := c.Param("slug")
	target, found := res.Index.ToolBySlug(slug)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "tool not found", "slug": slug})
		return
	}

	tools := related.Tools(target, res.Tools, limit)
	if tools == nil {
		tools = []model.ToolItem{}
	}
	c.JSON(http.StatusOK, gin.H{"slug": slug, "related": tools})
}

// parseLimit reads the optional ?limit= query. It writes a 400 response and
// reports false when the value is not an integer.
func parseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return related.DefaultLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return 0, false
	}
	return n, true
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Package pipeline runs the content-to-feeds build shared by the CLI and the
// HTTP server.
package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cabouelw/codewise.ai-sub000/internal/config"
	"github.com/cabouelw/codewise.ai-sub000/internal/content"
	"github.com/cabouelw/codewise.ai-sub000/internal/feed"
	"github.com/cabouelw/codewise.ai-sub000/internal/index"
	"github.com/cabouelw/codewise.ai-sub000/internal/model"
)

// Output file names, relative to the output directory.
const (
	SitemapFile = "sitemap.xml"
	RSSFile     = "rss.xml"
)

// ErrNoIndex is returned when rendering a Result that was not built by Run.
var ErrNoIndex = errors.New("result has no index")

type Options struct {
	ContentDir string
	ToolsFile  string
	SiteURL    string
	Pages      []config.StaticPage // nil means config.DefaultPages
	Today      time.Time
	Logger     *slog.Logger
}

// Result is one snapshot of the site: the normalized inputs, the index built
// over them and the deduplicated sitemap entries.
type Result struct {
	Posts   []model.ContentItem
	Tools   []model.ToolItem
	Index   *index.Index
	Entries []model.FeedEntry
}

// Run reads the content store and tool catalog and derives the index and
// sitemap entries. Missing inputs produce empty collections; only an
// unreadable content directory is an error.
func Run(opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	pages := opts.Pages
	if pages == nil {
		pages = config.DefaultPages()
	}
	today := opts.Today
	if today.IsZero() {
		today = content.Today(time.Now())
	}

	posts, err := content.ReadCorpus(opts.ContentDir, today, log)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}
	tools := content.LoadTools(opts.ToolsFile, log)

	idx := index.Build(posts, tools, today)
	entries := feed.Dedup(feed.SitemapEntries(idx, pages, opts.SiteURL))

	log.Debug("pipeline complete",
		"posts", len(posts),
		"tools", len(tools),
		"urls", len(entries))

	return &Result{Posts: posts, Tools: tools, Index: idx, Entries: entries}, nil
}

// RenderSitemap writes the sitemap document.
func (r *Result) RenderSitemap(w io.Writer) error {
	return feed.WriteSitemap(w, r.Entries)
}

// RenderRSS writes the RSS document.
func (r *Result) RenderRSS(w io.Writer, ch model.Channel, now time.Time) error {
	if r.Index == nil {
		return ErrNoIndex
	}
	return feed.WriteRSS(w, r.Index, ch, now)
}

// URLs returns the sitemap locations in output order.
func (r *Result) URLs() []string {
	out := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.URL
	}
	return out
}

// WriteFiles renders both documents in memory, then writes them into
// outputDir, creating it if needed. A render failure leaves existing files
// untouched.
func WriteFiles(res *Result, outputDir string, ch model.Channel, now time.Time) error {
	var sitemap, rss bytes.Buffer
	if err := res.RenderSitemap(&sitemap); err != nil {
		return fmt.Errorf("failed to render sitemap: %w", err)
	}
	if err := res.RenderRSS(&rss, ch, now); err != nil {
		return fmt.Errorf("failed to render rss: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory '%s': %w", outputDir, err)
	}
	if err := writeFile(filepath.Join(outputDir, SitemapFile), sitemap.Bytes()); err != nil {
		return err
	}
	return writeFile(filepath.Join(outputDir, RSSFile), rss.Bytes())
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	return nil
}

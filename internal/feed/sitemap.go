// Package feed turns an index into sitemap entries, a sitemap document and
// an RSS 2.0 document.
package feed

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cabouelw/codewise.ai-sub000/internal/config"
	"github.com/cabouelw/codewise.ai-sub000/internal/index"
	"github.com/cabouelw/codewise.ai-sub000/internal/model"
)

// SitemapNamespace is the xmlns of the <urlset> root.
const SitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

const lastModLayout = "2006-01-02"

// Per-collection change frequency and priority.
var (
	postPolicy         = policy{model.ChangeMonthly, 0.7}
	categoryPolicy     = policy{model.ChangeWeekly, 0.6}
	authorPolicy       = policy{model.ChangeMonthly, 0.55}
	toolPolicy         = policy{model.ChangeWeekly, 0.7}
	toolCategoryPolicy = policy{model.ChangeWeekly, 0.65}
)

type policy struct {
	freq     model.ChangeFrequency
	priority float64
}

func (p policy) entry(loc string, lastMod time.Time) model.FeedEntry {
	return model.FeedEntry{
		URL:             loc,
		LastModified:    lastMod,
		ChangeFrequency: p.freq,
		Priority:        model.Priority(p.priority),
	}
}

// URL joins siteURL with the escaped path segments.
func URL(siteURL string, segments ...string) string {
	if len(segments) == 0 {
		return siteURL + "/"
	}
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return siteURL + "/" + strings.Join(escaped, "/")
}

// PostURL is the canonical URL of a blog post.
func PostURL(siteURL, slug string) string {
	return URL(siteURL, "blog", slug)
}

// SitemapEntries lists every URL of the site in insertion order: static
// pages, posts, categories, authors, tools, tool categories. The result is
// not yet deduplicated.
func SitemapEntries(idx *index.Index, pages []config.StaticPage, siteURL string) []model.FeedEntry {
	var entries []model.FeedEntry

	for _, p := range pages {
		e := model.FeedEntry{
			URL:             siteURL + p.Path,
			ChangeFrequency: p.ChangeFrequency,
			Priority:        model.Priority(p.Priority),
		}
		if p.LatestContent {
			e.LastModified = idx.LatestContentDate
		}
		entries = append(entries, e)
	}

	for _, p := range idx.Posts {
		entries = append(entries, postPolicy.entry(PostURL(siteURL, p.Slug), p.LastModified))
	}

	for _, slug := range idx.VisibleCategories() {
		c := idx.Categories[slug]
		entries = append(entries, categoryPolicy.entry(URL(siteURL, "blog", "category", slug), c.LatestLastModified))
	}

	for _, slug := range idx.VisibleAuthors() {
		a := idx.Authors[slug]
		entries = append(entries, authorPolicy.entry(URL(siteURL, "blog", "author", slug), a.LatestLastModified))
	}

	for _, t := range idx.Tools {
		entries = append(entries, toolPolicy.entry(URL(siteURL, "tools", t.Slug), time.Time{}))
	}

	for _, slug := range idx.VisibleToolCategories() {
		entries = append(entries, toolCategoryPolicy.entry(URL(siteURL, "tools", "category", slug), time.Time{}))
	}

	return entries
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr,omitempty"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// FormatPriority renders a priority with exactly one decimal place.
func FormatPriority(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64)
}

// WriteSitemap writes entries as a <urlset> document, in the given order.
func WriteSitemap(w io.Writer, entries []model.FeedEntry) error {
	set := urlSet{Xmlns: SitemapNamespace, URLs: make([]sitemapURL, 0, len(entries))}
	for _, e := range entries {
		u := sitemapURL{Loc: e.URL, ChangeFreq: string(e.ChangeFrequency)}
		if !e.LastModified.IsZero() {
			u.LastMod = e.LastModified.UTC().Format(lastModLayout)
		}
		if e.Priority != nil {
			u.Priority = FormatPriority(*e.Priority)
		}
		set.URLs = append(set.URLs, u)
	}
	return encode(w, set)
}

// ReadSitemap parses a <urlset> document back into entries.
func ReadSitemap(r io.Reader) ([]model.FeedEntry, error) {
	var set urlSet
	if err := xml.NewDecoder(r).Decode(&set); err != nil {
		return nil, fmt.Errorf("decode sitemap: %w", err)
	}

	entries := make([]model.FeedEntry, 0, len(set.URLs))
	for i, u := range set.URLs {
		e := model.FeedEntry{URL: u.Loc, ChangeFrequency: model.ChangeFrequency(u.ChangeFreq)}
		if u.LastMod != "" {
			t, err := time.Parse(lastModLayout, u.LastMod)
			if err != nil {
				return nil, fmt.Errorf("url[%d] lastmod %q: %w", i, u.LastMod, err)
			}
			e.LastModified = t
		}
		if u.Priority != "" {
			p, err := strconv.ParseFloat(u.Priority, 64)
			if err != nil {
				return nil, fmt.Errorf("url[%d] priority %q: %w", i, u.Priority, err)
			}
			e.Priority = &p
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func encode(w io.Writer, v interface{}) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode xml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

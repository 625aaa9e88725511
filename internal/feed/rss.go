package feed

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cabouelw/codewise.ai-sub000/internal/index"
	"github.com/cabouelw/codewise.ai-sub000/internal/model"
)

type rss struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       cdata    `xml:"title"`
	Link        string   `xml:"link"`
	GUID        rssGUID  `xml:"guid"`
	Description cdata    `xml:"description"`
	PubDate     string   `xml:"pubDate"`
	Author      string   `xml:"author,omitempty"`
	Categories  []string `xml:"category"`
}

type rssGUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type cdata struct {
	Value string `xml:",cdata"`
}

// newCDATA replaces runes outside the XML 1.0 Char production with U+FFFD.
// encoding/xml writes CDATA sections verbatim, unlike character data.
func newCDATA(s string) cdata {
	return cdata{Value: strings.Map(func(r rune) rune {
		if isXMLChar(r) {
			return r
		}
		return utf8.RuneError
	}, s)}
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}

// AuthorAddress formats the RSS <author> value for a post author.
func AuthorAddress(siteURL, name string) string {
	host := siteURL
	if u, err := url.Parse(siteURL); err == nil && u.Hostname() != "" {
		host = u.Hostname()
	}
	return fmt.Sprintf("noreply@%s (%s)", host, name)
}

// WriteRSS writes an RSS 2.0 document with one item per post, ordered by
// slug. Item dates come from the publish date; lastBuildDate is now.
func WriteRSS(w io.Writer, idx *index.Index, ch model.Channel, now time.Time) error {
	posts := make([]model.ContentItem, len(idx.Posts))
	copy(posts, idx.Posts)
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Slug < posts[j].Slug
	})

	doc := rss{
		Version: "2.0",
		Channel: rssChannel{
			Title:         ch.SiteTitle,
			Link:          ch.BaseURL,
			Description:   ch.Description,
			Language:      ch.Language,
			LastBuildDate: now.UTC().Format(http.TimeFormat),
			Items:         make([]rssItem, 0, len(posts)),
		},
	}

	for _, p := range posts {
		link := PostURL(ch.BaseURL, p.Slug)
		item := rssItem{
			Title:       newCDATA(p.Title),
			Link:        link,
			GUID:        rssGUID{IsPermaLink: "true", Value: link},
			Description: newCDATA(p.Description),
			PubDate:     p.Date.UTC().Format(http.TimeFormat),
		}
		if p.Author != "" {
			item.Author = AuthorAddress(ch.BaseURL, p.Author)
		}
		if p.Category != "" {
			item.Categories = append(item.Categories, p.Category)
		}
		item.Categories = append(item.Categories, p.Tags...)
		doc.Channel.Items = append(doc.Channel.Items, item)
	}

	return encode(w, doc)
}

package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mmcdole/gofeed"

	"github.com/cabouelw/codewise.ai-sub000/internal/feed"
)

// ErrCheckFailed wraps every problem Check reports about written outputs.
var ErrCheckFailed = errors.New("output check failed")

// CheckReport summarizes the documents found in an output directory.
type CheckReport struct {
	Items    int
	URLs     int
	Problems []string
}

// Check re-reads sitemap.xml and rss.xml from outputDir. Both must parse,
// the sitemap must be sorted and free of duplicates, and every RSS item link
// must appear in the sitemap.
func Check(outputDir string) (*CheckReport, error) {
	sitemapPath := filepath.Join(outputDir, SitemapFile)
	f, err := os.Open(sitemapPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open '%s': %w", sitemapPath, err)
	}
	defer f.Close()
	entries, err := feed.ReadSitemap(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCheckFailed, sitemapPath, err)
	}

	rssPath := filepath.Join(outputDir, RSSFile)
	r, err := os.Open(rssPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open '%s': %w", rssPath, err)
	}
	defer r.Close()
	parsed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCheckFailed, rssPath, err)
	}

	report := &CheckReport{Items: len(parsed.Items), URLs: len(entries)}

	locs := make(map[string]bool, len(entries))
	urls := make([]string, 0, len(entries))
	for _, e := range entries {
		if locs[e.URL] {
			report.Problems = append(report.Problems, fmt.Sprintf("duplicate sitemap url %s", e.URL))
		}
		locs[e.URL] = true
		urls = append(urls, e.URL)
	}
	if !sort.StringsAreSorted(urls) {
		report.Problems = append(report.Problems, "sitemap urls are not sorted")
	}

	for _, item := range parsed.Items {
		if !locs[item.Link] {
			report.Problems = append(report.Problems, fmt.Sprintf("rss item %s missing from sitemap", item.Link))
		}
	}

	if len(report.Problems) > 0 {
		return report, fmt.Errorf("%w: %d problem(s)", ErrCheckFailed, len(report.Problems))
	}
	return report, nil
}

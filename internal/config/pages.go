package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/cabouelw/codewise.ai-sub000/internal/model"
)

// StaticPage is one row of the static page table emitted into the sitemap.
// When LatestContent is set, the page's lastmod is the newest post's date.
type StaticPage struct {
	Path            string                `yaml:"path"`
	ChangeFrequency model.ChangeFrequency `yaml:"changefreq"`
	Priority        float64               `yaml:"priority"`
	LatestContent   bool                  `yaml:"latestContent"`
}

// DefaultPages returns the built-in static page table.
func DefaultPages() []StaticPage {
	return []StaticPage{
		{Path: "/", ChangeFrequency: model.ChangeDaily, Priority: 1.0, LatestContent: true},
		{Path: "/blog", ChangeFrequency: model.ChangeWeekly, Priority: 0.9, LatestContent: true},
		{Path: "/tools", ChangeFrequency: model.ChangeWeekly, Priority: 0.75},
		{Path: "/about", ChangeFrequency: model.ChangeMonthly, Priority: 0.6},
		{Path: "/contact", ChangeFrequency: model.ChangeMonthly, Priority: 0.6},
		{Path: "/privacy-policy", ChangeFrequency: model.ChangeYearly, Priority: 0.5},
	}
}

type pagesFile struct {
	Pages []StaticPage `yaml:"pages"`
}

// LoadPages reads a static page table from a YAML file. An empty path
// returns DefaultPages.
func LoadPages(path string) ([]StaticPage, error) {
	if path == "" {
		return DefaultPages(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading pages file %s: %w", path, err)
	}

	var pf pagesFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("error unmarshalling pages file %s: %w", path, err)
	}

	for i, p := range pf.Pages {
		if p.Path == "" || p.Path[0] != '/' {
			return nil, fmt.Errorf("pages file %s: page[%d] path %q must start with /", path, i, p.Path)
		}
	}
	return pf.Pages, nil
}

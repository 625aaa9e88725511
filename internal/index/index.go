// Package index builds the derived collections the feeds are generated from.
package index

import (
	"sort"
	"time"

	"github.com/cabouelw/codewise.ai-sub000/internal/content"
	"github.com/cabouelw/codewise.ai-sub000/internal/model"
)

// MinListingCount is the number of items a category or tool category needs
// before its listing page exists.
const MinListingCount = 2

// CategoryStat summarizes one content category.
type CategoryStat struct {
	Name               string
	Count              int
	LatestLastModified time.Time
}

// AuthorStat summarizes one author.
type AuthorStat struct {
	Name               string
	Count              int
	LatestLastModified time.Time
}

// ToolCategoryStat summarizes one tool category.
type ToolCategoryStat struct {
	Name  string
	Count int
}

// Index is the read-only aggregate over one snapshot of the corpus.
type Index struct {
	Posts             []model.ContentItem // corpus order
	Tools             []model.ToolItem
	PostsByDateDesc   []model.ContentItem
	Categories        map[string]CategoryStat
	Authors           map[string]AuthorStat
	ToolCategories    map[string]ToolCategoryStat
	LatestContentDate time.Time
}

// Build folds posts and tools into an Index. today is used as
// LatestContentDate when there are no posts.
func Build(posts []model.ContentItem, tools []model.ToolItem, today time.Time) *Index {
	idx := &Index{
		Posts:             posts,
		Tools:             tools,
		Categories:        make(map[string]CategoryStat),
		Authors:           make(map[string]AuthorStat),
		ToolCategories:    make(map[string]ToolCategoryStat),
		LatestContentDate: today,
	}

	idx.PostsByDateDesc = make([]model.ContentItem, len(posts))
	copy(idx.PostsByDateDesc, posts)
	sort.SliceStable(idx.PostsByDateDesc, func(i, j int) bool {
		return idx.PostsByDateDesc[i].Date.After(idx.PostsByDateDesc[j].Date)
	})

	var latest time.Time
	for _, p := range posts {
		if p.LastModified.After(latest) {
			latest = p.LastModified
		}

		if p.CategorySlug != "" {
			c := idx.Categories[p.CategorySlug]
			if c.Name == "" {
				c.Name = p.Category
			}
			c.Count++
			if p.LastModified.After(c.LatestLastModified) {
				c.LatestLastModified = p.LastModified
			}
			idx.Categories[p.CategorySlug] = c
		}

		if p.AuthorSlug != "" {
			a := idx.Authors[p.AuthorSlug]
			if a.Name == "" {
				a.Name = p.Author
			}
			a.Count++
			if p.LastModified.After(a.LatestLastModified) {
				a.LatestLastModified = p.LastModified
			}
			idx.Authors[p.AuthorSlug] = a
		}
	}
	if !latest.IsZero() {
		idx.LatestContentDate = latest
	}

	for _, t := range tools {
		slug := content.Slugify(t.Category)
		if slug == "" {
			continue
		}
		tc := idx.ToolCategories[slug]
		if tc.Name == "" {
			tc.Name = t.Category
		}
		tc.Count++
		idx.ToolCategories[slug] = tc
	}

	return idx
}

// VisibleCategories returns the sorted slugs of categories with at least
// MinListingCount posts.
func (idx *Index) VisibleCategories() []string {
	var out []string
	for slug, c := range idx.Categories {
		if c.Count >= MinListingCount {
			out = append(out, slug)
		}
	}
	sort.Strings(out)
	return out
}

// VisibleAuthors returns every author slug, sorted. Author pages are not
// gated by a minimum count.
func (idx *Index) VisibleAuthors() []string {
	out := make([]string, 0, len(idx.Authors))
	for slug := range idx.Authors {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}

// VisibleToolCategories returns the sorted slugs of tool categories with at
// least MinListingCount tools.
func (idx *Index) VisibleToolCategories() []string {
	var out []string
	for slug, c := range idx.ToolCategories {
		if c.Count >= MinListingCount {
			out = append(out, slug)
		}
	}
	sort.Strings(out)
	return out
}

// PostBySlug looks up a post by slug.
func (idx *Index) PostBySlug(slug string) (model.ContentItem, bool) {
	for _, p := range idx.Posts {
		if p.Slug == slug {
			return p, true
		}
	}
	return model.ContentItem{}, false
}

// ToolBySlug looks up a tool by slug.
func (idx *Index) ToolBySlug(slug string) (model.ToolItem, bool) {
	for _, t := range idx.Tools {
		if t.Slug == slug {
			return t, true
		}
	}
	return model.ToolItem{}, false
}

package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/cabouelw/codewise.ai-sub000/internal/index"
	"github.com/cabouelw/codewise.ai-sub000/internal/pipeline"
	"github.com/cabouelw/codewise.ai-sub000/internal/related"
	"github.com/cabouelw/codewise.ai-sub000/internal/report"
)

var (
	relatedSlug  string
	relatedLimit int
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Prints the aggregate index as tables",
	Long: `The index command runs the pipeline without writing files and prints the
categories, authors and tool categories it found, marking the ones that get a
listing page. With --related it prints the related posts or tools for a slug.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := runPipeline(time.Now())
		if err != nil {
			return err
		}

		tables := indexTables(res.Index)
		if relatedSlug != "" {
			t, err := relatedTable(res, relatedSlug, relatedLimit)
			if err != nil {
				return err
			}
			tables = append(tables, t)
		}

		out := cmd.OutOrStdout()
		for _, t := range tables {
			if err := t.Write(out); err != nil {
				return err
			}
		}
		return nil
	},
}

func indexTables(idx *index.Index) []report.Table {
	day := func(t time.Time) string { return t.Format("2006-01-02") }
	listed := func(ok bool) string {
		if ok {
			return "yes"
		}
		return "no"
	}

	categories := report.Table{Title: "categories", Headers: []string{"slug", "name", "posts", "last modified", "listed"}}
	visible := make(map[string]bool)
	for _, slug := range idx.VisibleCategories() {
		visible[slug] = true
	}
	for _, slug := range sortedKeys(idx.Categories) {
		c := idx.Categories[slug]
		categories.Rows = append(categories.Rows, []string{slug, c.Name, strconv.Itoa(c.Count), day(c.LatestLastModified), listed(visible[slug])})
	}

	authors := report.Table{Title: "authors", Headers: []string{"slug", "name", "posts", "last modified"}}
	for _, slug := range idx.VisibleAuthors() {
		a := idx.Authors[slug]
		authors.Rows = append(authors.Rows, []string{slug, a.Name, strconv.Itoa(a.Count), day(a.LatestLastModified)})
	}

	toolCategories := report.Table{Title: "tool categories", Headers: []string{"slug", "name", "tools", "listed"}}
	visible = make(map[string]bool)
	for _, slug := range idx.VisibleToolCategories() {
		visible[slug] = true
	}
	for _, slug := range sortedKeys(idx.ToolCategories) {
		c := idx.ToolCategories[slug]
		toolCategories.Rows = append(toolCategories.Rows, []string{slug, c.Name, strconv.Itoa(c.Count), listed(visible[slug])})
	}

	return []report.Table{categories, authors, toolCategories}
}

func relatedTable(res *pipeline.Result, slug string, limit int) (report.Table, error) {
	if post, ok := res.Index.PostBySlug(slug); ok {
		t := report.Table{Title: "related posts for " + slug, Headers: []string{"slug", "title", "category"}}
		for _, p := range related.Posts(post, res.Posts, limit) {
			t.Rows = append(t.Rows, []string{p.Slug, p.Title, p.Category})
		}
		return t, nil
	}
	if tool, ok := res.Index.ToolBySlug(slug); ok {
		t := report.Table{Title: "related tools for " + slug, Headers: []string{"slug", "name", "category"}}
		for _, r := range related.Tools(tool, res.Tools, limit) {
			t.Rows = append(t.Rows, []string{r.Slug, r.Name, r.Category})
		}
		return t, nil
	}
	return report.Table{}, fmt.Errorf("no post or tool with slug %q", slug)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	indexCmd.Flags().StringVar(&relatedSlug, "related", "", "print related items for this post or tool slug")
	indexCmd.Flags().IntVar(&relatedLimit, "limit", related.DefaultLimit, "number of related items")
	rootCmd.AddCommand(indexCmd)
}

// Package related ranks posts and tools by how much they have in common
// with a target item.
package related

import (
	"sort"

	"github.com/cabouelw/codewise.ai-sub000/internal/content"
	"github.com/cabouelw/codewise.ai-sub000/internal/model"
)

// DefaultLimit is used when a non-positive limit is requested.
const DefaultLimit = 3

// Scoring weights.
const (
	PostCategoryWeight = 3
	ToolCategoryWeight = 5
	ToolAIBasedWeight  = 2
	SharedTagWeight    = 1
)

type scored[T any] struct {
	item  T
	score int
}

// rank sorts candidates by score, keeping corpus order for ties, and
// truncates to limit.
func rank[T any](candidates []scored[T], limit int) []T {
	if limit <= 0 {
		limit = DefaultLimit
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]T, len(candidates))
	for i, c := range candidates {
		out[i] = c.item
	}
	return out
}

// Posts returns up to limit posts related to target.
func Posts(target model.ContentItem, corpus []model.ContentItem, limit int) []model.ContentItem {
	candidates := make([]scored[model.ContentItem], 0, len(corpus))
	for _, p := range corpus {
		if p.Slug == target.Slug {
			continue
		}
		score := SharedTagWeight * sharedTags(target.Tags, p.Tags)
		if target.CategorySlug != "" && p.CategorySlug == target.CategorySlug {
			score += PostCategoryWeight
		}
		candidates = append(candidates, scored[model.ContentItem]{item: p, score: score})
	}
	return rank(candidates, limit)
}

// Tools returns up to limit tools related to target.
func Tools(target model.ToolItem, catalog []model.ToolItem, limit int) []model.ToolItem {
	category := content.Slugify(target.Category)
	candidates := make([]scored[model.ToolItem], 0, len(catalog))
	for _, t := range catalog {
		if t.Slug == target.Slug {
			continue
		}
		score := SharedTagWeight * sharedTags(target.Tags, t.Tags)
		if category != "" && content.Slugify(t.Category) == category {
			score += ToolCategoryWeight
		}
		if t.AIBased == target.AIBased {
			score += ToolAIBasedWeight
		}
		candidates = append(candidates, scored[model.ToolItem]{item: t, score: score})
	}
	return rank(candidates, limit)
}

func sharedTags(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	n := 0
	for _, t := range b {
		if _, ok := set[t]; ok {
			n++
			delete(set, t)
		}
	}
	return n
}

package feed

import (
	"sort"

	"github.com/cabouelw/codewise.ai-sub000/internal/model"
)

// Dedup collapses entries sharing a URL, keeping the last one inserted, and
// returns the survivors sorted by URL.
func Dedup(entries []model.FeedEntry) []model.FeedEntry {
	byURL := make(map[string]model.FeedEntry, len(entries))
	for _, e := range entries {
		byURL[e.URL] = e
	}

	out := make([]model.FeedEntry, 0, len(byURL))
	for _, e := range byURL {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].URL < out[j].URL
	})
	return out
}

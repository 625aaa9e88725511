// Package history records the URL set of each build so consecutive builds
// can be compared.
package history

import (
	"context"
	"errors"
	"sort"
	"time"
)

// ErrNoBuilds is returned by LatestBuild before the first build is recorded.
var ErrNoBuilds = errors.New("no builds recorded")

// Build is one recorded pipeline run.
type Build struct {
	ID       int64
	SiteURL  string
	BuiltAt  time.Time
	URLCount int
}

// Store is the persistence interface for build history.
type Store interface {
	RecordBuild(ctx context.Context, siteURL string, builtAt time.Time, urls []string) (*Build, error)
	LatestBuild(ctx context.Context) (*Build, error)
	BuildURLs(ctx context.Context, id int64) ([]string, error)
	Close() error
}

// Diff reports the URLs present in next but not prev, and those present in
// prev but not next. Both results are sorted.
func Diff(prev, next []string) (added, removed []string) {
	before := make(map[string]bool, len(prev))
	for _, u := range prev {
		before[u] = true
	}
	after := make(map[string]bool, len(next))
	for _, u := range next {
		after[u] = true
		if !before[u] {
			added = append(added, u)
		}
	}
	for _, u := range prev {
		if !after[u] {
			removed = append(removed, u)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

// Record stores urls as a new build and diffs them against the previous
// build. The first build reports every URL as added.
func Record(ctx context.Context, s Store, siteURL string, builtAt time.Time, urls []string) (added, removed []string, err error) {
	var prev []string
	last, err := s.LatestBuild(ctx)
	switch {
	case errors.Is(err, ErrNoBuilds):
	case err != nil:
		return nil, nil, err
	default:
		if prev, err = s.BuildURLs(ctx, last.ID); err != nil {
			return nil, nil, err
		}
	}

	if _, err := s.RecordBuild(ctx, siteURL, builtAt, urls); err != nil {
		return nil, nil, err
	}
	added, removed = Diff(prev, urls)
	return added, removed, nil
}

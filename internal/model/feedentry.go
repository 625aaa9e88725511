package model

import "time"

// ChangeFrequency is the sitemap <changefreq> value.
type ChangeFrequency string

const (
	ChangeDaily   ChangeFrequency = "daily"
	ChangeWeekly  ChangeFrequency = "weekly"
	ChangeMonthly ChangeFrequency = "monthly"
	ChangeYearly  ChangeFrequency = "yearly"
)

// FeedEntry is one URL-bearing record produced while building the sitemap.
// Zero LastModified, empty ChangeFrequency and nil Priority are omitted.
type FeedEntry struct {
	URL             string
	LastModified    time.Time
	ChangeFrequency ChangeFrequency
	Priority        *float64
}

// Priority returns a pointer to p, for use in FeedEntry literals.
func Priority(p float64) *float64 {
	return &p
}

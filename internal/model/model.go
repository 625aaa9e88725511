package model

import (
	"time"
)

// ContentItem represents a single blog post read from the content directory.
type ContentItem struct {
	Slug         string
	Title        string
	Description  string
	Date         time.Time // authoritative publish date
	UpdatedAt    *time.Time
	LastModified time.Time // never later than the build's "today"
	Author       string
	AuthorSlug   string
	Category     string
	CategorySlug string
	Tags         []string
	Featured     bool
	Image        string
	ReadingTime  string
	SourcePath   string
}

// ToolItem is a single entry of the tool catalog. Display-only fields are
// carried through untouched.
type ToolItem struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	AIBased     bool     `json:"aiBased"`
	Featured    bool     `json:"featured"`
	Icon        string   `json:"icon,omitempty"`
	URL         string   `json:"url,omitempty"`
}

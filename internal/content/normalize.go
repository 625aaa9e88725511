// Package content reads blog posts and the tool catalog from disk and
// normalizes their metadata.
package content

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cabouelw/codewise.ai-sub000/internal/model"
)

// WordsPerMinute is the reading speed used for ReadingTime.
const WordsPerMinute = 200

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Raw is a content file as read from disk, before normalization.
type Raw struct {
	Slug        string
	Path        string
	FrontMatter map[string]interface{}
	Body        []byte
	ModTime     time.Time
}

// Today returns UTC midnight of now.
func Today(now time.Time) time.Time {
	return truncateDay(now)
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ClampDate returns the calendar date of t, or today when t is invalid
// (ok is false) or later than today.
func ClampDate(t time.Time, ok bool, today time.Time) time.Time {
	if !ok || t.IsZero() {
		return today
	}
	d := truncateDay(t)
	if d.After(today) {
		return today
	}
	return d
}

// ParseDate accepts a time.Time or a date string in one of the common layouts.
func ParseDate(v interface{}) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, !d.IsZero()
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// Slugify lowercases s and joins its whitespace-separated words with hyphens.
func Slugify(s string) string {
	return strings.Join(strings.Fields(cases.Lower(language.Und).String(s)), "-")
}

// ReadingTime renders the reading time label for a markdown body.
func ReadingTime(body []byte) string {
	minutes := int(math.Ceil(float64(WordCount(body)) / WordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

// Normalize turns a raw content file into a ContentItem. Missing or
// mistyped front-matter fields become zero values; dates fall back to the
// file modification time.
func Normalize(raw Raw, today time.Time) model.ContentItem {
	fm := raw.FrontMatter

	item := model.ContentItem{
		Slug:        raw.Slug,
		Title:       stringField(fm, "title"),
		Description: stringField(fm, "description"),
		Author:      stringField(fm, "author"),
		Category:    stringField(fm, "category"),
		Image:       stringField(fm, "image"),
		Tags:        tagsField(fm, "tags"),
		Featured:    boolField(fm, "featured"),
		ReadingTime: ReadingTime(raw.Body),
		SourcePath:  raw.Path,
	}
	item.AuthorSlug = Slugify(item.Author)
	item.CategorySlug = Slugify(item.Category)

	date, dateOK := ParseDate(fm["date"])
	if dateOK {
		item.Date = date
	} else {
		item.Date = raw.ModTime
	}

	candidate, candidateOK := date, dateOK
	if v, present := fm["updatedAt"]; present && v != nil {
		updated, ok := ParseDate(v)
		if ok {
			item.UpdatedAt = &updated
		}
		candidate, candidateOK = updated, ok
	}

	if candidateOK && !truncateDay(candidate).After(today) {
		item.LastModified = truncateDay(candidate)
	} else {
		item.LastModified = ClampDate(raw.ModTime, true, today)
	}
	return item
}

func stringField(fm map[string]interface{}, key string) string {
	s, _ := fm[key].(string)
	return strings.TrimSpace(s)
}

func boolField(fm map[string]interface{}, key string) bool {
	switch v := fm[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	}
	return false
}

func tagsField(fm map[string]interface{}, key string) []string {
	var raw []string
	switch v := fm[key].(type) {
	case []interface{}:
		for _, t := range v {
			switch tag := t.(type) {
			case nil, map[interface{}]interface{}, map[string]interface{}, []interface{}:
			case string:
				raw = append(raw, tag)
			default:
				raw = append(raw, fmt.Sprint(tag))
			}
		}
	case []string:
		raw = v
	case string:
		raw = strings.Split(v, ",")
	}

	seen := make(map[string]bool, len(raw))
	var tags []string
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}

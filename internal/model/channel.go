package model

// Channel carries the site-wide fields of the RSS <channel> element.
type Channel struct {
	SiteTitle   string
	Description string
	BaseURL     string
	Language    string
}

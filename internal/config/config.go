// Package config holds the site configuration and the static page table.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/cabouelw/codewise.ai-sub000/internal/model"
)

// DefaultSiteURL is the canonical origin used when SITE_URL is not set.
const DefaultSiteURL = "https://www.codewize-ai.website"

// Configuration validation errors.
var (
	ErrInvalidSiteURL = errors.New("siteURL must be an absolute http(s) URL")
	ErrNoOutputDir    = errors.New("outputDir is required")
	ErrInvalidLevel   = errors.New("logLevel must be one of: debug, info, warn, error")
)

type Config struct {
	SiteURL         string `mapstructure:"siteURL"`
	SiteTitle       string `mapstructure:"siteTitle"`
	SiteDescription string `mapstructure:"siteDescription"`
	SiteLanguage    string `mapstructure:"siteLanguage"`
	ContentDir      string `mapstructure:"contentDir"`
	ToolsFile       string `mapstructure:"toolsFile"`
	OutputDir       string `mapstructure:"outputDir"`
	PagesFile       string `mapstructure:"pagesFile"`
	HistoryDB       string `mapstructure:"historyDB"`
	LogLevel        string `mapstructure:"logLevel"`
}

// Validate checks the fields the pipeline cannot default on its own and
// strips a trailing slash from SiteURL.
func (c *Config) Validate() error {
	c.SiteURL = strings.TrimRight(strings.TrimSpace(c.SiteURL), "/")
	u, err := url.Parse(c.SiteURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %q", ErrInvalidSiteURL, c.SiteURL)
	}
	if c.OutputDir == "" {
		return ErrNoOutputDir
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return ErrInvalidLevel
	}
	return nil
}

// Channel returns the RSS channel description for this site.
func (c *Config) Channel() model.Channel {
	return model.Channel{
		SiteTitle:   c.SiteTitle,
		Description: c.SiteDescription,
		BaseURL:     c.SiteURL,
		Language:    c.SiteLanguage,
	}
}

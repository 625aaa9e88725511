package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cabouelw/codewise.ai-sub000/internal/model"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		wantSiteURL string
		wantErr     error
	}{
		{
			name:        "trailing slash trimmed",
			cfg:         Config{SiteURL: "https://example.com/", OutputDir: "public"},
			wantSiteURL: "https://example.com",
		},
		{
			name:    "relative url",
			cfg:     Config{SiteURL: "example.com", OutputDir: "public"},
			wantErr: ErrInvalidSiteURL,
		},
		{
			name:    "ftp scheme",
			cfg:     Config{SiteURL: "ftp://example.com", OutputDir: "public"},
			wantErr: ErrInvalidSiteURL,
		},
		{
			name:    "missing output dir",
			cfg:     Config{SiteURL: DefaultSiteURL},
			wantErr: ErrNoOutputDir,
		},
		{
			name:    "bad log level",
			cfg:     Config{SiteURL: DefaultSiteURL, OutputDir: "public", LogLevel: "verbose"},
			wantErr: ErrInvalidLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.Validate()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.wantSiteURL, cfg.SiteURL); diff != "" {
				t.Errorf("SiteURL mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadPages(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "pages.yaml")
	if err := os.WriteFile(valid, []byte(`pages:
  - path: /
    changefreq: daily
    priority: 1.0
    latestContent: true
  - path: /faq
    changefreq: monthly
    priority: 0.4
`), 0o644); err != nil {
		t.Fatal(err)
	}
	invalid := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(invalid, []byte("pages:\n  - path: faq\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		want    []StaticPage
		wantErr bool
	}{
		{
			name: "empty path returns defaults",
			path: "",
			want: DefaultPages(),
		},
		{
			name: "custom table",
			path: valid,
			want: []StaticPage{
				{Path: "/", ChangeFrequency: model.ChangeDaily, Priority: 1.0, LatestContent: true},
				{Path: "/faq", ChangeFrequency: model.ChangeMonthly, Priority: 0.4},
			},
		},
		{
			name:    "relative path rejected",
			path:    invalid,
			wantErr: true,
		},
		{
			name:    "missing file",
			path:    filepath.Join(dir, "nope.yaml"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadPages(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("LoadPages() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDefaultPagesTable(t *testing.T) {
	pages := DefaultPages()
	if len(pages) != 6 {
		t.Fatalf("expected 6 static pages, got %d", len(pages))
	}
	var latest []string
	for _, p := range pages {
		if p.LatestContent {
			latest = append(latest, p.Path)
		}
	}
	if diff := cmp.Diff([]string{"/", "/blog"}, latest); diff != "" {
		t.Errorf("latest-content pages mismatch (-want +got):\n%s", diff)
	}
}

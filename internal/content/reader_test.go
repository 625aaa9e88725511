package content

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/cabouelw/codewise.ai-sub000/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestListContentFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.md"), "b")
	writeFile(t, filepath.Join(dir, "a.mdx"), "a")
	writeFile(t, filepath.Join(dir, "notes.txt"), "x")
	writeFile(t, filepath.Join(dir, "sub", "c.md"), "c")

	got, err := ListContentFiles(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"a.mdx", "b.md"}, got); diff != "" {
		t.Errorf("ListContentFiles() mismatch (-want +got):\n%s", diff)
	}

	missing, err := ListContentFiles(filepath.Join(dir, "missing"))
	if err != nil {
		t.Fatalf("missing directory should not error: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing directory, got %v", missing)
	}
}

func TestParseDocument(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantTitle interface{}
		wantBody  string
		wantErr   bool
	}{
		{
			name:      "yaml front-matter",
			doc:       "---\ntitle: Hello\n---\nBody text\n",
			wantTitle: "Hello",
			wantBody:  "Body text\n",
		},
		{
			name:     "no front-matter",
			doc:      "Just markdown\n",
			wantBody: "Just markdown\n",
		},
		{
			name:     "broken front-matter",
			doc:      "---\ntitle: [unterminated\n---\nBody\n",
			wantBody: "---\ntitle: [unterminated\n---\nBody\n",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, err := ParseDocument([]byte(tt.doc))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDocument() error = %v, wantErr %v", err, tt.wantErr)
			}
			if fm == nil {
				t.Fatal("front-matter map must never be nil")
			}
			if diff := cmp.Diff(tt.wantTitle, fm["title"]); diff != "" {
				t.Errorf("title mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(strings.TrimSpace(tt.wantBody), strings.TrimSpace(string(body))); diff != "" {
				t.Errorf("body mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadCorpus(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "post-a.md"), "---\ntitle: Post A\ndate: 2024-01-01\ncategory: AI\nauthor: Jane Doe\ntags: [rag, llm]\n---\nSome words here.\n")
	writeFile(t, filepath.Join(dir, "post-b.md"), "---\ntitle: [broken\n---\nStill indexed.\n")
	writeFile(t, filepath.Join(dir, "post-a.mdx"), "---\ntitle: Shadowed\n---\n")

	items, err := ReadCorpus(dir, testToday, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var slugs []string
	for _, it := range items {
		slugs = append(slugs, it.Slug)
	}
	if diff := cmp.Diff([]string{"post-a", "post-b"}, slugs); diff != "" {
		t.Fatalf("slugs mismatch (-want +got):\n%s", diff)
	}

	a := items[0]
	if a.Title != "Post A" || a.CategorySlug != "ai" || a.AuthorSlug != "jane-doe" {
		t.Errorf("unexpected post-a metadata: %+v", a)
	}
	if diff := cmp.Diff(date(2024, 1, 1), a.LastModified); diff != "" {
		t.Errorf("post-a LastModified mismatch (-want +got):\n%s", diff)
	}

	b := items[1]
	if b.Title != "" || b.Category != "" {
		t.Errorf("broken front-matter should leave fields absent, got %+v", b)
	}
	if b.LastModified.After(testToday) {
		t.Errorf("post-b LastModified %v after today", b.LastModified)
	}
}

func TestReadCorpusMissingDir(t *testing.T) {
	items, err := ReadCorpus(filepath.Join(t.TempDir(), "nope"), testToday, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}

func TestLoadTools(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "tools.json")
	writeFile(t, good, `{"tools":[
		{"slug":"tool-x","name":"Tool X","category":"Writing","tags":["copy"],"aiBased":true},
		{"slug":"tool-y","name":"Tool Y","category":"Design"}
	]}`)

	mixed := filepath.Join(dir, "mixed.json")
	writeFile(t, mixed, `{"tools":[
		{"slug":"ok","name":"OK","category":"Writing"},
		{"slug":"bad","tags":"not-a-list"},
		{"name":"No Slug"},
		{"slug":"ok","name":"Duplicate"}
	]}`)

	corrupt := filepath.Join(dir, "corrupt.json")
	writeFile(t, corrupt, `{"tools": [`)

	tests := []struct {
		name      string
		path      string
		wantSlugs []string
	}{
		{name: "valid catalog", path: good, wantSlugs: []string{"tool-x", "tool-y"}},
		{name: "malformed records skipped", path: mixed, wantSlugs: []string{"ok"}},
		{name: "corrupt catalog", path: corrupt, wantSlugs: nil},
		{name: "missing catalog", path: filepath.Join(dir, "missing.json"), wantSlugs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tools := LoadTools(tt.path, discardLogger())
			var slugs []string
			for _, tool := range tools {
				slugs = append(slugs, tool.Slug)
			}
			if diff := cmp.Diff(tt.wantSlugs, slugs); diff != "" {
				t.Errorf("LoadTools() slugs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadFileUsesModTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dated.md")
	writeFile(t, path, "no front-matter here")
	mtime := time.Date(2023, 7, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	raw, err := ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw.Slug != "dated" {
		t.Errorf("slug = %q, want dated", raw.Slug)
	}
	item := Normalize(raw, testToday)
	if diff := cmp.Diff(date(2023, 7, 1), item.LastModified); diff != "" {
		t.Errorf("LastModified mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadToolsDecodesRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.json")
	writeFile(t, path, `{"tools":[{"slug":" tool-x ","name":"Tool X","category":"Writing","tags":["copy"],"aiBased":true,"featured":true,"icon":"pen"}]}`)

	want := []model.ToolItem{{
		Slug: "tool-x", Name: "Tool X", Category: "Writing",
		Tags: []string{"copy"}, AIBased: true, Featured: true, Icon: "pen",
	}}
	if diff := cmp.Diff(want, LoadTools(path, discardLogger())); diff != "" {
		t.Errorf("LoadTools() mismatch (-want +got):\n%s", diff)
	}
}

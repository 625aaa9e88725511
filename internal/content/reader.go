package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/cabouelw/codewise.ai-sub000/internal/model"
)

// Extensions recognized as content files.
var Extensions = []string{".md", ".mdx"}

// IsContentFile reports whether name carries a content file extension.
func IsContentFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ListContentFiles returns the content file names in dir, sorted. A missing
// directory yields a nil list.
func ListContentFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read content directory '%s': %w", dir, err)
	}

	names := []string{}
	for _, e := range entries {
		if e.IsDir() || !IsContentFile(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ParseDocument splits a content file into its front-matter map and body.
// A document whose front-matter cannot be parsed is returned whole as body
// along with the parse error.
func ParseDocument(data []byte) (map[string]interface{}, []byte, error) {
	var fm map[string]interface{}
	body, err := frontmatter.Parse(bytes.NewReader(data), &fm)
	if err != nil {
		return map[string]interface{}{}, data, err
	}
	if fm == nil {
		fm = map[string]interface{}{}
	}
	return fm, body, nil
}

// ReadFile reads one content file into a Raw document.
func ReadFile(path string) (Raw, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Raw{}, fmt.Errorf("failed to stat '%s': %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Raw{}, fmt.Errorf("failed to read '%s': %w", path, err)
	}

	name := filepath.Base(path)
	raw := Raw{
		Slug:    strings.TrimSuffix(name, filepath.Ext(name)),
		Path:    path,
		ModTime: info.ModTime(),
	}
	raw.FrontMatter, raw.Body, err = ParseDocument(data)
	return raw, err
}

// ReadCorpus reads and normalizes every content file in dir. Unreadable
// files are skipped; unparseable front-matter leaves every field absent.
func ReadCorpus(dir string, today time.Time, log *slog.Logger) ([]model.ContentItem, error) {
	names, err := ListContentFiles(dir)
	if err != nil {
		return nil, err
	}
	if names == nil {
		log.Warn("content directory not found, continuing without posts", "path", dir)
		return nil, nil
	}

	items := make([]model.ContentItem, 0, len(names))
	seen := make(map[string]string, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		raw, err := ReadFile(path)
		if err != nil {
			if raw.Path == "" {
				log.Warn("skipping unreadable content file", "path", path, "error", err)
				continue
			}
			log.Warn("could not parse front-matter, treating as plain markdown", "path", path, "error", err)
		}
		if prev, dup := seen[raw.Slug]; dup {
			log.Warn("duplicate content slug, keeping first", "slug", raw.Slug, "kept", prev, "skipped", path)
			continue
		}
		seen[raw.Slug] = path
		items = append(items, Normalize(raw, today))
	}
	return items, nil
}

// LoadTools reads the tool catalog. A missing or corrupt catalog yields an
// empty list; records without a slug and repeated slugs are skipped.
func LoadTools(path string, log *slog.Logger) []model.ToolItem {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("tool catalog not readable, continuing without tools", "path", path, "error", err)
		return nil
	}

	var catalog struct {
		Tools []json.RawMessage `json:"tools"`
	}
	if err := json.Unmarshal(data, &catalog); err != nil {
		log.Warn("tool catalog not parseable, continuing without tools", "path", path, "error", err)
		return nil
	}

	tools := make([]model.ToolItem, 0, len(catalog.Tools))
	seen := make(map[string]bool, len(catalog.Tools))
	for i, rec := range catalog.Tools {
		var t model.ToolItem
		if err := json.Unmarshal(rec, &t); err != nil {
			log.Warn("skipping malformed tool record", "index", i, "error", err)
			continue
		}
		t.Slug = strings.TrimSpace(t.Slug)
		if t.Slug == "" {
			log.Warn("skipping tool without slug", "index", i, "name", t.Name)
			continue
		}
		if seen[t.Slug] {
			log.Warn("duplicate tool slug, keeping first", "slug", t.Slug)
			continue
		}
		seen[t.Slug] = true
		tools = append(tools, t)
	}
	return tools
}

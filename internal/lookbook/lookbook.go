package lookbook

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a lookbook entry cannot be located.
var ErrNotFound = errors.New("lookbook: not found")

// Entry is one localized editorial piece: a styled collection story
// shown on the home page and under /lookbook. The body is sanitized
// HTML rendered from markdown.
type Entry struct {
	Slug         string
	Lang         string
	Title        string
	Summary      string
	Body         template.HTML
	Occasion     string
	Tags         []string
	HeroImageURL string
	PublishAt    time.Time
	UpdatedAt    time.Time
}

type frontMatter struct {
	Title        string   `yaml:"title"`
	Summary      string   `yaml:"summary"`
	Lang         string   `yaml:"lang"`
	Occasion     string   `yaml:"occasion"`
	Tags         []string `yaml:"tags"`
	HeroImageURL string   `yaml:"hero_image"`
	PublishAt    string   `yaml:"publish_at"`
	UpdatedAt    string   `yaml:"updated_at"`
}

const defaultDir = "lookbook"

// Library loads entries from a directory of markdown files laid out as
// <dir>/<lang>/<slug>.md and caches the rendered results.
type Library struct {
	dir string

	mu       sync.RWMutex
	cache    map[string]cacheEntry
	cacheTTL time.Duration

	md       goldmark.Markdown
	sanitize *bluemonday.Policy
}

type cacheEntry struct {
	entries []Entry
	expires time.Time
}

// NewLibrary constructs a Library rooted at dir (default "lookbook").
func NewLibrary(dir string) *Library {
	if strings.TrimSpace(dir) == "" {
		dir = defaultDir
	}
	return &Library{
		dir:      dir,
		cache:    map[string]cacheEntry{},
		cacheTTL: 5 * time.Minute,
		md:       goldmark.New(),
		sanitize: htmlPolicy(),
	}
}

// SetCacheDuration overrides the cache TTL (primarily for tests).
func (l *Library) SetCacheDuration(d time.Duration) {
	if d <= 0 {
		d = time.Minute
	}
	l.mu.Lock()
	l.cacheTTL = d
	l.mu.Unlock()
}

func htmlPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("figure", "figcaption")
	policy.AllowAttrs("class").OnElements("figure", "figcaption", "p", "span")
	policy.AllowAttrs("loading").OnElements("img")
	return policy
}

// List returns all entries for a language, newest first, falling back
// to "en" when the language has no content.
func (l *Library) List(lang string) ([]Entry, error) {
	lang = normalizeLang(lang)

	if entries, ok := l.cached(lang); ok {
		return cloneEntries(entries), nil
	}

	entries, err := l.loadDir(lang)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if len(entries) == 0 && lang != "en" {
		entries, err = l.loadDir("en")
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].PublishAt.Equal(entries[j].PublishAt) {
			return entries[i].Slug < entries[j].Slug
		}
		return entries[i].PublishAt.After(entries[j].PublishAt)
	})
	l.store(lang, entries)
	return cloneEntries(entries), nil
}

// Get returns one entry by slug, honoring the same language fallback
// as List.
func (l *Library) Get(slug, lang string) (Entry, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return Entry{}, ErrNotFound
	}
	entries, err := l.List(lang)
	if err != nil {
		return Entry{}, err
	}
	for _, e := range entries {
		if strings.ToLower(e.Slug) == slug {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}

func (l *Library) cached(lang string) ([]Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ce, ok := l.cache[lang]
	if !ok || time.Now().After(ce.expires) {
		return nil, false
	}
	return ce.entries, true
}

func (l *Library) store(lang string, entries []Entry) {
	l.mu.Lock()
	l.cache[lang] = cacheEntry{entries: entries, expires: time.Now().Add(l.cacheTTL)}
	l.mu.Unlock()
}

func (l *Library) loadDir(lang string) ([]Entry, error) {
	dir := filepath.Join(l.dir, lang)
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".md") {
			continue
		}
		entry, err := l.loadFile(filepath.Join(dir, f.Name()), lang)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (l *Library) loadFile(path, lang string) (Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, err
	}
	fm, body := splitFrontMatter(string(raw))
	front := frontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Entry{}, fmt.Errorf("lookbook: parse front matter %s: %w", path, err)
		}
	}

	var buf bytes.Buffer
	if err := l.md.Convert([]byte(body), &buf); err != nil {
		return Entry{}, fmt.Errorf("lookbook: render %s: %w", path, err)
	}
	safe := l.sanitize.SanitizeBytes(buf.Bytes())

	slug := strings.TrimSuffix(filepath.Base(path), ".md")
	entry := Entry{
		Slug:         slug,
		Lang:         firstNonEmpty(strings.TrimSpace(front.Lang), lang),
		Title:        strings.TrimSpace(front.Title),
		Summary:      strings.TrimSpace(front.Summary),
		Body:         template.HTML(safe),
		Occasion:     strings.TrimSpace(front.Occasion),
		Tags:         front.Tags,
		HeroImageURL: strings.TrimSpace(front.HeroImageURL),
		PublishAt:    parseDate(front.PublishAt),
		UpdatedAt:    parseDate(front.UpdatedAt),
	}
	if entry.Title == "" {
		entry.Title = prettifySlug(slug)
	}
	return entry, nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if len(lines) == 0 {
		return "", ""
	}
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func parseDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	layouts := []string{time.RFC3339, "2006-01-02", "2006/01/02"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return "en"
	}
	if dash := strings.IndexByte(lang, '-'); dash != -1 {
		lang = lang[:dash]
	}
	return lang
}

func prettifySlug(slug string) string {
	s := strings.ReplaceAll(slug, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}

func cloneEntries(src []Entry) []Entry {
	out := make([]Entry, len(src))
	copy(out, src)
	for i := range out {
		out[i].Tags = append([]string(nil), src[i].Tags...)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

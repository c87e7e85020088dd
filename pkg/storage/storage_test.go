package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aistudio/smart-extractor/models"
)

func testContent(title string) *models.ExtractedContent {
	return &models.ExtractedContent{
		Title:       title,
		Description: "A short description.",
		Content:     "Body text of the document.",
		Meta: models.ContentMeta{
			URL:         "https://example.com/page",
			Domain:      "example.com",
			ExtractedAt: time.Now(),
			Extractor:   "fallback",
			WordCount:   5,
		},
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello World!!!", "hello-world"},
		{"  Already--dashed__title  ", "already-dashed-title"},
		{"CamelCase and 123 numbers", "camelcase-and-123-numbers"},
		{"!!!", "untitled"},
		{"", "untitled"},
		{strings.Repeat("a", 60), strings.Repeat("a", 50)},
		{strings.Repeat("a", 49) + " tail", strings.Repeat("a", 49)},
		{"Résumé Writing Tips", "résumé-writing-tips"},
		{"日本語のタイトル", "日本語のタイトル"},
		{strings.Repeat("é", 60), strings.Repeat("é", 50)},
	}

	for _, tt := range tests {
		if got := Slugify(tt.title); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestCategoryDir(t *testing.T) {
	tests := []struct {
		rtype models.ResourceType
		want  string
	}{
		{models.TypeGithubRepo, "github-repos"},
		{models.TypeYoutubeVideo, "youtube-videos"},
		{models.TypeBlogPost, "blog-posts"},
		{models.TypeArticle, "articles"},
		{models.TypeUnknown, "other"},
		{models.ResourceType("bogus"), "other"},
	}
	for _, tt := range tests {
		if got := CategoryDir(tt.rtype); got != tt.want {
			t.Errorf("CategoryDir(%q) = %q, want %q", tt.rtype, got, tt.want)
		}
	}
}

func TestSaveWritesDocument(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir, nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	path, ok := m.Save(testContent("Hello World!!!"), models.TypeArticle, "https://example.com/page")
	if !ok {
		t.Fatal("Save() ok = false, want true")
	}
	if want := filepath.Join(dir, "articles", "hello-world.md"); path != want {
		t.Fatalf("Save() path = %q, want %q", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved document: %v", err)
	}
	doc := string(data)

	for _, want := range []string{
		"title: \"Hello World!!!\"",
		"source: https://example.com/page",
		"type: article",
		"domain: example.com",
		"word_count: 5",
		"processing_status: completed",
		"# Hello World!!!",
		"## Description",
		"## Content",
		"## Metadata",
		"**Extractor:** fallback",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q:\n%s", want, doc)
		}
	}

	stats := m.Stats()
	if stats.Saved != 1 || stats.Failed != 0 {
		t.Errorf("Stats() = %+v, want Saved=1 Failed=0", stats)
	}
	if stats.TotalBytes != int64(len(data)) {
		t.Errorf("Stats().TotalBytes = %d, want %d", stats.TotalBytes, len(data))
	}
}

func TestSaveCollisionSuffix(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir, nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	first, ok := m.Save(testContent("Hello World!!!"), models.TypeArticle, "https://example.com/a")
	if !ok {
		t.Fatal("first Save() failed")
	}
	second, ok := m.Save(testContent("Hello World!!!"), models.TypeArticle, "https://example.com/b")
	if !ok {
		t.Fatal("second Save() failed")
	}
	third, ok := m.Save(testContent("Hello World!!!"), models.TypeArticle, "https://example.com/c")
	if !ok {
		t.Fatal("third Save() failed")
	}

	if filepath.Base(first) != "hello-world.md" {
		t.Errorf("first = %q, want hello-world.md", first)
	}
	if filepath.Base(second) != "hello-world-2.md" {
		t.Errorf("second = %q, want hello-world-2.md", second)
	}
	if filepath.Base(third) != "hello-world-3.md" {
		t.Errorf("third = %q, want hello-world-3.md", third)
	}

	if data, err := os.ReadFile(first); err != nil || !strings.Contains(string(data), "https://example.com/a") {
		t.Errorf("first document overwritten (err=%v)", err)
	}
}

func TestSaveLanguageInFrontmatter(t *testing.T) {
	dir := t.TempDir()
	m, _ := NewManager(dir, nil)

	c := testContent("With Language")
	c.Meta.Language = "en"
	path, ok := m.Save(c, models.TypeBlogPost, "https://example.com/lang")
	if !ok {
		t.Fatal("Save() failed")
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "language: en\n") {
		t.Errorf("frontmatter missing language field:\n%s", data)
	}
}

func TestProcessingLogAccumulatesAcrossRuns(t *testing.T) {
	dir := t.TempDir()

	m1, err := NewManager(dir, nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if _, ok := m1.Save(testContent("First Run"), models.TypeArticle, "https://example.com/1"); !ok {
		t.Fatal("Save() failed")
	}
	if err := m1.FlushLog(); err != nil {
		t.Fatalf("FlushLog() error = %v", err)
	}

	// Second manager over the same tree picks up the prior log.
	m2, err := NewManager(dir, nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if _, ok := m2.Save(testContent("Second Run"), models.TypeArticle, "https://example.com/2"); !ok {
		t.Fatal("Save() failed")
	}
	if err := m2.FlushLog(); err != nil {
		t.Fatalf("FlushLog() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, LogFilename))
	if err != nil {
		t.Fatalf("reading processing log: %v", err)
	}
	var log models.ProcessingLog
	if err := json.Unmarshal(data, &log); err != nil {
		t.Fatalf("decoding processing log: %v", err)
	}

	if log.TotalProcessed != 2 || log.Successful != 2 || log.Failed != 0 {
		t.Errorf("log counts = %d/%d/%d, want 2/2/0", log.TotalProcessed, log.Successful, log.Failed)
	}
	if len(log.Resources) != 2 {
		t.Fatalf("len(Resources) = %d, want 2", len(log.Resources))
	}
	if log.Resources[0].URL != "https://example.com/1" || log.Resources[1].URL != "https://example.com/2" {
		t.Errorf("resource order wrong: %+v", log.Resources)
	}
}

func TestCorruptLogStartsFresh(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, LogFilename), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	m, err := NewManager(dir, nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	total, successful, failed := m.Summary()
	if total != 0 || successful != 0 || failed != 0 {
		t.Errorf("Summary() = %d/%d/%d, want 0/0/0", total, successful, failed)
	}
}

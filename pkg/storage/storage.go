package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aistudio/smart-extractor/models"
)

const (
	DefaultBaseDir = "knowledge"
	LogFilename    = "_processing-log.json"

	maxSlugLength = 50
)

var categoryDirs = map[models.ResourceType]string{
	models.TypeGithubRepo:   "github-repos",
	models.TypeYoutubeVideo: "youtube-videos",
	models.TypeBlogPost:     "blog-posts",
	models.TypeArticle:      "articles",
}

// CategoryDir maps a resource type to its storage subdirectory.
// Unknown types land in "other".
func CategoryDir(rtype models.ResourceType) string {
	if dir, ok := categoryDirs[rtype]; ok {
		return dir
	}
	return "other"
}

var (
	// Letters and digits from any script survive; everything else but
	// separators is stripped.
	slugDisallowed = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	slugSeparators = regexp.MustCompile(`[\s_-]+`)
)

// Slugify turns a document title into a filesystem-safe name stem.
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugDisallowed.ReplaceAllString(slug, "")
	slug = slugSeparators.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if runes := []rune(slug); len(runes) > maxSlugLength {
		slug = strings.TrimRight(string(runes[:maxSlugLength]), "-")
	}
	if slug == "" {
		slug = "untitled"
	}
	return slug
}

// Stats holds storage counters for a single run.
type Stats struct {
	Saved      int
	Failed     int
	TotalBytes int64
}

// Manager writes extracted documents to a category tree under a base
// directory and keeps the cross-run processing log. The log is held in
// memory between saves; call FlushLog once at the end of a run.
type Manager struct {
	baseDir string
	logger  *slog.Logger

	log   models.ProcessingLog
	stats Stats
}

// NewManager ensures the base directory exists and loads the existing
// processing log. A missing or unreadable log starts fresh.
func NewManager(baseDir string, logger *slog.Logger) (*Manager, error) {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(baseDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	m := &Manager{baseDir: baseDir, logger: logger}
	m.loadLog()
	return m, nil
}

// BaseDir returns the root of the storage tree.
func (m *Manager) BaseDir() string {
	return m.baseDir
}

func (m *Manager) logPath() string {
	return filepath.Join(m.baseDir, LogFilename)
}

func (m *Manager) loadLog() {
	data, err := os.ReadFile(filepath.Clean(m.logPath()))
	if os.IsNotExist(err) {
		return
	}
	if err != nil {
		m.logger.Warn("could not read processing log, starting fresh", "path", m.logPath(), "error", err)
		return
	}
	var log models.ProcessingLog
	if err := json.Unmarshal(data, &log); err != nil {
		m.logger.Warn("processing log is corrupt, starting fresh", "path", m.logPath(), "error", err)
		return
	}
	m.log = log
}

// Save writes one extracted document as markdown under the category
// directory for rtype. It never returns an error: a failed write is
// recorded in the processing log and reported as ok=false so the caller
// can keep working through the batch.
func (m *Manager) Save(content *models.ExtractedContent, rtype models.ResourceType, originalURL string) (string, bool) {
	path, err := m.write(content, rtype, originalURL)
	if err != nil {
		m.logger.Error("failed to store document", "url", originalURL, "error", err)
		m.stats.Failed++
		m.appendLogEntry(models.LogEntry{
			URL:    originalURL,
			Status: models.StatusFailed,
			Error:  err.Error(),
		})
		return "", false
	}

	m.logger.Info("saved document", "url", originalURL, "path", path)
	m.stats.Saved++
	m.appendLogEntry(models.LogEntry{
		URL:        originalURL,
		Status:     models.StatusCompleted,
		OutputFile: path,
	})
	return path, true
}

// RecordFailure appends a failed log entry for a resource that never
// reached Save, such as a fetch or extraction error.
func (m *Manager) RecordFailure(originalURL string, cause error) {
	m.stats.Failed++
	m.appendLogEntry(models.LogEntry{
		URL:    originalURL,
		Status: models.StatusFailed,
		Error:  cause.Error(),
	})
}

func (m *Manager) write(content *models.ExtractedContent, rtype models.ResourceType, originalURL string) (string, error) {
	categoryPath := filepath.Join(m.baseDir, CategoryDir(rtype))
	if err := os.MkdirAll(categoryPath, 0750); err != nil {
		return "", fmt.Errorf("failed to create category directory: %w", err)
	}

	filename, err := uniqueFilename(categoryPath, Slugify(content.Title))
	if err != nil {
		return "", err
	}
	path := filepath.Join(categoryPath, filename)

	doc := formatMarkdown(content, rtype, originalURL, time.Now())
	if err := os.WriteFile(path, []byte(doc), 0600); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}

	m.stats.TotalBytes += int64(len(doc))
	return path, nil
}

// uniqueFilename appends -2, -3, ... until the name does not collide
// with an existing file. Existing documents are never overwritten.
func uniqueFilename(dir, slug string) (string, error) {
	filename := slug + ".md"
	for counter := 2; ; counter++ {
		_, err := os.Stat(filepath.Join(dir, filename))
		if os.IsNotExist(err) {
			return filename, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to stat candidate filename: %w", err)
		}
		filename = fmt.Sprintf("%s-%d.md", slug, counter)
	}
}

// formatMarkdown renders the document layout: YAML frontmatter, the
// content body, and a metadata footer. The field set is a durable
// contract with downstream consumers of the knowledge tree.
func formatMarkdown(content *models.ExtractedContent, rtype models.ResourceType, originalURL string, now time.Time) string {
	var b strings.Builder

	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %q\n", content.Title)
	fmt.Fprintf(&b, "source: %s\n", originalURL)
	fmt.Fprintf(&b, "type: %s\n", rtype)
	fmt.Fprintf(&b, "extracted: %s\n", now.Format(time.RFC3339))
	fmt.Fprintf(&b, "domain: %s\n", valueOr(content.Meta.Domain, "unknown"))
	fmt.Fprintf(&b, "word_count: %d\n", content.Meta.WordCount)
	if content.Meta.Language != "" {
		fmt.Fprintf(&b, "language: %s\n", content.Meta.Language)
	}
	b.WriteString("processing_status: completed\n")
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# %s\n\n", content.Title)
	fmt.Fprintf(&b, "## Description\n%s\n\n", content.Description)
	fmt.Fprintf(&b, "## Content\n\n%s\n\n", content.Content)

	b.WriteString("---\n\n## Metadata\n\n")
	fmt.Fprintf(&b, "**Source:** [%s](%s)\n", originalURL, originalURL)
	fmt.Fprintf(&b, "**Type:** %s\n", rtype)
	fmt.Fprintf(&b, "**Extracted:** %s\n", extractedAt(content, now))
	fmt.Fprintf(&b, "**Extractor:** %s\n", valueOr(content.Meta.Extractor, "unknown"))
	fmt.Fprintf(&b, "**Word Count:** %d\n", content.Meta.WordCount)

	return b.String()
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func extractedAt(content *models.ExtractedContent, now time.Time) string {
	if !content.Meta.ExtractedAt.IsZero() {
		return content.Meta.ExtractedAt.Format(time.RFC3339)
	}
	return now.Format(time.RFC3339)
}

func (m *Manager) appendLogEntry(entry models.LogEntry) {
	now := time.Now()
	entry.ProcessedAt = now.Format(time.RFC3339)
	m.log.Resources = append(m.log.Resources, entry)
	m.log.Recount(now)
}

// FlushLog persists the processing log. Call once after the batch.
func (m *Manager) FlushLog() error {
	data, err := json.MarshalIndent(m.log, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode processing log: %w", err)
	}
	if err := os.WriteFile(m.logPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write processing log: %w", err)
	}
	m.logger.Info("processing log saved", "path", m.logPath())
	return nil
}

// Stats returns a copy of the storage counters for this run.
func (m *Manager) Stats() Stats {
	return m.stats
}

// Summary reports the cross-run totals from the processing log.
func (m *Manager) Summary() (total, successful, failed int) {
	return m.log.TotalProcessed, m.log.Successful, m.log.Failed
}

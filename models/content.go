package models

import (
	"strings"
	"time"
)

// ExtractedContent is the structured result of extracting a single URL.
// Title and Content must be non-empty for the extraction to be accepted.
type ExtractedContent struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Content     string      `json:"content"`
	Meta        ContentMeta `json:"metadata"`
}

// ContentMeta describes where and how content was extracted.
type ContentMeta struct {
	URL         string    `json:"url"`
	Domain      string    `json:"domain"`
	ExtractedAt time.Time `json:"extracted_at"`
	Extractor   string    `json:"extractor"`
	WordCount   int       `json:"word_count"`
	Language    string    `json:"language,omitempty"`
}

// Validate reports whether the extraction satisfies the minimum contract:
// non-empty title and non-empty content after trimming.
func (e *ExtractedContent) Validate() bool {
	return strings.TrimSpace(e.Title) != "" && strings.TrimSpace(e.Content) != ""
}

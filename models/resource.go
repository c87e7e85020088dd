// Package models defines data structures shared across the extraction pipeline.
package models

import "strings"

// Resource is a single manifest entry: a URL plus whatever descriptive
// fields the manifest author attached. Unknown fields are ignored.
type Resource struct {
	URL   string   `json:"url"`
	Title string   `json:"title,omitempty"`
	Notes string   `json:"notes,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

// NormalizedURL returns the identity key for deduplication:
// the URL trimmed and lowercased.
func (r Resource) NormalizedURL() string {
	return strings.ToLower(strings.TrimSpace(r.URL))
}

// ResourceType classifies a resource by its URL shape.
type ResourceType string

const (
	TypeGithubRepo   ResourceType = "github-repo"
	TypeYoutubeVideo ResourceType = "youtube-video"
	TypeBlogPost     ResourceType = "blog-post"
	TypeArticle      ResourceType = "article"
	// TypeUnknown is reserved for resources constructed outside of
	// classification; Classify never returns it.
	TypeUnknown ResourceType = "unknown"
)

// TypeMetadata carries type-specific keys extracted during classification,
// e.g. owner/repo/full_name for a GitHub repo or video_id for a YouTube
// video. Every type includes a domain key.
type TypeMetadata map[string]string

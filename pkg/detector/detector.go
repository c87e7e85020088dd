// Package detector classifies resource URLs into content categories.
package detector

import (
	"net/url"
	"strings"

	"github.com/aistudio/smart-extractor/models"
)

// blogIndicators are substrings of the host or path that mark a URL as a
// blog post: known blogging platforms plus common path conventions.
var blogIndicators = []string{
	"medium.com",
	"dev.to",
	"substack.com",
	"hashnode",
	"blog.",
	"blogs.",
	"/blog/",
	"/post/",
	"/article/",
}

// Detector maps a URL to a resource type plus type-specific metadata.
// Classification is deterministic; the only state is a per-type
// occurrence counter.
type Detector struct {
	stats map[models.ResourceType]int
}

func New() *Detector {
	return &Detector{
		stats: map[models.ResourceType]int{
			models.TypeGithubRepo:   0,
			models.TypeYoutubeVideo: 0,
			models.TypeBlogPost:     0,
			models.TypeArticle:      0,
			models.TypeUnknown:      0,
		},
	}
}

// Classify detects the resource type of a URL. It is total: every input
// yields exactly one type, falling through to article. Match order is
// significant because the categories overlap (a GitHub blog URL is still
// a github-repo).
func (d *Detector) Classify(rawURL string) (models.ResourceType, models.TypeMetadata) {
	rawURL = strings.TrimSpace(rawURL)
	parsed, err := url.Parse(rawURL)
	if err != nil {
		parsed = &url.URL{}
	}
	host := strings.ToLower(parsed.Host)
	path := strings.ToLower(parsed.Path)

	var rtype models.ResourceType
	var meta models.TypeMetadata

	switch {
	case isGithub(host, path):
		rtype = models.TypeGithubRepo
		meta = parseGithubURL(parsed)
	case isYoutube(host, path):
		rtype = models.TypeYoutubeVideo
		meta = parseYoutubeURL(parsed)
	case isBlog(host, path):
		rtype = models.TypeBlogPost
		meta = models.TypeMetadata{"domain": host}
	default:
		rtype = models.TypeArticle
		meta = models.TypeMetadata{"domain": host}
	}

	d.stats[rtype]++
	return rtype, meta
}

// isGithub matches repository URLs: github.com host with at least an
// owner and a repo path segment.
func isGithub(host, path string) bool {
	return strings.Contains(host, "github.com") && len(pathSegments(path)) >= 2
}

func isYoutube(host, path string) bool {
	return (strings.Contains(host, "youtube.com") && strings.Contains(path, "/watch")) ||
		strings.Contains(host, "youtu.be")
}

func isBlog(host, path string) bool {
	for _, indicator := range blogIndicators {
		if strings.Contains(host, indicator) || strings.Contains(path, indicator) {
			return true
		}
	}
	return false
}

// parseGithubURL extracts owner and repo from the first two path segments.
func parseGithubURL(u *url.URL) models.TypeMetadata {
	meta := models.TypeMetadata{"domain": "github.com"}

	segments := pathSegments(u.Path)
	if len(segments) >= 2 {
		owner, repo := segments[0], segments[1]
		meta["owner"] = owner
		meta["repo"] = repo
		meta["full_name"] = owner + "/" + repo
	}

	return meta
}

// parseYoutubeURL extracts the video ID from the v query parameter
// (youtube.com) or the first path segment (youtu.be). The key is absent
// when neither pattern matches.
func parseYoutubeURL(u *url.URL) models.TypeMetadata {
	meta := models.TypeMetadata{"domain": "youtube.com"}

	host := strings.ToLower(u.Host)
	switch {
	case strings.Contains(host, "youtube.com"):
		if id := u.Query().Get("v"); id != "" {
			meta["video_id"] = id
		}
	case strings.Contains(host, "youtu.be"):
		if segments := pathSegments(u.Path); len(segments) > 0 {
			meta["video_id"] = segments[0]
		}
	}

	return meta
}

func pathSegments(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// Stats returns a copy of the per-type detection counters.
func (d *Detector) Stats() map[models.ResourceType]int {
	out := make(map[models.ResourceType]int, len(d.stats))
	for k, v := range d.stats {
		out[k] = v
	}
	return out
}

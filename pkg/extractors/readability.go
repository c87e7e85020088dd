package extractors

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/aistudio/smart-extractor/models"
	"github.com/aistudio/smart-extractor/pkg/fetcher"
	"github.com/aistudio/smart-extractor/pkg/language"
)

// Readability extracts long-form prose with go-readability's content
// distillation. It claims blog posts and articles; pages readability
// cannot distill are handed to the generic fallback so the resource
// still produces a document.
type Readability struct {
	fetcher  *fetcher.Fetcher
	lang     *language.Detector
	fallback *Fallback
	count    int
}

func NewReadability(f *fetcher.Fetcher, lang *language.Detector, fallback *Fallback) *Readability {
	return &Readability{fetcher: f, lang: lang, fallback: fallback}
}

func (e *Readability) Name() string { return "readability" }

func (e *Readability) CanExtract(rawURL string, rtype models.ResourceType) bool {
	return rtype == models.TypeBlogPost || rtype == models.TypeArticle
}

func (e *Readability) Extract(rawURL string, meta models.TypeMetadata) (*models.ExtractedContent, error) {
	body, err := e.fetcher.GetBytes(rawURL)
	if err != nil {
		return nil, err
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(string(body)), parsedURL)
	if err != nil || !distillable(article) {
		// Not distillable; degrade to the generic extractor.
		if e.fallback != nil {
			return e.fallback.Extract(rawURL, meta)
		}
		if err != nil {
			return nil, fmt.Errorf("readability parse failed: %w", err)
		}
		return nil, fmt.Errorf("%w: %s", ErrValidation, rawURL)
	}

	content := cleanText(article.TextContent)

	description := strings.TrimSpace(article.Excerpt)
	if description == "" {
		description = "No description available"
	}

	result := &models.ExtractedContent{
		Title:       strings.TrimSpace(article.Title),
		Description: description,
		Content:     content,
		Meta: models.ContentMeta{
			URL:         rawURL,
			Domain:      meta["domain"],
			ExtractedAt: time.Now(),
			Extractor:   e.Name(),
			WordCount:   len(strings.Fields(content)),
		},
	}

	if !result.Validate() {
		return nil, fmt.Errorf("%w: %s", ErrValidation, rawURL)
	}

	if e.lang != nil {
		result.Meta.Language = e.lang.Detect(result.Content)
	}

	e.count++
	return result, nil
}

// Count returns the number of successful extractions.
func (e *Readability) Count() int { return e.count }

// distillable reports whether readability produced a usable article.
// A parse that returns no title or no text is treated the same as a
// parse failure so the generic extractor gets a chance at the page.
func distillable(article readability.Article) bool {
	return strings.TrimSpace(article.Title) != "" &&
		strings.TrimSpace(article.TextContent) != ""
}

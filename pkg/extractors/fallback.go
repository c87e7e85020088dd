package extractors

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/aistudio/smart-extractor/models"
	"github.com/aistudio/smart-extractor/pkg/fetcher"
	"github.com/aistudio/smart-extractor/pkg/language"
)

// maxDescriptionLen caps a description lifted from the first paragraph.
const maxDescriptionLen = 200

// contentSelectors are candidate main-content containers, in priority
// order. The first match wins; body is the final fallback.
var contentSelectors = []string{
	"main",
	"article",
	`[role="main"]`,
	".content",
	"#content",
}

var excessNewlines = regexp.MustCompile(`\n\s*\n\s*\n+`)

// Fallback is the generic HTML extractor, applicable to any web page.
type Fallback struct {
	fetcher *fetcher.Fetcher
	lang    *language.Detector
	count   int
}

// NewFallback creates the generic extractor. The language detector is
// optional; when nil, documents are stored without a language tag.
func NewFallback(f *fetcher.Fetcher, lang *language.Detector) *Fallback {
	return &Fallback{fetcher: f, lang: lang}
}

func (e *Fallback) Name() string { return "fallback" }

// CanExtract always claims the resource; register the fallback last.
func (e *Fallback) CanExtract(url string, rtype models.ResourceType) bool {
	return true
}

// Extract fetches the page and pulls title, description, and main
// content with layered heuristics. Fetch and validation errors propagate
// to the caller.
func (e *Fallback) Extract(url string, meta models.TypeMetadata) (*models.ExtractedContent, error) {
	doc, err := e.fetcher.GetDocument(url)
	if err != nil {
		return nil, err
	}

	content := extractContent(doc)

	result := &models.ExtractedContent{
		Title:       extractTitle(doc),
		Description: extractDescription(doc),
		Content:     content,
		Meta: models.ContentMeta{
			URL:         url,
			Domain:      meta["domain"],
			ExtractedAt: time.Now(),
			Extractor:   e.Name(),
			WordCount:   len(strings.Fields(content)),
		},
	}

	if !result.Validate() {
		return nil, fmt.Errorf("%w: %s", ErrValidation, url)
	}

	if e.lang != nil {
		result.Meta.Language = e.lang.Detect(result.Content)
	}

	e.count++
	return result, nil
}

// Count returns the number of successful extractions.
func (e *Fallback) Count() int { return e.count }

// extractTitle resolves the page title: <title>, then og:title, then the
// first h1, then a literal placeholder.
func extractTitle(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}

	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if t := strings.TrimSpace(og); t != "" {
			return t
		}
	}

	if t := strings.TrimSpace(doc.Find("h1").First().Text()); t != "" {
		return t
	}

	return "Untitled"
}

// extractDescription resolves the page description: description meta,
// then og:description, then the first paragraph truncated to
// maxDescriptionLen, then a literal placeholder.
func extractDescription(doc *goquery.Document) string {
	if d, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		if d = strings.TrimSpace(d); d != "" {
			return d
		}
	}

	if d, ok := doc.Find(`meta[property="og:description"]`).First().Attr("content"); ok {
		if d = strings.TrimSpace(d); d != "" {
			return d
		}
	}

	if p := strings.TrimSpace(doc.Find("p").First().Text()); p != "" {
		runes := []rune(p)
		if len(runes) > maxDescriptionLen {
			return string(runes[:maxDescriptionLen-3]) + "..."
		}
		return p
	}

	return "No description available"
}

// extractContent strips chrome elements, locates the main content
// container, and returns its cleaned text. Empty when the page has no
// body at all.
func extractContent(doc *goquery.Document) string {
	doc.Find("script, style, nav, footer, header, aside").Remove()

	var container *goquery.Selection
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			container = sel
			break
		}
	}
	if container == nil {
		container = doc.Find("body").First()
	}
	if container.Length() == 0 {
		return ""
	}

	return cleanText(containerText(container))
}

// containerText serializes every text node under the container joined
// with newlines, the way a text renderer flattens markup. No text is
// dropped; cleanup collapses the excess whitespace this produces.
func containerText(sel *goquery.Selection) string {
	var sb strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString("\n")
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}

	return sb.String()
}

// cleanText collapses runs of three or more newlines to exactly two,
// trims each line, and trims the result.
func cleanText(text string) string {
	text = excessNewlines.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

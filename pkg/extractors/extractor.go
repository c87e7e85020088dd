// Package extractors turns fetched resources into structured content.
//
// Extraction is a pluggable capability: implementations register with a
// Registry and are selected per resource, most specific first, with a
// generic HTML extractor as the final fallback. New formats register
// without touching the pipeline.
package extractors

import (
	"errors"
	"fmt"

	"github.com/aistudio/smart-extractor/models"
)

// ErrValidation marks an extraction rejected because title or content
// came back empty after cleanup.
var ErrValidation = errors.New("extracted content failed validation")

// Extractor is the single capability the pipeline depends on.
type Extractor interface {
	// Name identifies the extractor in document metadata and logs.
	Name() string

	// CanExtract reports whether this extractor handles the given URL
	// and resource type.
	CanExtract(url string, rtype models.ResourceType) bool

	// Extract fetches the URL and returns structured content, or an
	// error for the caller to contain. Classification metadata is an
	// optional hint (may be nil).
	Extract(url string, meta models.TypeMetadata) (*models.ExtractedContent, error)
}

// Registry holds extractors in selection order: most specific first,
// fallback last.
type Registry struct {
	extractors []Extractor
}

func NewRegistry(extractors ...Extractor) *Registry {
	return &Registry{extractors: extractors}
}

// Register appends an extractor to the selection chain.
func (r *Registry) Register(e Extractor) {
	r.extractors = append(r.extractors, e)
}

// For returns the first extractor claiming the URL and type.
func (r *Registry) For(url string, rtype models.ResourceType) (Extractor, error) {
	for _, e := range r.extractors {
		if e.CanExtract(url, rtype) {
			return e, nil
		}
	}
	return nil, fmt.Errorf("no extractor registered for %s (%s)", url, rtype)
}

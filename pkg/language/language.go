// Package language tags extracted content with a best-effort language code.
package language

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// minTextLength guards against tagging snippets too short for the
// detector to be meaningful.
const minTextLength = 40

// Detector wraps a lingua language detector built over a fixed set of
// common web languages. Building the underlying models is expensive, so
// construct one Detector per process and reuse it.
type Detector struct {
	inner lingua.LanguageDetector
}

func New() *Detector {
	languages := []lingua.Language{
		lingua.English,
		lingua.Spanish,
		lingua.French,
		lingua.German,
		lingua.Portuguese,
		lingua.Italian,
		lingua.Dutch,
		lingua.Russian,
		lingua.Japanese,
		lingua.Chinese,
	}

	return &Detector{
		inner: lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			Build(),
	}
}

// Detect returns the lowercase ISO 639-1 code of the text's language, or
// an empty string when the text is too short or no language is reliable.
func (d *Detector) Detect(text string) string {
	if len(strings.TrimSpace(text)) < minTextLength {
		return ""
	}

	lang, ok := d.inner.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}

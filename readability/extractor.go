// Package readability extracts the main content of article pages with
// go-readability. It is the second main-content fallback after trafilatura.
package readability

import (
	"strings"

	"github.com/fwojciec/trialsum"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements trialsum.Extractor at compile time.
var _ trialsum.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*trialsum.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, trialsum.Errorf(trialsum.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	result := &trialsum.ExtractResult{
		Title:       article.Title,
		Byline:      strings.TrimSpace(article.Byline),
		ContentHTML: article.Content,
	}
	if article.PublishedTime != nil {
		result.Published = *article.PublishedTime
	}
	return result, nil
}

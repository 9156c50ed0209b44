// Package trafilatura extracts the main content of article pages with
// go-trafilatura, for pages whose abstract is not in a known container.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/trialsum"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements trialsum.Extractor at compile time.
var _ trialsum.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content and article
// metadata from HTML.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor. Reader comments are dropped.
func NewExtractor() *Extractor {
	return &Extractor{opts: trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
	}}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*trialsum.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, trialsum.Errorf(trialsum.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &trialsum.ExtractResult{
		Title:       result.Metadata.Title,
		Byline:      result.Metadata.Author,
		Published:   result.Metadata.Date,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

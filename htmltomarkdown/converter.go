// Package htmltomarkdown renders extracted main content as Markdown whose
// headings and bold labels the structured extractor reads as anchors.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/trialsum"
)

// Ensure Converter implements trialsum.Converter at compile time.
var _ trialsum.Converter = (*Converter)(nil)

var (
	imageRe  = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkRe   = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	escapeRe = regexp.MustCompile(`\\([\\\-*_.#+!\[\]()>|~` + "`" + `])`)
)

// Converter wraps html-to-markdown to convert HTML to Markdown.
// Links are reduced to their text and images dropped, so numbers in
// citations and figure links never reach the field patterns.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", trialsum.Errorf(trialsum.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}

	result = imageRe.ReplaceAllString(result, "")
	result = linkRe.ReplaceAllString(result, "$1")
	result = escapeRe.ReplaceAllString(result, "$1")
	return strings.TrimSpace(result), nil
}

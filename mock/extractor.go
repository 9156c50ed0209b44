package mock

import "github.com/fwojciec/trialsum"

var _ trialsum.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of trialsum.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*trialsum.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*trialsum.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ trialsum.StructuredExtractor = (*StructuredExtractor)(nil)

// StructuredExtractor is a mock implementation of trialsum.StructuredExtractor.
type StructuredExtractor struct {
	ExtractFn        func(raw string) (*trialsum.StructuredRecord, error)
	ExtractArticleFn func(a *trialsum.Article) (*trialsum.StructuredRecord, error)
}

func (e *StructuredExtractor) Extract(raw string) (*trialsum.StructuredRecord, error) {
	return e.ExtractFn(raw)
}

func (e *StructuredExtractor) ExtractArticle(a *trialsum.Article) (*trialsum.StructuredRecord, error) {
	return e.ExtractArticleFn(a)
}

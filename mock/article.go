package mock

import "github.com/fwojciec/trialsum"

var _ trialsum.ArticleReader = (*ArticleReader)(nil)

// ArticleReader is a mock implementation of trialsum.ArticleReader.
type ArticleReader struct {
	ReadFn func(content string) (*trialsum.Article, error)
}

func (r *ArticleReader) Read(content string) (*trialsum.Article, error) {
	return r.ReadFn(content)
}

var _ trialsum.FieldMatcher = (*FieldMatcher)(nil)

// FieldMatcher is a mock implementation of trialsum.FieldMatcher.
type FieldMatcher struct {
	MatchFn func(text string) []trialsum.TypedField
}

func (m *FieldMatcher) Match(text string) []trialsum.TypedField {
	return m.MatchFn(text)
}

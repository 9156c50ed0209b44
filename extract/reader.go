package extract

import (
	"strings"

	"github.com/fwojciec/trialsum"
)

// Ensure readers implement trialsum.ArticleReader at compile time.
var (
	_ trialsum.ArticleReader = (*MainContentReader)(nil)
	_ trialsum.ArticleReader = (ReaderChain)(nil)
)

// MainContentReader reads pages without a known abstract container: it
// extracts the main content, converts it to Markdown and accepts the result
// only if it contains a section anchor.
type MainContentReader struct {
	Extractor trialsum.Extractor
	Converter trialsum.Converter
}

// Read implements trialsum.ArticleReader.
func (r *MainContentReader) Read(content string) (*trialsum.Article, error) {
	res, err := r.Extractor.Extract(content)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(res.ContentHTML) == "" {
		return nil, trialsum.Errorf(trialsum.ENOTFOUND, "no main content")
	}

	md, err := r.Converter.Convert(res.ContentHTML)
	if err != nil {
		return nil, err
	}
	if !HasAnchor(md) {
		return nil, trialsum.Errorf(trialsum.ENOTFOUND, "no section anchors in main content")
	}

	article := &trialsum.Article{
		Title:    strings.TrimSpace(res.Title),
		Authors:  res.Byline,
		Abstract: md,
	}
	if !res.Published.IsZero() {
		article.Published = res.Published.Format("January 2006")
	}
	return article, nil
}

// ReaderChain tries readers in order and returns the first article read.
type ReaderChain []trialsum.ArticleReader

// Read implements trialsum.ArticleReader. When every reader fails, the
// error of the last reader that failed with something other than ENOTFOUND
// is returned, or ENOTFOUND if all of them simply found nothing.
func (c ReaderChain) Read(content string) (*trialsum.Article, error) {
	var lastErr error
	for _, r := range c {
		article, err := r.Read(content)
		if err == nil {
			return article, nil
		}
		if trialsum.ErrorCode(err) != trialsum.ENOTFOUND {
			lastErr = err
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, trialsum.Errorf(trialsum.ENOTFOUND, "no reader recognized the content")
}

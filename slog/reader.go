package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/trialsum"
)

// Ensure LoggingReader implements trialsum.ArticleReader.
var _ trialsum.ArticleReader = (*LoggingReader)(nil)

// LoggingReader wraps an ArticleReader with debug logging.
type LoggingReader struct {
	next   trialsum.ArticleReader
	logger *slog.Logger
}

// NewLoggingReader creates a new LoggingReader.
func NewLoggingReader(next trialsum.ArticleReader, logger *slog.Logger) *LoggingReader {
	return &LoggingReader{next: next, logger: logger}
}

// Read delegates to the wrapped reader and logs the operation.
func (r *LoggingReader) Read(content string) (article *trialsum.Article, err error) {
	defer func(begin time.Time) {
		var title string
		var abstractLen int
		if article != nil {
			title = article.Title
			abstractLen = len(article.Abstract)
		}
		r.logger.Debug("read article",
			"title", title,
			"abstract", abstractLen,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Read(content)
}

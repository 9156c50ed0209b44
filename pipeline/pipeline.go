// Package pipeline wires fetching, reading, extraction and chart
// normalization into a single run per article URL.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/trialsum"
)

// Pipeline runs the full extraction for article URLs.
//
// Fetcher, Reader, Extractor and Charts are required. Runs, Limiter and
// Logger are optional.
type Pipeline struct {
	Fetcher   trialsum.Fetcher
	Reader    trialsum.ArticleReader
	Extractor trialsum.StructuredExtractor
	Charts    trialsum.ChartNormalizer
	Runs      trialsum.RunService
	Limiter   trialsum.DomainLimiter
	Logger    *slog.Logger

	// Concurrency bounds RunAll. Defaults to DefaultConcurrency.
	Concurrency int
}

// Run fetches rawURL and builds its structured result.
//
// Returns *trialsum.FetchError when no strategy produced accepted content
// and *trialsum.ExtractionError when the content holds no structured
// abstract. Each failure is terminal for this URL; nothing is retried.
func (p *Pipeline) Run(ctx context.Context, rawURL string) (result *trialsum.Result, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", rawURL, "duration", time.Since(begin)}
		if result != nil {
			attrs = append(attrs,
				"strategy", result.Fetch.Strategy,
				"findings", len(result.Record.Findings),
				"charts", len(result.Charts),
				"missing", len(result.Record.Missing()),
			)
		}
		attrs = append(attrs, "err", err)
		p.logger().Info("pipeline run", attrs...)
	}(time.Now())

	u, err := parseArticleURL(rawURL)
	if err != nil {
		return nil, err
	}

	if p.Limiter != nil {
		if err := p.Limiter.Wait(ctx, u.Hostname()); err != nil {
			return nil, err
		}
	}

	fetched, err := p.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	article, err := p.Reader.Read(fetched.Content)
	if err != nil {
		if trialsum.ErrorCode(err) == trialsum.ENOTFOUND {
			return nil, &trialsum.ExtractionError{
				Kind:   trialsum.NoStructuredContent,
				Detail: trialsum.ErrorMessage(err),
			}
		}
		return nil, fmt.Errorf("read article: %w", err)
	}

	record, err := p.Extractor.ExtractArticle(article)
	if err != nil {
		return nil, err
	}
	record.SourceURL = rawURL

	result = &trialsum.Result{
		Record: record,
		Charts: p.Charts.NormalizeAll(record),
		Fetch:  fetched,
	}

	if p.Runs != nil {
		run := &trialsum.Run{
			SourceURL: rawURL,
			Strategy:  fetched.Strategy,
			Result:    result,
		}
		if err := p.Runs.CreateRun(ctx, run, fetched.Content); err != nil {
			return nil, fmt.Errorf("store run: %w", err)
		}
	}

	return result, nil
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}

// parseArticleURL accepts absolute http and https URLs only.
func parseArticleURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, trialsum.Errorf(trialsum.EINVALID, "invalid url %q: %v", rawURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, trialsum.Errorf(trialsum.EINVALID, "url %q must be an absolute http or https URL", rawURL)
	}
	return u, nil
}

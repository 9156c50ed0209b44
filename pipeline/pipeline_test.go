package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/trialsum"
	"github.com/fwojciec/trialsum/chart"
	"github.com/fwojciec/trialsum/extract"
	"github.com/fwojciec/trialsum/mock"
	"github.com/fwojciec/trialsum/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kneeAbstract = `Population: 130 men with knee osteoarthritis
Intervention: Enhanced support vs foundational support physiotherapy
Primary Outcome: Change in knee pain at 12 weeks
Findings: Enhanced support: 1.0
Foundational support: 1.0
Mean difference: -0.1 (95% CI, -1.1 to 1.0)
P=.92`

func fetched() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(ctx context.Context, u string) (*trialsum.FetchResult, error) {
			return &trialsum.FetchResult{
				URL:      u,
				Content:  "<html>article</html>",
				Strategy: trialsum.StrategyHeadless,
				Attempts: []trialsum.FetchAttempt{
					{Strategy: trialsum.StrategyHTTP, Reason: trialsum.ReasonAccessDenied},
					{Strategy: trialsum.StrategyHeadless, Succeeded: true},
				},
			}, nil
		},
	}
}

func reading(abstract string) *mock.ArticleReader {
	return &mock.ArticleReader{
		ReadFn: func(content string) (*trialsum.Article, error) {
			return &trialsum.Article{Title: "Knee Trial", Abstract: abstract}, nil
		},
	}
}

func newPipeline(f trialsum.Fetcher, r trialsum.ArticleReader) *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Fetcher:   f,
		Reader:    r,
		Extractor: extract.NewExtractor(),
		Charts:    chart.NewNormalizer(),
	}
}

func TestPipeline_Run(t *testing.T) {
	t.Parallel()

	t.Run("builds record and charts from fetched content", func(t *testing.T) {
		t.Parallel()

		p := newPipeline(fetched(), reading(kneeAbstract))

		result, err := p.Run(context.Background(), "https://example.com/trial")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/trial", result.Record.SourceURL)
		assert.Equal(t, "Knee Trial", result.Record.Title)
		assert.Equal(t, trialsum.StrategyHeadless, result.Fetch.Strategy)
		assert.Len(t, result.Fetch.Attempts, 2)
		assert.True(t, result.Record.Setting.Empty())
		require.Len(t, result.Charts, 1)
		assert.Len(t, result.Charts[0].Series, 2)
		require.NotNil(t, result.Charts[0].MeanDifference)
		assert.InDelta(t, -0.1, result.Charts[0].MeanDifference.Value, 1e-9)
	})

	t.Run("returns fetch errors unchanged", func(t *testing.T) {
		t.Parallel()

		fetchErr := &trialsum.FetchError{
			Kind: trialsum.AllStrategiesExhausted,
			URL:  "https://example.com/trial",
			Attempts: []trialsum.FetchAttempt{
				{Strategy: trialsum.StrategyHTTP, Reason: trialsum.ReasonTimeout},
			},
		}
		f := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*trialsum.FetchResult, error) {
				return nil, fetchErr
			},
		}
		readCalled := false
		r := &mock.ArticleReader{
			ReadFn: func(content string) (*trialsum.Article, error) {
				readCalled = true
				return nil, nil
			},
		}

		result, err := newPipeline(f, r).Run(context.Background(), "https://example.com/trial")

		assert.Nil(t, result)
		var got *trialsum.FetchError
		require.True(t, errors.As(err, &got))
		assert.Equal(t, trialsum.AllStrategiesExhausted, got.Kind)
		assert.False(t, readCalled)
	})

	t.Run("reports missing abstract as no structured content", func(t *testing.T) {
		t.Parallel()

		r := &mock.ArticleReader{
			ReadFn: func(content string) (*trialsum.Article, error) {
				return nil, trialsum.Errorf(trialsum.ENOTFOUND, "no abstract found")
			},
		}

		_, err := newPipeline(fetched(), r).Run(context.Background(), "https://example.com/trial")

		var extractErr *trialsum.ExtractionError
		require.True(t, errors.As(err, &extractErr))
		assert.Equal(t, trialsum.NoStructuredContent, extractErr.Kind)
		assert.Equal(t, "no abstract found", extractErr.Detail)
	})

	t.Run("wraps other reader errors", func(t *testing.T) {
		t.Parallel()

		r := &mock.ArticleReader{
			ReadFn: func(content string) (*trialsum.Article, error) {
				return nil, errors.New("boom")
			},
		}

		_, err := newPipeline(fetched(), r).Run(context.Background(), "https://example.com/trial")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "read article: boom")
	})

	t.Run("returns extraction errors for unstructured abstracts", func(t *testing.T) {
		t.Parallel()

		p := newPipeline(fetched(), reading("This trial tested physiotherapy."))

		_, err := p.Run(context.Background(), "https://example.com/trial")

		var extractErr *trialsum.ExtractionError
		require.True(t, errors.As(err, &extractErr))
	})

	t.Run("rejects non-http urls before fetching", func(t *testing.T) {
		t.Parallel()

		f := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*trialsum.FetchResult, error) {
				t.Fatal("fetch must not be called")
				return nil, nil
			},
		}

		for _, u := range []string{"ftp://example.com/a", "example.com/a", "", "https://"} {
			_, err := newPipeline(f, reading(kneeAbstract)).Run(context.Background(), u)
			assert.Equal(t, trialsum.EINVALID, trialsum.ErrorCode(err), u)
		}
	})

	t.Run("stores the run with the fetched content", func(t *testing.T) {
		t.Parallel()

		var stored *trialsum.Run
		var storedContent string
		p := newPipeline(fetched(), reading(kneeAbstract))
		p.Runs = &mock.RunService{
			CreateRunFn: func(ctx context.Context, run *trialsum.Run, content string) error {
				stored, storedContent = run, content
				return nil
			},
		}

		result, err := p.Run(context.Background(), "https://example.com/trial")

		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "https://example.com/trial", stored.SourceURL)
		assert.Equal(t, trialsum.StrategyHeadless, stored.Strategy)
		assert.Same(t, result, stored.Result)
		assert.Equal(t, "<html>article</html>", storedContent)
	})

	t.Run("fails when the run cannot be stored", func(t *testing.T) {
		t.Parallel()

		p := newPipeline(fetched(), reading(kneeAbstract))
		p.Runs = &mock.RunService{
			CreateRunFn: func(ctx context.Context, run *trialsum.Run, content string) error {
				return errors.New("disk full")
			},
		}

		_, err := p.Run(context.Background(), "https://example.com/trial")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "store run: disk full")
	})

	t.Run("waits on the limiter for the url host", func(t *testing.T) {
		t.Parallel()

		var domain string
		p := newPipeline(fetched(), reading(kneeAbstract))
		p.Limiter = &mock.DomainLimiter{
			WaitFn: func(ctx context.Context, d string) error {
				domain = d
				return nil
			},
		}

		_, err := p.Run(context.Background(), "https://jamanetwork.com:443/journals/jama/fullarticle/1")

		require.NoError(t, err)
		assert.Equal(t, "jamanetwork.com", domain)
	})

	t.Run("stops when the limiter wait is canceled", func(t *testing.T) {
		t.Parallel()

		p := newPipeline(fetched(), reading(kneeAbstract))
		p.Limiter = &mock.DomainLimiter{
			WaitFn: func(ctx context.Context, d string) error {
				return context.Canceled
			},
		}

		_, err := p.Run(context.Background(), "https://example.com/trial")

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("logs the run", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		p := newPipeline(fetched(), reading(kneeAbstract))
		p.Logger = slog.New(slog.NewTextHandler(&buf, nil))

		_, err := p.Run(context.Background(), "https://example.com/trial")

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "pipeline run")
		assert.Contains(t, output, "url=https://example.com/trial")
		assert.Contains(t, output, "strategy=headless")
		assert.Contains(t, output, "findings=1")
		assert.Contains(t, output, "charts=1")
		assert.Contains(t, output, "missing=1")
	})
}

func TestPipeline_Run_Collaborators(t *testing.T) {
	t.Parallel()

	article := &trialsum.Article{Title: "Knee Trial", Abstract: kneeAbstract}
	record := &trialsum.StructuredRecord{Title: "Knee Trial"}
	charts := []*trialsum.ChartInput{{Finding: 0}}

	var gotArticle *trialsum.Article
	var gotRecord *trialsum.StructuredRecord
	p := &pipeline.Pipeline{
		Fetcher: fetched(),
		Reader: &mock.ArticleReader{
			ReadFn: func(content string) (*trialsum.Article, error) { return article, nil },
		},
		Extractor: &mock.StructuredExtractor{
			ExtractArticleFn: func(a *trialsum.Article) (*trialsum.StructuredRecord, error) {
				gotArticle = a
				return record, nil
			},
		},
		Charts: &mock.ChartNormalizer{
			NormalizeAllFn: func(r *trialsum.StructuredRecord) []*trialsum.ChartInput {
				gotRecord = r
				return charts
			},
		},
	}

	result, err := p.Run(context.Background(), "https://example.com/trial")

	require.NoError(t, err)
	assert.Same(t, article, gotArticle)
	assert.Same(t, record, gotRecord)
	assert.Equal(t, "https://example.com/trial", gotRecord.SourceURL)
	assert.Equal(t, charts, result.Charts)
}

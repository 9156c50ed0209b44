package pipeline_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/trialsum"
	"github.com/fwojciec/trialsum/chart"
	"github.com/fwojciec/trialsum/extract"
	"github.com/fwojciec/trialsum/fetch"
	"github.com/fwojciec/trialsum/goquery"
	tshttp "github.com/fwojciec/trialsum/http"
	"github.com/fwojciec/trialsum/mock"
	"github.com/fwojciec/trialsum/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const challengePage = `<html><head><title>Just a moment...</title></head>
<body><p>Checking your browser before accessing the site.</p></body></html>`

const articlePage = `<!DOCTYPE html>
<html>
<head>
<title>Enhanced vs Foundational Physiotherapy for Knee Osteoarthritis | JAMA Network</title>
<meta name="citation_title" content="Enhanced vs Foundational Physiotherapy for Knee Osteoarthritis">
<meta name="citation_author" content="Bennell KL">
<meta name="citation_author" content="Paterson KL">
<meta name="citation_publication_date" content="2024/03/05">
<meta name="citation_doi" content="10.1001/jama.2024.0001">
</head>
<body>
<h1 class="meta-article-title">Enhanced vs Foundational Physiotherapy for Knee Osteoarthritis</h1>
<section class="abstract">
<h3>Population</h3>
<p>130 men with knee osteoarthritis</p>
<h3>Intervention</h3>
<p>Enhanced support vs foundational support physiotherapy</p>
<h3>Primary Outcome</h3>
<p>Change in knee pain at 12 weeks</p>
<h3>Findings</h3>
<p>Enhanced support: 1.0, Foundational support: 1.0, Mean difference: -0.1 (95% CI, -1.1 to 1.0), P=.92</p>
</section>
<p>Knee osteoarthritis is a leading cause of pain and disability among older adults worldwide,
and physiotherapy is recommended as a first-line treatment in clinical guidelines.</p>
</body>
</html>`

// newJournal serves the article to browser-like clients and a bot check to
// everything else.
func newJournal(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trial" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if strings.Contains(r.UserAgent(), "plain-bot") {
			_, _ = w.Write([]byte(challengePage))
			return
		}
		_, _ = w.Write([]byte(articlePage))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newJournalPipeline() *pipeline.Pipeline {
	plain := tshttp.NewStrategy(tshttp.WithUserAgent("plain-bot/1.0"))
	browserLike := tshttp.NewStrategy()
	headless := &mock.Strategy{
		IDFn:    func() trialsum.StrategyID { return trialsum.StrategyHeadless },
		FetchFn: browserLike.Fetch,
	}

	return &pipeline.Pipeline{
		Fetcher: fetch.NewChain(
			[]trialsum.Strategy{plain, headless},
			fetch.WithValidator(goquery.NewValidator()),
		),
		Reader:    goquery.NewArticleReader(),
		Extractor: extract.NewExtractor(),
		Charts:    chart.NewNormalizer(),
	}
}

func TestPipeline_Run_EndToEnd(t *testing.T) {
	t.Parallel()

	t.Run("falls back past a bot check and extracts the abstract", func(t *testing.T) {
		t.Parallel()

		srv := newJournal(t)

		result, err := newJournalPipeline().Run(context.Background(), srv.URL+"/trial")

		require.NoError(t, err)

		attempts := result.Fetch.Attempts
		require.Len(t, attempts, 2)
		assert.Equal(t, trialsum.StrategyHTTP, attempts[0].Strategy)
		assert.Equal(t, trialsum.ReasonAccessDenied, attempts[0].Reason)
		assert.Equal(t, trialsum.StrategyHeadless, attempts[1].Strategy)
		assert.True(t, attempts[1].Succeeded)
		assert.Equal(t, trialsum.StrategyHeadless, result.Fetch.Strategy)

		record := result.Record
		assert.Equal(t, "Enhanced vs Foundational Physiotherapy for Knee Osteoarthritis", record.Title)
		assert.Equal(t, "Bennell KL, Paterson KL", record.Authors)
		assert.Equal(t, "March 2024", record.Published)
		assert.Equal(t, "10.1001/jama.2024.0001", record.DOI)
		assert.Equal(t, "130 men with knee osteoarthritis", record.Population.RawText)
		assert.Equal(t, []trialsum.SectionKind{trialsum.SectionSetting}, record.Missing())
		require.Len(t, record.Findings, 1)

		require.Len(t, result.Charts, 1)
		c := result.Charts[0]
		assert.Equal(t, []trialsum.SeriesPoint{
			{Label: "Enhanced support", Value: 1.0},
			{Label: "Foundational support", Value: 1.0},
		}, c.Series)
		require.NotNil(t, c.MeanDifference)
		assert.InDelta(t, -1.1, c.MeanDifference.CILow, 1e-9)
		assert.InDelta(t, 1.0, c.MeanDifference.CIHigh, 1e-9)
		require.NotNil(t, c.PValue)
		assert.InDelta(t, 0.92, *c.PValue, 1e-9)
	})

	t.Run("reports every attempt when all strategies fail", func(t *testing.T) {
		t.Parallel()

		srv := newJournal(t)

		_, err := newJournalPipeline().Run(context.Background(), srv.URL+"/missing")

		var fetchErr *trialsum.FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, trialsum.AllStrategiesExhausted, fetchErr.Kind)
		require.Len(t, fetchErr.Attempts, 2)
		for _, a := range fetchErr.Attempts {
			assert.Equal(t, trialsum.ReasonFetchFailed, a.Reason)
			assert.Contains(t, a.Detail, "404")
		}
	})
}

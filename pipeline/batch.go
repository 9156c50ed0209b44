package pipeline

import (
	"context"

	"github.com/fwojciec/trialsum"
	"github.com/fwojciec/trialsum/bloom"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is how many URLs RunAll processes at once. Browser
// strategies are heavy, so it is kept small.
const DefaultConcurrency = 4

// Outcome is the result of one URL of a batch.
type Outcome struct {
	Position int
	URL      string
	Result   *trialsum.Result
	Err      error

	// Skipped is set for URLs already seen earlier in the batch.
	Skipped bool
}

// ProgressEvent reports progress during a batch.
type ProgressEvent struct {
	Completed int
	Total     int
	Outcome   Outcome
}

// ProgressFunc is a callback for reporting batch progress. It is never
// called concurrently.
type ProgressFunc func(event ProgressEvent)

// RunAll runs every URL and returns one Outcome per input URL, in input
// order. URLs run independently: a failed URL does not stop the others.
// Duplicate URLs are run once; later copies are reported as skipped.
func (p *Pipeline) RunAll(ctx context.Context, urls []string, progress ProgressFunc) []Outcome {
	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	seen := bloom.NewFilter(uint(len(urls)), bloom.DefaultFalsePositiveRate)
	outcomes := make([]Outcome, len(urls))
	resultCh := make(chan Outcome, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, u := range urls {
			if !seen.Add(u) {
				resultCh <- Outcome{Position: i, URL: u, Skipped: true}
				continue
			}
			g.Go(func() error {
				result, err := p.Run(gctx, u)
				resultCh <- Outcome{Position: i, URL: u, Result: result, Err: err}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	var completed int
	for o := range resultCh {
		outcomes[o.Position] = o
		completed++
		if progress != nil {
			progress(ProgressEvent{
				Completed: completed,
				Total:     len(urls),
				Outcome:   o,
			})
		}
	}
	return outcomes
}

// Package fetch tries an ordered list of strategies until one returns
// content the validator accepts, recording every attempt along the way.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/trialsum"
)

// Ensure Chain implements trialsum.Fetcher at compile time.
var _ trialsum.Fetcher = (*Chain)(nil)

// Chain runs fetch strategies strictly in order. It never runs two
// strategies at once and stops at the first accepted result.
//
// A Chain holds no per-fetch state and is safe for concurrent use as long as
// its strategies are.
type Chain struct {
	strategies []trialsum.Strategy
	validator  trialsum.Validator
	timeout    time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Chain.
type Option func(*Chain)

// WithTimeout sets the bound on a single strategy attempt.
// Defaults to trialsum.DefaultPerStrategyTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Chain) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithValidator sets the validator gating each attempt's content.
// Without one, any content a strategy returns is accepted.
func WithValidator(v trialsum.Validator) Option {
	return func(c *Chain) {
		c.validator = v
	}
}

// WithLogger sets the logger receiving one debug record per attempt.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chain) {
		c.logger = logger
	}
}

// WithClock sets the time source used to stamp attempts.
func WithClock(now func() time.Time) Option {
	return func(c *Chain) {
		c.now = now
	}
}

// NewChain creates a Chain over strategies in priority order.
func NewChain(strategies []trialsum.Strategy, opts ...Option) *Chain {
	c := &Chain{
		strategies: strategies,
		validator:  acceptAll{},
		timeout:    trialsum.DefaultPerStrategyTimeout,
		logger:     slog.New(slog.DiscardHandler),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Strategies returns the IDs of the chain's strategies in order.
func (c *Chain) Strategies() []trialsum.StrategyID {
	ids := make([]trialsum.StrategyID, 0, len(c.strategies))
	for _, s := range c.strategies {
		ids = append(ids, s.ID())
	}
	return ids
}

// Fetch returns the first accepted content for url.
//
// Failures and rejections of individual strategies are absorbed into the
// attempt history. The returned error is always a *trialsum.FetchError: of
// kind FetchCanceled when ctx ends between or during attempts, and of kind
// AllStrategiesExhausted when every strategy failed.
func (c *Chain) Fetch(ctx context.Context, url string) (*trialsum.FetchResult, error) {
	attempts := make([]trialsum.FetchAttempt, 0, len(c.strategies))

	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return nil, &trialsum.FetchError{
				Kind:     trialsum.FetchCanceled,
				URL:      url,
				Attempts: attempts,
				Err:      err,
			}
		}

		attempt, content := c.try(ctx, s, url)
		attempts = append(attempts, attempt)
		c.logger.Debug("fetch attempt",
			"url", url,
			"strategy", attempt.Strategy,
			"succeeded", attempt.Succeeded,
			"reason", attempt.Reason,
			"detail", attempt.Detail,
			"duration", attempt.Duration,
		)

		if attempt.Succeeded {
			return &trialsum.FetchResult{
				URL:      url,
				Content:  content,
				Strategy: attempt.Strategy,
				Attempts: attempts,
			}, nil
		}
		if attempt.Reason == trialsum.ReasonCanceled {
			return nil, &trialsum.FetchError{
				Kind:     trialsum.FetchCanceled,
				URL:      url,
				Attempts: attempts,
				Err:      ctx.Err(),
			}
		}
	}

	return nil, &trialsum.FetchError{
		Kind:     trialsum.AllStrategiesExhausted,
		URL:      url,
		Attempts: attempts,
	}
}

// try runs one strategy under the per-attempt deadline and validates what
// it returns.
func (c *Chain) try(ctx context.Context, s trialsum.Strategy, url string) (trialsum.FetchAttempt, string) {
	attempt := trialsum.FetchAttempt{
		Strategy:  s.ID(),
		StartedAt: c.now(),
	}
	begin := time.Now()

	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	content, err := invoke(attemptCtx, s, url)
	attempt.Duration = time.Since(begin)

	switch {
	case err == nil:
	case ctx.Err() != nil:
		attempt.Reason = trialsum.ReasonCanceled
		attempt.Detail = ctx.Err().Error()
		return attempt, ""
	case errors.Is(err, context.DeadlineExceeded) || attemptCtx.Err() != nil:
		attempt.Reason = trialsum.ReasonTimeout
		attempt.Detail = fmt.Sprintf("no content after %s", attempt.Duration.Round(time.Millisecond))
		return attempt, ""
	default:
		attempt.Reason = trialsum.ReasonFetchFailed
		attempt.Detail = err.Error()
		return attempt, ""
	}

	verdict := c.validator.Validate(content)
	if !verdict.Accepted() {
		attempt.Reason = verdict.Reason
		attempt.Detail = verdict.Detail
		return attempt, ""
	}
	attempt.Succeeded = true
	return attempt, content
}

// invoke calls the strategy, turning a panic into an error.
func invoke(ctx context.Context, s trialsum.Strategy, url string) (content string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("strategy %s panicked: %v", s.ID(), r)
		}
	}()
	return s.Fetch(ctx, url)
}

// acceptAll is the validator used when none is configured.
type acceptAll struct{}

func (acceptAll) Validate(string) trialsum.Verdict {
	return trialsum.Verdict{}
}

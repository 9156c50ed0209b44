package mock

import (
	"context"

	"github.com/fwojciec/trialsum"
)

var _ trialsum.Strategy = (*Strategy)(nil)

// Strategy is a mock implementation of trialsum.Strategy.
type Strategy struct {
	IDFn    func() trialsum.StrategyID
	FetchFn func(ctx context.Context, url string) (string, error)
}

func (s *Strategy) ID() trialsum.StrategyID {
	return s.IDFn()
}

func (s *Strategy) Fetch(ctx context.Context, url string) (string, error) {
	return s.FetchFn(ctx, url)
}

var _ trialsum.Validator = (*Validator)(nil)

// Validator is a mock implementation of trialsum.Validator.
type Validator struct {
	ValidateFn func(content string) trialsum.Verdict
}

func (v *Validator) Validate(content string) trialsum.Verdict {
	return v.ValidateFn(content)
}

var _ trialsum.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of trialsum.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*trialsum.FetchResult, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*trialsum.FetchResult, error) {
	return f.FetchFn(ctx, url)
}

var _ trialsum.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of trialsum.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

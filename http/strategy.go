// Package http provides the plain HTTP fetch strategy: a single GET with
// browser-like headers, suitable for pages that do not require JavaScript or
// bot-check clearance.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/trialsum"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// The fetch chain's per-strategy deadline applies on top of it.
const DefaultFetchTimeout = 30 * time.Second

// DefaultMaxBodySize caps the bytes read from a response body.
const DefaultMaxBodySize = 10 << 20

// DefaultUserAgent is sent unless overridden with WithUserAgent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Ensure Strategy implements trialsum.Strategy at compile time.
var _ trialsum.Strategy = (*Strategy)(nil)

// Strategy retrieves HTML content from URLs using HTTP requests.
// It does not execute JavaScript.
type Strategy struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// Option configures a Strategy.
type Option func(*Strategy)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(s *Strategy) {
		s.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Strategy) {
		s.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum number of body bytes read.
func WithMaxBodySize(n int64) Option {
	return func(s *Strategy) {
		s.maxBodySize = n
	}
}

// NewStrategy creates a new HTTP fetch strategy.
func NewStrategy(opts ...Option) *Strategy {
	s := &Strategy{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.client = &http.Client{
		Timeout: s.timeout,
	}

	return s
}

// ID returns trialsum.StrategyHTTP.
func (s *Strategy) ID() trialsum.StrategyID {
	return trialsum.StrategyHTTP
}

// Fetch retrieves the HTML content from the given URL.
func (s *Strategy) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return "", err
	}

	return string(body), nil
}

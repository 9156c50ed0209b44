// Package bloom skips article URLs already seen in a batch.
package bloom

import (
	"net/url"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// DefaultFalsePositiveRate is used when NewFilter is given a rate outside
// (0, 1).
const DefaultFalsePositiveRate = 0.001

// Filter is a concurrency-safe Bloom filter over normalized article URLs.
// A false positive skips a URL that was never seen; it never lets a
// duplicate through.
type Filter struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewFilter creates a Filter sized for n expected URLs with the given false
// positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	if fpRate <= 0 || fpRate >= 1 {
		fpRate = DefaultFalsePositiveRate
	}
	return &Filter{f: bloom.NewWithEstimates(n, fpRate)}
}

// Normalize reduces rawURL to the form used for deduplication: lower-case
// scheme and host, no fragment, no trailing slash. Unparseable input is
// returned trimmed.
func Normalize(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""
	return u.String()
}

// Add records rawURL as seen and reports whether it was new.
func (f *Filter) Add(rawURL string) bool {
	key := Normalize(rawURL)
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.f.TestOrAddString(key)
}

// Test reports whether rawURL might have been seen.
func (f *Filter) Test(rawURL string) bool {
	key := Normalize(rawURL)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestString(key)
}

// EstimatedCount returns the approximate number of distinct URLs added.
func (f *Filter) EstimatedCount() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint(f.f.ApproximatedSize())
}

package trialsum

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// StrategyID identifies a fetch strategy.
type StrategyID string

// Built-in fetch strategies in their default priority order.
const (
	StrategyHTTP     StrategyID = "http"
	StrategyHeadless StrategyID = "headless"
	StrategyBrowser  StrategyID = "browser"
)

// Strategy retrieves the raw content of an article URL.
// Implementations acquire any external resource they need (browser session,
// connection) inside Fetch and release it before returning, on every path.
type Strategy interface {
	// ID returns the strategy identifier recorded in fetch attempts.
	ID() StrategyID

	// Fetch returns the document at url.
	// The context carries the per-strategy deadline and must be honored.
	Fetch(ctx context.Context, url string) (content string, err error)
}

// FailureReason explains why a fetch attempt did not produce usable content.
type FailureReason string

// Failure reasons recorded on fetch attempts.
const (
	ReasonNone                   FailureReason = ""
	ReasonTimeout                FailureReason = "timeout"
	ReasonFetchFailed            FailureReason = "fetch_failed"
	ReasonCanceled               FailureReason = "canceled"
	ReasonTooShort               FailureReason = "too_short"
	ReasonMissingRequiredSection FailureReason = "missing_required_section"
	ReasonAccessDenied           FailureReason = "access_denied"
)

// Verdict is the outcome of validating fetched content.
// The zero value means the content was accepted.
type Verdict struct {
	Reason FailureReason `json:"reason,omitempty"`
	Detail string        `json:"detail,omitempty"`
}

// Accepted reports whether the content passed validation.
func (v Verdict) Accepted() bool {
	return v.Reason == ReasonNone
}

// Reject returns a rejecting verdict.
func Reject(reason FailureReason, format string, args ...any) Verdict {
	return Verdict{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// Validator decides whether fetched content is usable.
// Validate must be pure: the same content always yields the same verdict.
type Validator interface {
	Validate(content string) Verdict
}

// FetchAttempt records one strategy invocation.
type FetchAttempt struct {
	Strategy  StrategyID    `json:"strategy"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
	Succeeded bool          `json:"succeeded"`
	Reason    FailureReason `json:"reason,omitempty"`
	Detail    string        `json:"detail,omitempty"`
}

// FetchResult holds the accepted content and the history of attempts that
// led to it.
type FetchResult struct {
	URL      string         `json:"url"`
	Content  string         `json:"-"`
	Strategy StrategyID     `json:"strategy"`
	Attempts []FetchAttempt `json:"attempts"`
}

// Fetcher retrieves an article through an ordered set of strategies.
type Fetcher interface {
	// Fetch returns the first accepted content for url.
	// Returns *FetchError when no strategy produced accepted content.
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// DomainLimiter paces requests per host.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed or ctx is done.
	Wait(ctx context.Context, domain string) error
}

// FetchErrorKind classifies a terminal fetch failure.
type FetchErrorKind string

// Terminal fetch failure kinds.
const (
	AllStrategiesExhausted FetchErrorKind = "all_strategies_exhausted"
	FetchCanceled          FetchErrorKind = "canceled"
)

// FetchError is returned when no strategy produced accepted content.
// It carries the full ordered attempt history for diagnostics.
type FetchError struct {
	Kind     FetchErrorKind
	URL      string
	Attempts []FetchAttempt
	Err      error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fetch %s: %s", e.URL, e.Kind)
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, "; %s: %s", a.Strategy, a.Reason)
		if a.Detail != "" {
			fmt.Fprintf(&b, " (%s)", a.Detail)
		}
	}
	return b.String()
}

// Unwrap returns the underlying cause, if any (e.g. context.Canceled).
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Package rod provides browser-backed fetch strategies using Chrome
// automation: a headless stealth browser and a full (headful) browser.
package rod

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/trialsum"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// DefaultUserAgent is the user agent reported by browser strategies.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Default viewport and render delay.
const (
	DefaultViewportWidth  = 1920
	DefaultViewportHeight = 1080
	DefaultRenderDelay    = 2 * time.Second
)

// Ensure Strategy implements trialsum.Strategy at compile time.
var _ trialsum.Strategy = (*Strategy)(nil)

// Strategy fetches rendered HTML with a freshly launched Chrome.
// Every Fetch launches its own session and closes it before returning, so a
// Strategy is safe for concurrent use.
type Strategy struct {
	id          trialsum.StrategyID
	session     sessionConfig
	stealth     bool
	userAgent   string
	width       int
	height      int
	renderDelay time.Duration
}

// Option configures a Strategy.
type Option func(*Strategy)

// WithUserAgent sets the user agent reported by the page.
func WithUserAgent(ua string) Option {
	return func(s *Strategy) {
		s.userAgent = ua
	}
}

// WithViewport sets the page viewport size.
func WithViewport(width, height int) Option {
	return func(s *Strategy) {
		s.width = width
		s.height = height
	}
}

// WithRenderDelay sets how long to wait after load for scripts to render
// the page. Zero disables the wait.
func WithRenderDelay(d time.Duration) Option {
	return func(s *Strategy) {
		s.renderDelay = d
	}
}

// WithDisplay sets the X display a full browser draws on, such as an Xvfb
// display ":99". Ignored by the headless strategy.
func WithDisplay(display string) Option {
	return func(s *Strategy) {
		s.session.display = display
	}
}

// WithBin sets the Chrome binary. By default rod finds or downloads one.
func WithBin(path string) Option {
	return func(s *Strategy) {
		s.session.bin = path
	}
}

func newStrategy(id trialsum.StrategyID, headless bool, opts []Option) *Strategy {
	s := &Strategy{
		id:          id,
		session:     sessionConfig{headless: headless},
		stealth:     headless,
		userAgent:   DefaultUserAgent,
		width:       DefaultViewportWidth,
		height:      DefaultViewportHeight,
		renderDelay: DefaultRenderDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHeadlessStrategy creates the headless strategy. Pages are opened with
// go-rod/stealth evasions applied.
func NewHeadlessStrategy(opts ...Option) *Strategy {
	return newStrategy(trialsum.StrategyHeadless, true, opts)
}

// NewBrowserStrategy creates the full browser strategy: a visible Chrome
// window, which passes bot checks that reject headless browsers.
func NewBrowserStrategy(opts ...Option) *Strategy {
	return newStrategy(trialsum.StrategyBrowser, false, opts)
}

// ID returns the strategy identifier.
func (s *Strategy) ID() trialsum.StrategyID {
	return s.id
}

// Fetch launches a browser, navigates to the URL and returns the rendered
// HTML. The browser is closed on every return path.
func (s *Strategy) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	sess, err := launch(ctx, s.session)
	if err != nil {
		return "", err
	}
	defer sess.Close()

	page, err := s.openPage(sess.browser)
	if err != nil {
		return "", fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: s.userAgent}); err != nil {
		return "", fmt.Errorf("setting user agent: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             s.width,
		Height:            s.height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return "", fmt.Errorf("setting viewport: %w", err)
	}

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	if s.renderDelay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.renderDelay):
		}
	}

	return page.HTML()
}

func (s *Strategy) openPage(b *rod.Browser) (*rod.Page, error) {
	if s.stealth {
		return stealth.Page(b)
	}
	return b.Page(proto.TargetCreateTarget{})
}

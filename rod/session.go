package rod

import (
	"context"
	"fmt"
	"os"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// Session is one launched Chrome process and its connected browser.
// A session serves a single fetch and is closed before the fetch returns,
// so no browser handle outlives the attempt that created it.
type Session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// sessionConfig controls how Chrome is launched.
type sessionConfig struct {
	headless bool
	display  string
	bin      string
}

// launch starts Chrome with stability and anti-automation flags and
// connects to it.
func launch(ctx context.Context, cfg sessionConfig) (*Session, error) {
	l := launcher.New().
		Context(ctx).
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Set("disable-blink-features", "AutomationControlled").
		Leakless(true).
		Headless(cfg.headless)
	if cfg.bin != "" {
		l = l.Bin(cfg.bin)
	}
	if !cfg.headless && cfg.display != "" {
		l = l.Env(append(os.Environ(), "DISPLAY="+cfg.display)...)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &Session{browser: browser, launcher: l}, nil
}

// Close shuts down the browser and kills the launcher process.
func (s *Session) Close() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher = nil
	}
	return err
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (s *Session) LauncherPID() int {
	if s.launcher == nil {
		return 0
	}
	return s.launcher.PID()
}

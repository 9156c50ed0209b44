package trialsum

import "time"

// DefaultPerStrategyTimeout bounds a single fetch strategy attempt.
const DefaultPerStrategyTimeout = 40 * time.Second

// Config holds per-run options.
type Config struct {
	Verbose            bool          `json:"verbose"`
	PerStrategyTimeout time.Duration `json:"perStrategyTimeout"`
	UseAIExtraction    bool          `json:"useAiExtraction"`
	APIKey             string        `json:"-"`
}

// Validate returns an error if the configuration is inconsistent.
func (c *Config) Validate() error {
	if c.PerStrategyTimeout < 0 {
		return Errorf(EINVALID, "per-strategy timeout must not be negative")
	}
	if c.UseAIExtraction && c.APIKey == "" {
		return Errorf(EINVALID, "API key required for AI extraction")
	}
	return nil
}

// Timeout returns the per-strategy timeout, falling back to the default.
func (c *Config) Timeout() time.Duration {
	if c.PerStrategyTimeout <= 0 {
		return DefaultPerStrategyTimeout
	}
	return c.PerStrategyTimeout
}

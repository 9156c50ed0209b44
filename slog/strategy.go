// Package slog decorates trialsum services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/trialsum"
)

// Ensure LoggingStrategy implements trialsum.Strategy.
var _ trialsum.Strategy = (*LoggingStrategy)(nil)

// LoggingStrategy wraps a Strategy with logging of each fetch.
type LoggingStrategy struct {
	next   trialsum.Strategy
	logger *slog.Logger
}

// NewLoggingStrategy creates a new LoggingStrategy.
func NewLoggingStrategy(next trialsum.Strategy, logger *slog.Logger) *LoggingStrategy {
	return &LoggingStrategy{next: next, logger: logger}
}

// ID returns the wrapped strategy's identifier.
func (s *LoggingStrategy) ID() trialsum.StrategyID {
	return s.next.ID()
}

// Fetch delegates to the wrapped strategy and logs the operation.
func (s *LoggingStrategy) Fetch(ctx context.Context, url string) (content string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("fetch",
			"strategy", s.next.ID(),
			"url", url,
			"bytes", len(content),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Fetch(ctx, url)
}

// WrapStrategies wraps each strategy with a LoggingStrategy, keeping order.
func WrapStrategies(strategies []trialsum.Strategy, logger *slog.Logger) []trialsum.Strategy {
	out := make([]trialsum.Strategy, len(strategies))
	for i, s := range strategies {
		out[i] = NewLoggingStrategy(s, logger)
	}
	return out
}

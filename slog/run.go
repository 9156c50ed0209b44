package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/trialsum"
)

// Ensure LoggingRunService implements trialsum.RunService.
var _ trialsum.RunService = (*LoggingRunService)(nil)

// LoggingRunService wraps a RunService with debug logging.
type LoggingRunService struct {
	next   trialsum.RunService
	logger *slog.Logger
}

// NewLoggingRunService creates a new LoggingRunService.
func NewLoggingRunService(next trialsum.RunService, logger *slog.Logger) *LoggingRunService {
	return &LoggingRunService{next: next, logger: logger}
}

// CreateRun delegates to the wrapped service and logs the operation.
func (s *LoggingRunService) CreateRun(ctx context.Context, run *trialsum.Run, content string) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("create run",
			"id", run.ID,
			"url", run.SourceURL,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateRun(ctx, run, content)
}

// FindLatestRun delegates to the wrapped service and logs the operation.
func (s *LoggingRunService) FindLatestRun(ctx context.Context, sourceURL string) (run *trialsum.Run, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find latest run",
			"url", sourceURL,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindLatestRun(ctx, sourceURL)
}

// FindRuns delegates to the wrapped service and logs the operation.
func (s *LoggingRunService) FindRuns(ctx context.Context, filter trialsum.RunFilter) (runs []*trialsum.Run, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find runs",
			"count", len(runs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindRuns(ctx, filter)
}

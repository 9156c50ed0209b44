package mock

import (
	"context"

	"github.com/fwojciec/trialsum"
)

var _ trialsum.RunService = (*RunService)(nil)

// RunService is a mock implementation of trialsum.RunService.
type RunService struct {
	CreateRunFn     func(ctx context.Context, run *trialsum.Run, content string) error
	FindLatestRunFn func(ctx context.Context, sourceURL string) (*trialsum.Run, error)
	FindRunsFn      func(ctx context.Context, filter trialsum.RunFilter) ([]*trialsum.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *trialsum.Run, content string) error {
	return s.CreateRunFn(ctx, run, content)
}

func (s *RunService) FindLatestRun(ctx context.Context, sourceURL string) (*trialsum.Run, error) {
	return s.FindLatestRunFn(ctx, sourceURL)
}

func (s *RunService) FindRuns(ctx context.Context, filter trialsum.RunFilter) ([]*trialsum.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

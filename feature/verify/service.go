package verify

import (
	"context"
	"sync"
	"sync/atomic"

	"migration-verifier/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const runKey = "run"

// Runner performs one reconciliation run.
type Runner interface {
	Run(ctx context.Context) (*reconcile.RunSummary, error)
}

// Service triggers runs and keeps the summary of the latest one.
// Concurrent triggers join the run in progress since every run replaces the
// report sink wholesale.
type Service struct {
	ctx     context.Context
	runner  Runner
	logger  *zap.Logger
	group   singleflight.Group
	running atomic.Bool

	mu     sync.RWMutex
	latest *reconcile.RunSummary
}

// NewService creates a service. Runs are bound to ctx rather than to the
// request that triggered them, so cancelling ctx aborts a run in progress.
func NewService(ctx context.Context, runner Runner, logger *zap.Logger) *Service {
	return &Service{ctx: ctx, runner: runner, logger: logger}
}

// Trigger starts a run, or joins the one in progress, and returns a channel
// receiving its result. The run continues if nobody reads the channel.
func (s *Service) Trigger() <-chan singleflight.Result {
	return s.group.DoChan(runKey, s.run)
}

// Running reports whether a run is in progress.
func (s *Service) Running() bool {
	return s.running.Load()
}

// Latest returns the summary of the most recent run, if any.
func (s *Service) Latest() (*reconcile.RunSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.latest != nil
}

// LatestType returns one type's row of the most recent run.
func (s *Service) LatestType(recordType string) (reconcile.TypeSummary, bool) {
	summary, ok := s.Latest()
	if !ok {
		return reconcile.TypeSummary{}, false
	}
	return summary.Lookup(recordType)
}

func (s *Service) run() (any, error) {
	s.running.Store(true)
	defer s.running.Store(false)

	summary, err := s.runner.Run(s.ctx)
	if summary != nil {
		s.mu.Lock()
		s.latest = summary
		s.mu.Unlock()
	}
	if err != nil {
		s.logger.Error("Reconciliation run failed", zap.Error(err))
	}
	return summary, err
}

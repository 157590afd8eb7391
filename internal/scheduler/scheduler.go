// Package scheduler runs periodic housekeeping jobs.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/ndewijer/wealth-manager-backend/internal/logger"
)

// Sweeper removes expired entries and reports how many it removed.
type Sweeper interface {
	Sweep() int
}

// Scheduler wraps a cron runner.
type Scheduler struct {
	cron *cron.Cron
}

// New creates an idle Scheduler. Jobs recover from panics and are skipped
// while a previous run of the same job is still in progress.
func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DefaultLogger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
	}
}

// AddCacheSweep schedules s.Sweep on spec, a standard cron expression or a
// descriptor such as "@every 1m".
func (s *Scheduler) AddCacheSweep(spec string, sweeper Sweeper) error {
	_, err := s.cron.AddFunc(spec, func() {
		if removed := sweeper.Sweep(); removed > 0 {
			logger.Get().Debugw("cache sweep", "removed", removed)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling new runs and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// Jobs returns the number of scheduled jobs.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

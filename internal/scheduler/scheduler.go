// Package scheduler drives periodic sync passes.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/asteroid-belt/solvesync/internal/log"
	"github.com/asteroid-belt/solvesync/internal/syncer"
)

// DefaultInterval is used when no interval is configured.
const DefaultInterval = time.Minute

// Runner runs one sync pass. *service.Service satisfies it.
type Runner interface {
	RunPass(ctx context.Context, trigger syncer.Trigger) (syncer.PassResult, error)
}

// Scheduler runs a pass on start and then once per interval. Passes never
// overlap: a tick that arrives while a pass is running is dropped.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	journal  *log.Journal

	mu      sync.Mutex
	running bool
}

// New creates a scheduler.
func New(runner Runner, interval time.Duration, journal *log.Journal) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if journal == nil {
		journal = log.NewJournal(nil)
	}
	return &Scheduler{runner: runner, interval: interval, journal: journal}
}

// Interval returns the tick period.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	s.journal.Debug("Scheduler started, interval %s", s.interval)
	s.pass(ctx, syncer.TriggerStartup)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.journal.Debug("Scheduler stopped")
			return nil
		case <-ticker.C:
			s.pass(ctx, syncer.TriggerSchedule)
		}
	}
}

func (s *Scheduler) pass(ctx context.Context, trigger syncer.Trigger) {
	res, err := s.runner.RunPass(ctx, trigger)
	if err != nil {
		// RunPass has already journaled the failure.
		return
	}
	if res.Skipped {
		s.journal.Debug("Scheduled pass skipped: another pass is running")
	}
}

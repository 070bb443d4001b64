// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

// Package scheduler runs a job on a recurring schedule.
//
// The observer role uses it to trigger discovery and inactivity scans,
// either every fixed interval or on a cron expression. A Scheduler has a
// Start/Stop lifecycle so it can be wrapped as a supervised service.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/jandi/internal/logging"
)

// Job is the unit of work run on each tick.
type Job interface {
	Run(ctx context.Context) error
}

// JobFunc adapts a function to Job.
type JobFunc func(ctx context.Context) error

// Run implements Job.
func (f JobFunc) Run(ctx context.Context) error { return f(ctx) }

// Config holds configuration for a Scheduler.
type Config struct {
	// Name identifies the job in logs.
	Name string

	// Schedule decides when runs happen. Required.
	Schedule Schedule

	// RunOnStartup triggers one run as soon as the loop starts.
	RunOnStartup bool

	// Timeout bounds a single run. Zero means no limit.
	Timeout time.Duration
}

// Scheduler runs one job at a time. A run that overlaps the next tick
// delays that tick rather than running concurrently.
type Scheduler struct {
	job    Job
	config Config
	logger zerolog.Logger
	now    func() time.Time

	mu      sync.Mutex
	running bool
	runs    int
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a scheduler for job.
func New(job Job, config Config) (*Scheduler, error) {
	if config.Schedule == nil {
		return nil, fmt.Errorf("scheduler %q: schedule is required", config.Name)
	}
	if every, ok := config.Schedule.(Every); ok && every <= 0 {
		return nil, fmt.Errorf("scheduler %q: interval must be positive", config.Name)
	}
	if config.Name == "" {
		config.Name = "scheduler"
	}
	return &Scheduler{
		job:    job,
		config: config,
		logger: logging.WithComponent("scheduler").With().Str("job", config.Name).Logger(),
		now:    time.Now,
	}, nil
}

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler %q already running", s.config.Name)
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	s.logger.Info().Bool("run_on_startup", s.config.RunOnStartup).Msg("Starting scheduler")
	go s.loop(ctx)
	return nil
}

// Stop ends the loop and waits for an in-flight run to return.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	stopCh, doneCh := s.stopCh, s.doneCh
	s.mu.Unlock()

	close(stopCh)
	<-doneCh

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info().Msg("Scheduler stopped")
	return nil
}

// IsRunning returns whether the loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Runs returns how many runs have completed.
func (s *Scheduler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.doneCh)

	if s.config.RunOnStartup {
		s.execute(ctx)
	}

	for {
		next := s.config.Schedule.Next(s.now())
		if next.IsZero() {
			s.logger.Error().Msg("Schedule has no future run, stopping")
			return
		}
		s.logger.Debug().Time("next_run", next).Msg("Waiting for next run")

		timer := time.NewTimer(time.Until(next))
		select {
		case <-timer.C:
			s.execute(ctx)
		case <-s.stopCh:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

func (s *Scheduler) execute(ctx context.Context) {
	runCtx := ctx
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}
	runCtx = logging.ContextWithNewCorrelationID(runCtx)

	start := time.Now()
	err := s.job.Run(runCtx)

	s.mu.Lock()
	s.runs++
	s.mu.Unlock()

	if err != nil {
		s.logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("Scheduled run failed")
		return
	}
	s.logger.Info().Dur("duration", time.Since(start)).Msg("Scheduled run completed")
}

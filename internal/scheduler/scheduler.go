package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aleister1102/expirywatch/internal/config"
	"github.com/aleister1102/expirywatch/internal/models"
	"github.com/rs/zerolog"
)

// PassGate decides whether a timer pass may start now.
type PassGate interface {
	Admit(ctx context.Context) error
}

// Scheduler runs reconciliation passes on a fixed cycle in automated mode.
type Scheduler struct {
	service     *Service
	gate        PassGate
	cycle       time.Duration
	maxRetries  int
	retryDelay  time.Duration
	logger      zerolog.Logger
	now         func() time.Time
	lastAttempt time.Time

	stopChan  chan struct{}
	isRunning bool
	mu        sync.Mutex
}

// NewScheduler creates a Scheduler from the scheduler configuration.
func NewScheduler(service *Service, cfg config.SchedulerConfig, logger zerolog.Logger) *Scheduler {
	cycle := time.Duration(cfg.CycleMinutes) * time.Minute
	if cycle <= 0 {
		cycle = time.Duration(config.DefaultSchedulerCycleMinutes) * time.Minute
	}
	return &Scheduler{
		service:    service,
		cycle:      cycle,
		maxRetries: cfg.RetryAttempts,
		retryDelay: time.Duration(cfg.RetryDelaySeconds) * time.Second,
		logger:     logger.With().Str("module", "Scheduler").Logger(),
		now:        time.Now,
	}
}

// SetGate installs a gate consulted before every timer pass attempt.
// A denied attempt counts as a failed attempt and is retried after the retry delay.
func (s *Scheduler) SetGate(gate PassGate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate = gate
}

// Start runs the scheduler loop until ctx is cancelled or Stop is called.
// A pass runs immediately when none has completed within the last cycle.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return errors.New("scheduler is already running")
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	stop := s.stopChan
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
	}()

	s.logger.Info().Dur("cycle", s.cycle).Int("retry_attempts", s.maxRetries).Msg("Starting reconciliation scheduler")

	for {
		next := s.calculateNextPassTime(ctx)
		s.logger.Info().Time("next_pass_time", next).Msg("Next pass scheduled")

		timer := time.NewTimer(next.Sub(s.now()))
		select {
		case <-timer.C:
			s.runPassWithRetries(ctx, stop)
		case <-stop:
			timer.Stop()
			s.logger.Info().Msg("Received stop signal, exiting scheduler loop")
			return nil
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info().Msg("Context cancelled, exiting scheduler loop")
			return nil
		}
	}
}

// Stop signals a running scheduler to exit. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning || s.stopChan == nil {
		return
	}
	s.logger.Info().Msg("Stopping scheduler")
	close(s.stopChan)
	s.stopChan = nil
}

// IsRunning reports whether Start is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// calculateNextPassTime schedules one cycle after the latest completed pass or the
// latest attempt made by this scheduler, whichever is later.
func (s *Scheduler) calculateNextPassTime(ctx context.Context) time.Time {
	now := s.now()

	last := s.lastAttempt
	lastPass, err := s.service.LastPassTime(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read last pass time")
		if last.IsZero() {
			return now.Add(s.cycle)
		}
	}
	if lastPass != nil && lastPass.After(last) {
		last = *lastPass
	}

	if last.IsZero() {
		return now
	}
	next := last.Add(s.cycle)
	if next.Before(now) {
		return now
	}
	return next
}

func (s *Scheduler) runPassWithRetries(ctx context.Context, stop <-chan struct{}) {
	s.lastAttempt = s.now()

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			s.logger.Info().Int("attempt", attempt).Int("max_retries", s.maxRetries).Dur("delay", s.retryDelay).Msg("Retrying pass after delay")
			select {
			case <-time.After(s.retryDelay):
			case <-stop:
				return
			case <-ctx.Done():
				return
			}
		}

		err := s.admit(ctx)
		if err == nil {
			_, err = s.service.RunPass(ctx, models.PassSourceTimer)
		}
		if err == nil {
			return
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.logger.Info().Err(err).Msg("Pass interrupted by cancellation, no further retries")
			return
		}
		s.logger.Error().Err(err).Int("attempt", attempt+1).Int("total_attempts", s.maxRetries+1).Msg("Pass failed")
	}
	s.logger.Error().Msg("All retry attempts exhausted, waiting for next cycle")
}

func (s *Scheduler) admit(ctx context.Context) error {
	s.mu.Lock()
	gate := s.gate
	s.mu.Unlock()

	if gate == nil {
		return nil
	}
	return gate.Admit(ctx)
}

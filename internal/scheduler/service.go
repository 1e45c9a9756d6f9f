package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/aleister1102/expirywatch/internal/datastore"
	"github.com/aleister1102/expirywatch/internal/metrics"
	"github.com/aleister1102/expirywatch/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PassHistory records the lifecycle of reconciliation passes.
type PassHistory interface {
	RecordPassStart(ctx context.Context, passID string, source models.PassSource, startTime time.Time) (int64, error)
	UpdatePassCompletion(ctx context.Context, dbID int64, endTime time.Time, status string, result models.PassResult, logSummary string) error
	GetLastPassTime(ctx context.Context) (*time.Time, error)
}

const historyWriteTimeout = 10 * time.Second

// Service is the single entry point used by both the timer and the on-demand trigger.
type Service struct {
	runner  *Runner
	history PassHistory
	clock   models.Clock
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewService creates a Service. history may be nil; clock defaults to time.Now.
func NewService(runner *Runner, history PassHistory, clock models.Clock, m *metrics.Metrics, logger zerolog.Logger) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		runner:  runner,
		history: history,
		clock:   clock,
		metrics: m,
		logger:  logger.With().Str("module", "PassService").Logger(),
	}
}

// RunPass executes one reconciliation pass and records it in the pass history.
func (s *Service) RunPass(ctx context.Context, source models.PassSource) (models.PassResult, error) {
	start := s.clock()
	passID := uuid.NewString()
	logger := s.logger.With().Str("pass_id", passID).Str("source", string(source)).Logger()
	logger.Info().Msg("Starting reconciliation pass")

	var dbID int64
	if s.history != nil {
		id, err := s.history.RecordPassStart(ctx, passID, source, start)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to record pass start")
		} else {
			dbID = id
		}
	}

	result, runErr := s.runner.RunOnce(ctx, start)
	end := s.clock()

	status := datastore.PassStatusCompleted
	summary := fmt.Sprintf("checked %d of %d, refreshed %d, %d warnings, %d expired",
		result.Checked, result.Total, result.Refreshed, result.Warnings, result.Expired)
	if runErr != nil {
		status = datastore.PassStatusFailed
		summary = runErr.Error()
	}

	if dbID > 0 {
		hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyWriteTimeout)
		if err := s.history.UpdatePassCompletion(hctx, dbID, end, status, result, summary); err != nil {
			logger.Warn().Err(err).Msg("Failed to record pass completion")
		}
		cancel()
	}
	s.metrics.ObservePass(string(source), status, end.Sub(start))

	if runErr != nil {
		logger.Error().Err(runErr).Int("checked", result.Checked).Msg("Reconciliation pass failed")
		return result, runErr
	}
	logger.Info().Int("checked", result.Checked).Dur("duration", end.Sub(start)).Msg("Reconciliation pass completed")
	return result, nil
}

// CheckDomain refreshes a single auto-mode domain immediately.
// It returns nil, nil when the resolver has no expiry for the domain. Lookup
// failures are logged against the domain and returned as *models.ResolverError.
func (s *Service) CheckDomain(ctx context.Context, id int64) (*time.Time, error) {
	r := s.runner
	d, err := r.store.GetDomain(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Mode != models.DomainModeAuto {
		return nil, ErrManualDomain
	}

	now := s.clock()
	expiry, err := r.resolve(ctx, d.Name)
	if err != nil {
		if logErr := r.appendLog(ctx, d.ID, "check failed: "+causeOf(err)); logErr != nil {
			return nil, logErr
		}
		return nil, err
	}
	if expiry == nil {
		return nil, nil
	}

	if err := r.store.UpdateDomain(ctx, d.ID, models.DomainUpdate{ExpireAt: expiry, LastCheck: &now}); err != nil {
		return nil, err
	}
	s.logger.Info().Str("domain", d.Name).Str("expire_at", models.FormatDateOptional(expiry)).Msg("Domain checked on demand")
	return expiry, nil
}

// LastPassTime returns the start time of the latest completed pass, or nil.
func (s *Service) LastPassTime(ctx context.Context) (*time.Time, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.GetLastPassTime(ctx)
}

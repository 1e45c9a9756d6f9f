package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aleister1102/expirywatch/internal/metrics"
	"github.com/aleister1102/expirywatch/internal/models"
	"github.com/aleister1102/expirywatch/internal/notifier"
	"github.com/rs/zerolog"
)

// AlertDispatcher fans an alert message out to notification channels.
type AlertDispatcher interface {
	Dispatch(ctx context.Context, message string) ([]notifier.Outcome, error)
}

// RunnerConfig holds the tunables of a reconciliation pass.
type RunnerConfig struct {
	WarnThresholdDays        int
	DefaultCheckIntervalDays int
	ResolverTimeout          time.Duration
}

// Runner performs reconciliation passes over every tracked domain.
type Runner struct {
	store      models.DomainStore
	resolver   models.ExpiryResolver
	dispatcher AlertDispatcher
	cfg        RunnerConfig
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewRunner creates a Runner.
func NewRunner(store models.DomainStore, resolver models.ExpiryResolver, dispatcher AlertDispatcher, cfg RunnerConfig, m *metrics.Metrics, logger zerolog.Logger) *Runner {
	return &Runner{
		store:      store,
		resolver:   resolver,
		dispatcher: dispatcher,
		cfg:        cfg,
		metrics:    m,
		logger:     logger.With().Str("module", "Runner").Logger(),
	}
}

// RunOnce reconciles every domain against now.
//
// Resolver and delivery failures are recorded in the log table and never stop the
// pass. A store failure aborts the pass and is returned with the counts gathered so
// far. Cancellation of ctx is observed between domains.
func (r *Runner) RunOnce(ctx context.Context, now time.Time) (models.PassResult, error) {
	var result models.PassResult

	domains, err := r.store.ListDomains(ctx)
	if err != nil {
		return result, err
	}
	result.Total = len(domains)

	for i := range domains {
		if err := ctx.Err(); err != nil {
			r.logger.Info().Int("processed", result.Checked).Int("total", result.Total).Msg("Pass cancelled")
			return result, err
		}
		if err := r.processDomain(ctx, &domains[i], now, &result); err != nil {
			return result, err
		}
		result.Checked++
	}

	r.logger.Info().
		Int("checked", result.Checked).
		Int("refreshed", result.Refreshed).
		Int("resolver_failures", result.ResolverFailures).
		Int("warnings", result.Warnings).
		Int("expired", result.Expired).
		Int("send_failures", result.SendFailures).
		Msg("Pass finished")
	return result, nil
}

func (r *Runner) processDomain(ctx context.Context, d *models.Domain, now time.Time, result *models.PassResult) error {
	logger := r.logger.With().Int64("domain_id", d.ID).Str("domain", d.Name).Logger()

	if d.CheckIntervalDays <= 0 && r.cfg.DefaultCheckIntervalDays > 0 {
		d.CheckIntervalDays = r.cfg.DefaultCheckIntervalDays
	}

	if ShouldRecheck(*d, now) {
		expiry, err := r.resolve(ctx, d.Name)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			result.ResolverFailures++
			logger.Warn().Err(err).Msg("Expiry lookup failed, keeping stored expiry")
			if err := r.appendLog(ctx, d.ID, "check failed: "+causeOf(err)); err != nil {
				return err
			}
		case expiry != nil:
			checkedAt := now
			if err := r.store.UpdateDomain(ctx, d.ID, models.DomainUpdate{ExpireAt: expiry, LastCheck: &checkedAt}); err != nil {
				return err
			}
			d.ExpireAt = expiry
			d.LastCheck = &checkedAt
			result.Refreshed++
			logger.Debug().Str("expire_at", models.FormatDateOptional(expiry)).Msg("Expiry refreshed")
		default:
			logger.Debug().Msg("Resolver returned no expiry")
		}
	}

	if d.ExpireAt == nil {
		return nil
	}
	return r.evaluate(ctx, d, now, result)
}

func (r *Runner) evaluate(ctx context.Context, d *models.Domain, now time.Time, result *models.PassResult) error {
	expireAt := *d.ExpireAt
	days := DaysRemaining(expireAt, now)

	var message, entry string
	classification := Classify(expireAt, now, r.cfg.WarnThresholdDays)
	switch classification {
	case ClassificationWarning:
		message = notifier.FormatWarningMessage(d.Name, days, expireAt)
		entry = fmt.Sprintf("notify: %d days remaining", days)
		result.Warnings++
	case ClassificationExpired:
		message = notifier.FormatExpiredMessage(d.Name, expireAt)
		entry = "notify: expired"
		result.Expired++
	default:
		return nil
	}
	r.metrics.IncAlert(string(classification))

	outcomes, err := r.dispatcher.Dispatch(ctx, message)
	if err != nil {
		return err
	}
	if err := r.appendLog(ctx, d.ID, entry); err != nil {
		return err
	}

	for _, o := range outcomes {
		if o.OK() {
			continue
		}
		result.SendFailures++
		line := fmt.Sprintf("send failed via %s#%d: %s", o.Type, o.ChannelID, causeOf(o.Err))
		if err := r.appendLog(ctx, d.ID, line); err != nil {
			return err
		}
	}
	return nil
}

// resolve calls the resolver under the configured timeout. Errors are always *models.ResolverError.
func (r *Runner) resolve(ctx context.Context, name string) (*time.Time, error) {
	if r.cfg.ResolverTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.ResolverTimeout)
		defer cancel()
	}

	expiry, err := r.resolver.FetchExpiry(ctx, name)
	if err != nil {
		r.metrics.IncResolverLookup("failed")
		var re *models.ResolverError
		if !errors.As(err, &re) {
			err = &models.ResolverError{Domain: name, Err: err}
		}
		return nil, err
	}
	if expiry == nil {
		r.metrics.IncResolverLookup("empty")
		return nil, nil
	}
	r.metrics.IncResolverLookup("refreshed")
	return expiry, nil
}

func (r *Runner) appendLog(ctx context.Context, domainID int64, message string) error {
	id := domainID
	return r.store.AppendLog(ctx, &id, message)
}

// causeOf strips the resolver/send envelope so log lines carry only the underlying cause.
func causeOf(err error) string {
	var re *models.ResolverError
	if errors.As(err, &re) && re.Err != nil {
		return re.Err.Error()
	}
	var se *models.SendError
	if errors.As(err, &se) && se.Err != nil {
		return se.Err.Error()
	}
	return err.Error()
}

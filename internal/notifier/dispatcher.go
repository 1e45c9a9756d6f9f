package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aleister1102/expirywatch/internal/metrics"
	"github.com/aleister1102/expirywatch/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ChannelSource lists the channels a message is fanned out to.
type ChannelSource interface {
	ListEnabledChannels(ctx context.Context) ([]models.NotificationChannel, error)
}

// Outcome is the delivery result for one channel. Err is a *models.SendError or nil.
type Outcome struct {
	ChannelID int64
	Type      models.ChannelType
	Err       error
}

// OK reports whether the delivery succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Dispatcher fans a message out to every enabled channel concurrently.
type Dispatcher struct {
	channels    ChannelSource
	registry    *Registry
	sendTimeout time.Duration
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewDispatcher creates a Dispatcher. A non-positive sendTimeout disables the per-send timeout.
func NewDispatcher(channels ChannelSource, registry *Registry, sendTimeout time.Duration, m *metrics.Metrics, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		channels:    channels,
		registry:    registry,
		sendTimeout: sendTimeout,
		metrics:     m,
		logger:      logger.With().Str("module", "Dispatcher").Logger(),
	}
}

// Dispatch sends message to all enabled channels and returns one outcome per channel.
// A failure on one channel never prevents delivery on the others. The returned error
// is non-nil only when the channel list could not be loaded, in which case nothing was sent.
func (d *Dispatcher) Dispatch(ctx context.Context, message string) ([]Outcome, error) {
	channels, err := d.channels.ListEnabledChannels(ctx)
	if err != nil {
		return nil, err
	}
	if len(channels) == 0 {
		d.logger.Debug().Msg("No enabled channels, nothing to dispatch")
		return nil, nil
	}

	outcomes := make([]Outcome, len(channels))
	var g errgroup.Group
	for i, ch := range channels {
		i, ch := i, ch
		g.Go(func() error {
			outcomes[i] = d.deliver(ctx, ch, message)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, o := range outcomes {
		if !o.OK() {
			failed++
		}
	}
	d.logger.Info().Int("channels", len(outcomes)).Int("failed", failed).Msg("Dispatch finished")
	return outcomes, nil
}

func (d *Dispatcher) deliver(ctx context.Context, ch models.NotificationChannel, message string) Outcome {
	out := Outcome{ChannelID: ch.ID, Type: ch.Type}

	err := d.send(ctx, ch, message)
	if err != nil {
		out.Err = &models.SendError{ChannelID: ch.ID, Type: ch.Type, Err: err}
		d.logger.Warn().Err(err).Int64("channel_id", ch.ID).Str("type", string(ch.Type)).Msg("Channel delivery failed")
	}
	d.metrics.IncNotification(string(ch.Type), err == nil)
	return out
}

func (d *Dispatcher) send(ctx context.Context, ch models.NotificationChannel, message string) (err error) {
	if ch.ConfigErr != nil {
		return ch.ConfigErr
	}
	if ch.Config == nil {
		return errors.New("channel has no configuration")
	}
	sender, ok := d.registry.Lookup(ch.Type)
	if !ok {
		return fmt.Errorf("no sender registered for channel type %q", ch.Type)
	}

	if d.sendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.sendTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sender panicked: %v", r)
		}
	}()
	return sender.Send(ctx, ch.Config, message)
}

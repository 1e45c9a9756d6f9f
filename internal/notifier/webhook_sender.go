package notifier

import (
	"context"
	"time"

	"github.com/aleister1102/expirywatch/internal/httpclient"
	"github.com/aleister1102/expirywatch/internal/models"
	"github.com/rs/zerolog"
)

// WebhookSource is the source field of every webhook payload.
const WebhookSource = "expirywatch"

// WebhookSender posts a JSON payload to an arbitrary HTTP endpoint.
type WebhookSender struct {
	client *httpclient.HTTPClient
	logger zerolog.Logger
	now    func() time.Time
}

// NewWebhookSender creates a WebhookSender.
func NewWebhookSender(client *httpclient.HTTPClient, logger zerolog.Logger) *WebhookSender {
	return &WebhookSender{
		client: client,
		logger: logger.With().Str("module", "WebhookSender").Logger(),
		now:    time.Now,
	}
}

// Send posts message to the configured URL.
func (s *WebhookSender) Send(ctx context.Context, cfg models.ChannelConfig, message string) error {
	hook, ok := cfg.(models.WebhookConfig)
	if !ok {
		return unexpectedConfig(models.ChannelTypeWebhook, cfg)
	}

	payload := models.WebhookPayload{
		Text:      message,
		Source:    WebhookSource,
		Timestamp: s.now().UTC(),
	}
	if _, err := s.client.PostJSON(ctx, hook.URL, payload, nil); err != nil {
		return err
	}

	s.logger.Debug().Str("url", hook.URL).Msg("Webhook delivered")
	return nil
}

package notifier

import (
	"context"
	"fmt"
	"sync"

	"github.com/aleister1102/expirywatch/internal/config"
	"github.com/aleister1102/expirywatch/internal/httpclient"
	"github.com/aleister1102/expirywatch/internal/models"
	"github.com/rs/zerolog"
)

// Sender delivers a rendered message through one channel type.
type Sender interface {
	Send(ctx context.Context, cfg models.ChannelConfig, message string) error
}

// Registry maps channel types to senders.
type Registry struct {
	mu      sync.RWMutex
	senders map[models.ChannelType]Sender
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{senders: make(map[models.ChannelType]Sender)}
}

// NewDefaultRegistry creates a registry with the Telegram, email and webhook senders.
func NewDefaultRegistry(cfg config.NotificationConfig, client *httpclient.HTTPClient, logger zerolog.Logger) *Registry {
	r := NewRegistry()
	r.Register(models.ChannelTypeTelegram, NewTelegramSender(client, cfg.TelegramAPIBaseURL, logger))
	r.Register(models.ChannelTypeEmail, NewEmailSender(client, cfg, logger))
	r.Register(models.ChannelTypeWebhook, NewWebhookSender(client, logger))
	return r
}

// Register adds or replaces the sender for a channel type.
func (r *Registry) Register(channelType models.ChannelType, sender Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.senders[channelType] = sender
}

// Lookup returns the sender for a channel type.
func (r *Registry) Lookup(channelType models.ChannelType) (Sender, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.senders[channelType]
	return s, ok
}

// NewHTTPClient builds the HTTP client shared by all senders.
func NewHTTPClient(cfg config.NotificationConfig, logger zerolog.Logger) (*httpclient.HTTPClient, error) {
	client, err := httpclient.NewHTTPClientBuilder(logger.With().Str("module", "NotifierHTTP").Logger()).
		WithTimeout(cfg.SendTimeout()).
		WithFollowRedirects(false).
		WithMaxBodySize(1 << 20).
		Build()
	if err != nil {
		return nil, fmt.Errorf("building notifier HTTP client: %w", err)
	}
	return client, nil
}

func unexpectedConfig(want models.ChannelType, got models.ChannelConfig) error {
	return fmt.Errorf("expected %s config, got %T", want, got)
}

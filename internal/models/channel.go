package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ChannelType is the type tag of a notification channel.
type ChannelType string

const (
	ChannelTypeTelegram ChannelType = "tg"
	ChannelTypeEmail    ChannelType = "email"
	ChannelTypeWebhook  ChannelType = "webhook"
)

// Email providers supported by the email channel.
const (
	EmailProviderSendGrid = "sendgrid"
	EmailProviderMailgun  = "mailgun"
)

// ChannelConfig is the type-specific configuration of a notification channel.
type ChannelConfig interface {
	ChannelType() ChannelType
}

// TelegramConfig configures delivery through a Telegram bot.
type TelegramConfig struct {
	Token  string     `json:"token" yaml:"token" validate:"required"`
	ChatID FlexString `json:"chat_id" yaml:"chat_id" validate:"required"`
}

// FlexString decodes from either a JSON string or a bare JSON number.
// Telegram chat ids are commonly stored as numbers.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

func (TelegramConfig) ChannelType() ChannelType { return ChannelTypeTelegram }

// EmailConfig configures delivery through an email provider HTTP API.
// Domain is only used by mailgun.
type EmailConfig struct {
	Provider string `json:"provider" yaml:"provider" validate:"required,oneof=sendgrid mailgun"`
	APIKey   string `json:"api_key" yaml:"api_key" validate:"required"`
	From     string `json:"from" yaml:"from" validate:"required"`
	To       string `json:"to" yaml:"to" validate:"required"`
	Domain   string `json:"domain,omitempty" yaml:"domain,omitempty" validate:"required_if=Provider mailgun"`
}

func (EmailConfig) ChannelType() ChannelType { return ChannelTypeEmail }

// WebhookConfig configures delivery to a generic HTTP callback.
type WebhookConfig struct {
	URL string `json:"url" yaml:"url" validate:"required,url"`
}

func (WebhookConfig) ChannelType() ChannelType { return ChannelTypeWebhook }

// NotificationChannel is a configured destination for alert messages.
// Config is nil and ConfigErr is set when the stored payload does not match Type.
type NotificationChannel struct {
	ID        int64
	Type      ChannelType
	Config    ChannelConfig
	ConfigErr error
	Enabled   bool
}

var channelValidator = validator.New()

// ParseChannelConfig decodes and validates a raw JSON payload for the given channel type.
func ParseChannelConfig(channelType ChannelType, raw []byte) (ChannelConfig, error) {
	var cfg ChannelConfig
	switch channelType {
	case ChannelTypeTelegram:
		var c TelegramConfig
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decoding %s config: %w", channelType, err)
		}
		cfg = c
	case ChannelTypeEmail:
		var c EmailConfig
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decoding %s config: %w", channelType, err)
		}
		c.Provider = strings.ToLower(c.Provider)
		cfg = c
	case ChannelTypeWebhook:
		var c WebhookConfig
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decoding %s config: %w", channelType, err)
		}
		cfg = c
	default:
		return nil, fmt.Errorf("unknown channel type %q", channelType)
	}

	if err := channelValidator.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", channelType, err)
	}
	return cfg, nil
}

// MarshalChannelConfig encodes a channel config for storage.
func MarshalChannelConfig(cfg ChannelConfig) ([]byte, error) {
	if cfg == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(cfg)
}

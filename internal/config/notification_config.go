package config

import "time"

// NotificationConfig defines configuration for channel delivery
type NotificationConfig struct {
	SendTimeoutSeconds int    `json:"send_timeout_seconds,omitempty" yaml:"send_timeout_seconds,omitempty" validate:"min=1"`
	TelegramAPIBaseURL string `json:"telegram_api_base_url,omitempty" yaml:"telegram_api_base_url,omitempty" validate:"required,url"`
	SendGridAPIURL     string `json:"sendgrid_api_url,omitempty" yaml:"sendgrid_api_url,omitempty" validate:"required,url"`
	MailgunAPIBaseURL  string `json:"mailgun_api_base_url,omitempty" yaml:"mailgun_api_base_url,omitempty" validate:"required,url"`
	EmailSubject       string `json:"email_subject,omitempty" yaml:"email_subject,omitempty"`
}

// NewDefaultNotificationConfig creates default notification configuration
func NewDefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		SendTimeoutSeconds: DefaultNotificationSendTimeoutSeconds,
		TelegramAPIBaseURL: DefaultTelegramAPIBaseURL,
		SendGridAPIURL:     DefaultSendGridAPIURL,
		MailgunAPIBaseURL:  DefaultMailgunAPIBaseURL,
		EmailSubject:       DefaultEmailSubject,
	}
}

// SendTimeout returns the per-send delivery timeout.
func (c NotificationConfig) SendTimeout() time.Duration {
	return time.Duration(c.SendTimeoutSeconds) * time.Second
}

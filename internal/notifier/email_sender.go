package notifier

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/aleister1102/expirywatch/internal/config"
	"github.com/aleister1102/expirywatch/internal/httpclient"
	"github.com/aleister1102/expirywatch/internal/models"
	"github.com/rs/zerolog"
)

// EmailSender delivers plain-text email through the SendGrid or Mailgun HTTP APIs.
type EmailSender struct {
	client         *httpclient.HTTPClient
	sendGridURL    string
	mailgunBaseURL string
	subject        string
	logger         zerolog.Logger
}

// NewEmailSender creates an EmailSender from the notification configuration.
func NewEmailSender(client *httpclient.HTTPClient, cfg config.NotificationConfig, logger zerolog.Logger) *EmailSender {
	subject := cfg.EmailSubject
	if subject == "" {
		subject = config.DefaultEmailSubject
	}
	return &EmailSender{
		client:         client,
		sendGridURL:    cfg.SendGridAPIURL,
		mailgunBaseURL: strings.TrimRight(cfg.MailgunAPIBaseURL, "/"),
		subject:        subject,
		logger:         logger.With().Str("module", "EmailSender").Logger(),
	}
}

// Send delivers message using the provider named in cfg.
func (s *EmailSender) Send(ctx context.Context, cfg models.ChannelConfig, message string) error {
	email, ok := cfg.(models.EmailConfig)
	if !ok {
		return unexpectedConfig(models.ChannelTypeEmail, cfg)
	}

	var err error
	switch strings.ToLower(email.Provider) {
	case models.EmailProviderSendGrid:
		err = s.sendViaSendGrid(ctx, email, message)
	case models.EmailProviderMailgun:
		err = s.sendViaMailgun(ctx, email, message)
	default:
		return fmt.Errorf("unsupported email provider %q", email.Provider)
	}
	if err != nil {
		return redact(err, email.APIKey)
	}

	s.logger.Debug().Str("provider", email.Provider).Str("to", email.To).Msg("Email sent")
	return nil
}

func (s *EmailSender) sendViaSendGrid(ctx context.Context, email models.EmailConfig, message string) error {
	payload := models.SendGridMailPayload{
		Personalizations: []models.SendGridPersonalization{
			{To: []models.SendGridAddress{{Email: email.To}}},
		},
		From:    models.SendGridAddress{Email: email.From},
		Subject: s.subject,
		Content: []models.SendGridContent{{Type: "text/plain", Value: message}},
	}

	_, err := s.client.PostJSON(ctx, s.sendGridURL, payload, map[string]string{
		"Authorization": "Bearer " + email.APIKey,
	})
	return err
}

func (s *EmailSender) sendViaMailgun(ctx context.Context, email models.EmailConfig, message string) error {
	form := url.Values{}
	form.Set("from", email.From)
	form.Set("to", email.To)
	form.Set("subject", s.subject)
	form.Set("text", message)

	auth := base64.StdEncoding.EncodeToString([]byte("api:" + email.APIKey))
	endpoint := fmt.Sprintf("%s/%s/messages", s.mailgunBaseURL, email.Domain)
	_, err := s.client.PostForm(ctx, endpoint, form, map[string]string{"Authorization": "Basic " + auth})
	if err != nil {
		return redact(err, auth)
	}
	return nil
}

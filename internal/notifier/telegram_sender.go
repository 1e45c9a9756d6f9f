package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aleister1102/expirywatch/internal/httpclient"
	"github.com/aleister1102/expirywatch/internal/models"
	"github.com/rs/zerolog"
)

// TelegramSender posts messages through the Telegram Bot API.
type TelegramSender struct {
	client  *httpclient.HTTPClient
	baseURL string
	logger  zerolog.Logger
}

// NewTelegramSender creates a TelegramSender. baseURL is normally https://api.telegram.org.
func NewTelegramSender(client *httpclient.HTTPClient, baseURL string, logger zerolog.Logger) *TelegramSender {
	return &TelegramSender{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.With().Str("module", "TelegramSender").Logger(),
	}
}

// Send delivers message to the chat configured in cfg.
func (s *TelegramSender) Send(ctx context.Context, cfg models.ChannelConfig, message string) error {
	tg, ok := cfg.(models.TelegramConfig)
	if !ok {
		return unexpectedConfig(models.ChannelTypeTelegram, cfg)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, tg.Token)
	payload := models.TelegramMessagePayload{
		ChatID:                string(tg.ChatID),
		Text:                  message,
		DisableWebPagePreview: true,
	}

	resp, err := s.client.PostJSON(ctx, endpoint, payload, nil)
	if err != nil {
		return redact(err, tg.Token)
	}

	var tr models.TelegramResponse
	if err := json.Unmarshal(resp.Body, &tr); err == nil && !tr.OK {
		return fmt.Errorf("telegram API error %d: %s", tr.ErrorCode, tr.Description)
	}

	s.logger.Debug().Str("chat_id", string(tg.ChatID)).Msg("Telegram message sent")
	return nil
}

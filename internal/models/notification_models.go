package models

import "time"

// TelegramMessagePayload is the JSON body sent to the Telegram Bot API sendMessage method.
type TelegramMessagePayload struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview,omitempty"`
}

// TelegramResponse is the envelope returned by the Telegram Bot API.
type TelegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
	ErrorCode   int    `json:"error_code,omitempty"`
}

// SendGridMailPayload is the JSON body for the SendGrid v3 mail/send endpoint.
type SendGridMailPayload struct {
	Personalizations []SendGridPersonalization `json:"personalizations"`
	From             SendGridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []SendGridContent         `json:"content"`
}

// SendGridPersonalization holds the recipients of a SendGrid message.
type SendGridPersonalization struct {
	To []SendGridAddress `json:"to"`
}

// SendGridAddress is an email address in a SendGrid payload.
type SendGridAddress struct {
	Email string `json:"email"`
}

// SendGridContent is one body part of a SendGrid message.
type SendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// WebhookPayload is the JSON body posted to generic webhook channels.
type WebhookPayload struct {
	Text      string    `json:"text"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

package datastore

import (
	"context"

	"github.com/aleister1102/expirywatch/internal/models"
)

type channelRow struct {
	ID      int64  `db:"id"`
	Type    string `db:"type"`
	Config  string `db:"config"`
	Enabled bool   `db:"enabled"`
}

// ListEnabledChannels returns every enabled channel with its configuration parsed.
// A channel whose stored configuration is invalid is returned with ConfigErr set.
func (s *SQLiteStore) ListEnabledChannels(ctx context.Context) ([]models.NotificationChannel, error) {
	var rows []channelRow
	err := s.db.SelectContext(ctx, &rows, "SELECT id, type, config, enabled FROM notify_channels WHERE enabled = 1 ORDER BY id")
	if err != nil {
		return nil, storeErr("list enabled channels", err)
	}

	channels := make([]models.NotificationChannel, 0, len(rows))
	for _, r := range rows {
		ch := models.NotificationChannel{
			ID:      r.ID,
			Type:    models.ChannelType(r.Type),
			Enabled: r.Enabled,
		}
		cfg, err := models.ParseChannelConfig(ch.Type, []byte(r.Config))
		if err != nil {
			s.logger.Warn().Err(err).Int64("channel_id", r.ID).Str("type", r.Type).Msg("Channel has invalid configuration")
			ch.ConfigErr = err
		} else {
			ch.Config = cfg
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

// UpsertChannel stores a channel with a raw JSON configuration.
// An identical type and configuration updates the enabled flag of the existing row.
func (s *SQLiteStore) UpsertChannel(ctx context.Context, channelType models.ChannelType, rawConfig []byte, enabled bool) (int64, error) {
	if channelType == "" {
		return 0, NewValidationError("type", channelType, "channel type must not be empty")
	}
	if len(rawConfig) == 0 {
		rawConfig = []byte("{}")
	}

	var id int64
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO notify_channels (type, config, enabled) VALUES (?, ?, ?)
		ON CONFLICT(type, config) DO UPDATE SET enabled = excluded.enabled
		RETURNING id`,
		string(channelType), string(rawConfig), enabled,
	).Scan(&id)
	if err != nil {
		return 0, storeErr("upsert channel", err)
	}
	return id, nil
}

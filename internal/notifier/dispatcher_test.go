package notifier

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aleister1102/expirywatch/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChannels struct {
	channels []models.NotificationChannel
	err      error
}

func (s *stubChannels) ListEnabledChannels(ctx context.Context) ([]models.NotificationChannel, error) {
	return s.channels, s.err
}

type recordingSender struct {
	mu       sync.Mutex
	messages []string
	err      error
	block    bool
	calls    int32
}

func (s *recordingSender) Send(ctx context.Context, cfg models.ChannelConfig, message string) error {
	atomic.AddInt32(&s.calls, 1)
	if s.block {
		<-ctx.Done()
		return ctx.Err()
	}
	s.mu.Lock()
	s.messages = append(s.messages, message)
	s.mu.Unlock()
	return s.err
}

func tgChannel(id int64) models.NotificationChannel {
	return models.NotificationChannel{ID: id, Type: models.ChannelTypeTelegram, Config: models.TelegramConfig{Token: "t", ChatID: "1"}, Enabled: true}
}

func hookChannel(id int64) models.NotificationChannel {
	return models.NotificationChannel{ID: id, Type: models.ChannelTypeWebhook, Config: models.WebhookConfig{URL: "http://example.com"}, Enabled: true}
}

func TestDispatch_AllSucceed(t *testing.T) {
	tg := &recordingSender{}
	hook := &recordingSender{}
	registry := NewRegistry()
	registry.Register(models.ChannelTypeTelegram, tg)
	registry.Register(models.ChannelTypeWebhook, hook)

	channels := &stubChannels{channels: []models.NotificationChannel{tgChannel(1), hookChannel(2), tgChannel(3)}}
	d := NewDispatcher(channels, registry, time.Second, nil, zerolog.Nop())

	outcomes, err := d.Dispatch(context.Background(), "msg")
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	for _, o := range outcomes {
		assert.True(t, o.OK())
	}
	assert.Equal(t, int64(1), outcomes[0].ChannelID)
	assert.Equal(t, int64(2), outcomes[1].ChannelID)
	assert.Equal(t, []string{"msg", "msg"}, tg.messages)
	assert.Equal(t, []string{"msg"}, hook.messages)
}

func TestDispatch_FailureIsolation(t *testing.T) {
	tg := &recordingSender{err: errors.New("bot blocked")}
	hook := &recordingSender{}
	registry := NewRegistry()
	registry.Register(models.ChannelTypeTelegram, tg)
	registry.Register(models.ChannelTypeWebhook, hook)

	bad := models.NotificationChannel{ID: 9, Type: "pager", ConfigErr: errors.New(`unknown channel type "pager"`), Enabled: true}
	channels := &stubChannels{channels: []models.NotificationChannel{tgChannel(1), hookChannel(2), bad}}
	d := NewDispatcher(channels, registry, time.Second, nil, zerolog.Nop())

	outcomes, err := d.Dispatch(context.Background(), "msg")
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	var sendErr *models.SendError
	require.ErrorAs(t, outcomes[0].Err, &sendErr)
	assert.Equal(t, int64(1), sendErr.ChannelID)
	assert.Equal(t, models.ChannelTypeTelegram, sendErr.Type)
	assert.Contains(t, sendErr.Error(), "bot blocked")

	assert.True(t, outcomes[1].OK())
	assert.Equal(t, []string{"msg"}, hook.messages)

	require.ErrorAs(t, outcomes[2].Err, &sendErr)
	assert.Equal(t, int64(9), sendErr.ChannelID)
}

func TestDispatch_UnregisteredType(t *testing.T) {
	channels := &stubChannels{channels: []models.NotificationChannel{hookChannel(4)}}
	d := NewDispatcher(channels, NewRegistry(), time.Second, nil, zerolog.Nop())

	outcomes, err := d.Dispatch(context.Background(), "msg")
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.ErrorContains(t, outcomes[0].Err, "no sender registered")
}

func TestDispatch_PerSendTimeout(t *testing.T) {
	slow := &recordingSender{block: true}
	fast := &recordingSender{}
	registry := NewRegistry()
	registry.Register(models.ChannelTypeTelegram, slow)
	registry.Register(models.ChannelTypeWebhook, fast)

	channels := &stubChannels{channels: []models.NotificationChannel{tgChannel(1), hookChannel(2)}}
	d := NewDispatcher(channels, registry, 50*time.Millisecond, nil, zerolog.Nop())

	start := time.Now()
	outcomes, err := d.Dispatch(context.Background(), "msg")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)

	assert.ErrorIs(t, outcomes[0].Err, context.DeadlineExceeded)
	assert.True(t, outcomes[1].OK())
}

func TestDispatch_StoreFailureSendsNothing(t *testing.T) {
	sender := &recordingSender{}
	registry := NewRegistry()
	registry.Register(models.ChannelTypeTelegram, sender)

	storeErr := &models.StoreError{Op: "list channels", Err: errors.New("disk gone")}
	d := NewDispatcher(&stubChannels{err: storeErr}, registry, time.Second, nil, zerolog.Nop())

	outcomes, err := d.Dispatch(context.Background(), "msg")
	assert.Nil(t, outcomes)
	assert.True(t, models.IsStoreError(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(&sender.calls))
}

func TestDispatch_NoChannels(t *testing.T) {
	d := NewDispatcher(&stubChannels{}, NewRegistry(), time.Second, nil, zerolog.Nop())
	outcomes, err := d.Dispatch(context.Background(), "msg")
	require.NoError(t, err)
	assert.Empty(t, outcomes)
}

package httpclient

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientBuilder(t *testing.T) {
	client, err := NewHTTPClientBuilder(zerolog.Nop()).
		WithTimeout(15 * time.Second).
		WithUserAgent("test-agent").
		WithFollowRedirects(false).
		WithHeader("X-Env", "test").
		WithMaxBodySize(64).
		Build()

	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, client.config.Timeout)
	assert.Equal(t, "test-agent", client.config.UserAgent)
	assert.False(t, client.config.FollowRedirects)
	assert.Equal(t, "test", client.config.Headers["X-Env"])
	assert.Equal(t, int64(64), client.config.MaxBodySize)
	assert.Nil(t, client.retrier)
}

func TestHTTPClientBuilder_KeepsDefaultsForZeroValues(t *testing.T) {
	client, err := NewHTTPClientBuilder(zerolog.Nop()).WithUserAgent("").WithTimeout(0).Build()
	require.NoError(t, err)

	defaults := DefaultHTTPClientConfig()
	assert.Equal(t, defaults.Timeout, client.config.Timeout)
	assert.Equal(t, defaults.UserAgent, client.config.UserAgent)
	assert.Equal(t, defaults.MaxRedirects, client.config.MaxRedirects)
}

func TestHTTPClientBuilder_WithRetry(t *testing.T) {
	client, err := NewHTTPClientBuilder(zerolog.Nop()).
		WithRetry(RetryPolicy{MaxRetries: 2, BaseDelay: time.Millisecond}).
		Build()
	require.NoError(t, err)
	require.NotNil(t, client.retrier)

	client, err = NewHTTPClientBuilder(zerolog.Nop()).
		WithRetry(RetryPolicy{MaxRetries: 0}).
		Build()
	require.NoError(t, err)
	assert.Nil(t, client.retrier)
}

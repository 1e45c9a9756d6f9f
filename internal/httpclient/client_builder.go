package httpclient

import (
	"time"

	"github.com/rs/zerolog"
)

// HTTPClientBuilder builds HTTP clients with fluent interface
type HTTPClientBuilder struct {
	config HTTPClientConfig
	retry  *RetryPolicy
	logger zerolog.Logger
}

func NewHTTPClientBuilder(logger zerolog.Logger) *HTTPClientBuilder {
	return &HTTPClientBuilder{
		config: DefaultHTTPClientConfig(),
		logger: logger,
	}
}

func (b *HTTPClientBuilder) WithTimeout(timeout time.Duration) *HTTPClientBuilder {
	if timeout > 0 {
		b.config.Timeout = timeout
	}
	return b
}

// WithUserAgent overrides the default User-Agent; empty keeps the default.
func (b *HTTPClientBuilder) WithUserAgent(userAgent string) *HTTPClientBuilder {
	if userAgent != "" {
		b.config.UserAgent = userAgent
	}
	return b
}

func (b *HTTPClientBuilder) WithHeader(key, value string) *HTTPClientBuilder {
	headers := make(map[string]string, len(b.config.Headers)+1)
	for k, v := range b.config.Headers {
		headers[k] = v
	}
	headers[key] = value
	b.config.Headers = headers
	return b
}

func (b *HTTPClientBuilder) WithFollowRedirects(follow bool) *HTTPClientBuilder {
	b.config.FollowRedirects = follow
	return b
}

func (b *HTTPClientBuilder) WithMaxBodySize(size int64) *HTTPClientBuilder {
	b.config.MaxBodySize = size
	return b
}

// WithRetry enables retries; a policy with MaxRetries <= 0 leaves them off.
func (b *HTTPClientBuilder) WithRetry(policy RetryPolicy) *HTTPClientBuilder {
	b.retry = &policy
	return b
}

func (b *HTTPClientBuilder) Build() (*HTTPClient, error) {
	client, err := NewHTTPClient(b.config, b.logger)
	if err != nil {
		return nil, err
	}
	if b.retry != nil && b.retry.MaxRetries > 0 {
		client.retrier = newRetrier(*b.retry, b.logger)
	}
	return client, nil
}

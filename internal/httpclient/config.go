package httpclient

import "time"

// HTTPClientConfig holds transport and request defaults for an HTTPClient.
type HTTPClientConfig struct {
	Timeout             time.Duration
	FollowRedirects     bool
	MaxRedirects        int
	UserAgent           string
	Headers             map[string]string // sent with every request unless overridden
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	TLSHandshakeTimeout time.Duration
	DialTimeout         time.Duration
	KeepAlive           time.Duration
	MaxBodySize         int64 // response bodies are truncated beyond this, 0 disables the cap
	EnableHTTP2         bool
}

func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:             30 * time.Second,
		FollowRedirects:     true,
		MaxRedirects:        10,
		UserAgent:           "expirywatch/1.0",
		Headers:             map[string]string{},
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialTimeout:         10 * time.Second,
		KeepAlive:           30 * time.Second,
		MaxBodySize:         4 << 20,
		EnableHTTP2:         true,
	}
}

package config

import "time"

// ResolverConfig defines configuration for the RDAP expiry resolver
type ResolverConfig struct {
	BootstrapURL   string      `json:"bootstrap_url,omitempty" yaml:"bootstrap_url,omitempty" validate:"required,url"`
	TimeoutSeconds int         `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" validate:"min=1"`
	UserAgent      string      `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	Retry          RetryConfig `json:"retry,omitempty" yaml:"retry,omitempty"`
}

// NewDefaultResolverConfig creates default resolver configuration
func NewDefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		BootstrapURL:   DefaultResolverBootstrapURL,
		TimeoutSeconds: DefaultResolverTimeoutSeconds,
		UserAgent:      DefaultResolverUserAgent,
		Retry:          NewDefaultRetryConfig(),
	}
}

// Timeout returns the per-lookup timeout.
func (c ResolverConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

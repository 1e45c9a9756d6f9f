package config

import "time"

// RetryConfig defines backoff for resolver HTTP requests
type RetryConfig struct {
	MaxRetries       int   `json:"max_retries" yaml:"max_retries" validate:"min=0,max=10"`
	BaseDelayMs      int   `json:"base_delay_ms,omitempty" yaml:"base_delay_ms,omitempty" validate:"omitempty,min=1,max=60000"`
	MaxDelayMs       int   `json:"max_delay_ms,omitempty" yaml:"max_delay_ms,omitempty" validate:"omitempty,min=1,max=300000"`
	EnableJitter     bool  `json:"enable_jitter" yaml:"enable_jitter"`
	RetryStatusCodes []int `json:"retry_status_codes,omitempty" yaml:"retry_status_codes,omitempty" validate:"omitempty,dive,min=100,max=599"`
}

// NewDefaultRetryConfig retries rate limiting and gateway errors twice.
func NewDefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:       2,
		BaseDelayMs:      500,
		MaxDelayMs:       5000,
		EnableJitter:     true,
		RetryStatusCodes: []int{429, 502, 503, 504},
	}
}

func (c RetryConfig) BaseDelay() time.Duration {
	return time.Duration(c.BaseDelayMs) * time.Millisecond
}

func (c RetryConfig) MaxDelay() time.Duration {
	return time.Duration(c.MaxDelayMs) * time.Millisecond
}

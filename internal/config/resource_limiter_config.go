package config

import "time"

// ResourceLimiterConfig defines host resource thresholds consulted before timer passes
type ResourceLimiterConfig struct {
	Enabled              bool    `json:"enabled" yaml:"enabled"`
	MaxMemoryMB          int64   `json:"max_memory_mb,omitempty" yaml:"max_memory_mb,omitempty" validate:"min=0"`
	MaxGoroutines        int     `json:"max_goroutines,omitempty" yaml:"max_goroutines,omitempty" validate:"min=0"`
	SystemMemThreshold   float64 `json:"system_mem_threshold,omitempty" yaml:"system_mem_threshold,omitempty" validate:"min=0,max=1"`
	CPUThreshold         float64 `json:"cpu_threshold,omitempty" yaml:"cpu_threshold,omitempty" validate:"min=0,max=1"`
	CheckIntervalSeconds int     `json:"check_interval_seconds,omitempty" yaml:"check_interval_seconds,omitempty" validate:"min=0"`
}

// NewDefaultResourceLimiterConfig creates default resource limiter configuration
func NewDefaultResourceLimiterConfig() ResourceLimiterConfig {
	return ResourceLimiterConfig{
		Enabled:              false,
		MaxMemoryMB:          512,
		MaxGoroutines:        5000,
		SystemMemThreshold:   0.95,
		CPUThreshold:         0.95,
		CheckIntervalSeconds: 60,
	}
}

// CheckInterval returns the background sampling interval.
func (c ResourceLimiterConfig) CheckInterval() time.Duration {
	return time.Duration(c.CheckIntervalSeconds) * time.Second
}

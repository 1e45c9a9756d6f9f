package config

// SchedulerConfig defines configuration for the reconciliation scheduler
type SchedulerConfig struct {
	CycleMinutes             int `json:"cycle_minutes,omitempty" yaml:"cycle_minutes,omitempty" validate:"min=1"`
	RetryAttempts            int `json:"retry_attempts,omitempty" yaml:"retry_attempts,omitempty" validate:"min=0"`
	RetryDelaySeconds        int `json:"retry_delay_seconds,omitempty" yaml:"retry_delay_seconds,omitempty" validate:"min=0"`
	WarnThresholdDays        int `json:"warn_threshold_days,omitempty" yaml:"warn_threshold_days,omitempty" validate:"min=0"`
	DefaultCheckIntervalDays int `json:"default_check_interval_days,omitempty" yaml:"default_check_interval_days,omitempty" validate:"min=1"`
}

// NewDefaultSchedulerConfig creates default scheduler configuration
func NewDefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		CycleMinutes:             DefaultSchedulerCycleMinutes,
		RetryAttempts:            DefaultSchedulerRetryAttempts,
		RetryDelaySeconds:        DefaultSchedulerRetryDelaySeconds,
		WarnThresholdDays:        DefaultWarnThresholdDays,
		DefaultCheckIntervalDays: DefaultCheckIntervalDays,
	}
}

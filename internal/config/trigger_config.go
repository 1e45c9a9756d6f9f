package config

// TriggerConfig defines configuration for the on-demand HTTP trigger
type TriggerConfig struct {
	Enabled        bool   `json:"enabled" yaml:"enabled"`
	ListenAddr     string `json:"listen_addr,omitempty" yaml:"listen_addr,omitempty" validate:"required_if=Enabled true"`
	Token          string `json:"token,omitempty" yaml:"token,omitempty"`
	MetricsEnabled bool   `json:"metrics_enabled" yaml:"metrics_enabled"`
}

// NewDefaultTriggerConfig creates default trigger configuration
func NewDefaultTriggerConfig() TriggerConfig {
	return TriggerConfig{
		Enabled:        false,
		ListenAddr:     DefaultTriggerListenAddr,
		MetricsEnabled: true,
	}
}

package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/aleister1102/expirywatch/internal/common/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const maxConfigFileSize = 10 * 1024 * 1024

// GlobalConfig contains all configuration sections for the application
type GlobalConfig struct {
	LogConfig          LogConfig             `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	Mode               string                `json:"mode,omitempty" yaml:"mode,omitempty" validate:"required,mode"`
	NotificationConfig NotificationConfig    `json:"notification_config,omitempty" yaml:"notification_config,omitempty"`
	ResolverConfig     ResolverConfig        `json:"resolver_config,omitempty" yaml:"resolver_config,omitempty"`
	ResourceLimiter    ResourceLimiterConfig `json:"resource_limiter_config,omitempty" yaml:"resource_limiter_config,omitempty"`
	SchedulerConfig    SchedulerConfig       `json:"scheduler_config,omitempty" yaml:"scheduler_config,omitempty"`
	StorageConfig      StorageConfig         `json:"storage_config,omitempty" yaml:"storage_config,omitempty"`
	TriggerConfig      TriggerConfig         `json:"trigger_config,omitempty" yaml:"trigger_config,omitempty"`
}

// NewDefaultGlobalConfig creates a new GlobalConfig with default values
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		LogConfig:          NewDefaultLogConfig(),
		Mode:               ModeOnetime,
		NotificationConfig: NewDefaultNotificationConfig(),
		ResolverConfig:     NewDefaultResolverConfig(),
		ResourceLimiter:    NewDefaultResourceLimiterConfig(),
		SchedulerConfig:    NewDefaultSchedulerConfig(),
		StorageConfig:      NewDefaultStorageConfig(),
		TriggerConfig:      NewDefaultTriggerConfig(),
	}
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// It determines the config file path using GetConfigPath, supports both JSON and YAML formats.
// YAML is used if the file extension is .yaml or .yml. Environment overrides are applied last.
func LoadGlobalConfig(providedPath string, logger zerolog.Logger) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		logger.Debug().Msg("No config file found, using defaults")
		applyEnvOverrides(cfg)
		return cfg, nil
	}

	if !fileExists(filePath) {
		return nil, errors.NewValidationError("config_file", filePath, "config file does not exist")
	}

	data, err := loadConfigFileContent(filePath)
	if err != nil {
		return nil, errors.WrapError(err, "failed to load config file content")
	}

	if err := parseConfigContent(data, filePath, cfg); err != nil {
		return nil, errors.WrapError(err, "failed to parse config content")
	}

	applyEnvOverrides(cfg)
	logger.Debug().Str("path", filePath).Msg("Configuration loaded")
	return cfg, nil
}

func loadConfigFileContent(filePath string) ([]byte, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxConfigFileSize {
		return nil, errors.NewError("config file '%s' exceeds %d bytes", filePath, maxConfigFileSize)
	}
	return os.ReadFile(filePath)
}

// parseConfigContent parses the config content based on file extension
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	if isYAMLFile(filepath.Ext(filePath)) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return errors.NewError("failed to unmarshal YAML from '%s': %w", filePath, err)
		}
		return nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return errors.NewError("failed to unmarshal JSON from '%s': %w", filePath, err)
	}
	return nil
}

func isYAMLFile(ext string) bool {
	return ext == ".yaml" || ext == ".yml"
}

// applyEnvOverrides lets secrets come from the environment instead of the config file
func applyEnvOverrides(cfg *GlobalConfig) {
	if token := os.Getenv(EnvCronToken); token != "" {
		cfg.TriggerConfig.Token = token
	}
}

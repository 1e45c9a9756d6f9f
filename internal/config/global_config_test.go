package config

import (
	"os"
	"path/filepath"
	"testing"

	commonerrors "github.com/aleister1102/expirywatch/internal/common/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultGlobalConfig(t *testing.T) {
	cfg := NewDefaultGlobalConfig()

	assert.Equal(t, ModeOnetime, cfg.Mode)
	assert.Equal(t, 30, cfg.SchedulerConfig.WarnThresholdDays)
	assert.Equal(t, 7, cfg.SchedulerConfig.DefaultCheckIntervalDays)
	assert.Equal(t, DefaultResolverBootstrapURL, cfg.ResolverConfig.BootstrapURL)
	assert.False(t, cfg.TriggerConfig.Enabled)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadGlobalConfig_NonExistentFile(t *testing.T) {
	cfg, err := LoadGlobalConfig("/nonexistent/config.json", zerolog.Nop())

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config file does not exist")
}

func TestLoadGlobalConfig_JSONFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.json")
	configData := `{
		"mode": "automated",
		"log_config": {"log_level": "debug"},
		"scheduler_config": {"cycle_minutes": 60, "warn_threshold_days": 14}
	}`
	require.NoError(t, os.WriteFile(configFile, []byte(configData), 0644))

	cfg, err := LoadGlobalConfig(configFile, zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, ModeAutomated, cfg.Mode)
	assert.Equal(t, "debug", cfg.LogConfig.LogLevel)
	assert.Equal(t, 60, cfg.SchedulerConfig.CycleMinutes)
	assert.Equal(t, 14, cfg.SchedulerConfig.WarnThresholdDays)
	// untouched sections keep their defaults
	assert.Equal(t, 7, cfg.SchedulerConfig.DefaultCheckIntervalDays)
	assert.Equal(t, DefaultTelegramAPIBaseURL, cfg.NotificationConfig.TelegramAPIBaseURL)
}

func TestLoadGlobalConfig_YAMLFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	configData := `
mode: automated
storage_config:
  sqlite_db_path: /tmp/watch.db
trigger_config:
  enabled: true
  listen_addr: 127.0.0.1:9000
  token: s3cret
resolver_config:
  timeout_seconds: 5
  retry:
    max_retries: 1
`
	require.NoError(t, os.WriteFile(configFile, []byte(configData), 0644))

	cfg, err := LoadGlobalConfig(configFile, zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, "/tmp/watch.db", cfg.StorageConfig.SQLiteDBPath)
	assert.True(t, cfg.TriggerConfig.Enabled)
	assert.Equal(t, "127.0.0.1:9000", cfg.TriggerConfig.ListenAddr)
	assert.Equal(t, "s3cret", cfg.TriggerConfig.Token)
	assert.Equal(t, 5, cfg.ResolverConfig.TimeoutSeconds)
	assert.Equal(t, 1, cfg.ResolverConfig.Retry.MaxRetries)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadGlobalConfig_TokenFromEnv(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(configFile, []byte("trigger_config:\n  token: from-file\n"), 0644))
	t.Setenv(EnvCronToken, "from-env")

	cfg, err := LoadGlobalConfig(configFile, zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.TriggerConfig.Token)
}

func TestLoadGlobalConfig_InvalidJSON(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "invalid.json")
	require.NoError(t, os.WriteFile(configFile, []byte(`{"mode": "automated",}`), 0644))

	cfg, err := LoadGlobalConfig(configFile, zerolog.Nop())

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to unmarshal JSON")
}

func TestLoadGlobalConfig_InvalidYAML(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "invalid.yaml")
	invalidYAML := `
mode: automated
  invalid_indent: value
`
	require.NoError(t, os.WriteFile(configFile, []byte(invalidYAML), 0644))

	cfg, err := LoadGlobalConfig(configFile, zerolog.Nop())

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to unmarshal YAML")
}

func TestGetConfigPath_EnvVariable(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("mode: onetime\n"), 0644))
	t.Setenv(EnvConfigPath, configFile)

	assert.Equal(t, configFile, GetConfigPath(""))
	assert.Equal(t, "explicit.yaml", GetConfigPath("explicit.yaml"))
}

func TestIsYAMLFile(t *testing.T) {
	tests := []struct {
		ext      string
		expected bool
	}{
		{".yaml", true},
		{".yml", true},
		{".json", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			assert.Equal(t, tt.expected, isYAMLFile(tt.ext))
		})
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *GlobalConfig)
		wantErr string
	}{
		{
			name:    "invalid mode",
			mutate:  func(cfg *GlobalConfig) { cfg.Mode = "continuous" },
			wantErr: "rule 'mode'",
		},
		{
			name:    "invalid log level",
			mutate:  func(cfg *GlobalConfig) { cfg.LogConfig.LogLevel = "loud" },
			wantErr: "rule 'loglevel'",
		},
		{
			name:    "invalid log format",
			mutate:  func(cfg *GlobalConfig) { cfg.LogConfig.LogFormat = "xml" },
			wantErr: "rule 'logformat'",
		},
		{
			name:    "zero cycle",
			mutate:  func(cfg *GlobalConfig) { cfg.SchedulerConfig.CycleMinutes = 0 },
			wantErr: "CycleMinutes",
		},
		{
			name:    "missing database path",
			mutate:  func(cfg *GlobalConfig) { cfg.StorageConfig.SQLiteDBPath = "" },
			wantErr: "SQLiteDBPath",
		},
		{
			name: "trigger without token",
			mutate: func(cfg *GlobalConfig) {
				cfg.TriggerConfig.Enabled = true
				cfg.TriggerConfig.Token = ""
			},
			wantErr: "trigger_config.token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultGlobalConfig()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateConfig_TriggerTokenIsConfigurationError(t *testing.T) {
	cfg := NewDefaultGlobalConfig()
	cfg.TriggerConfig.Enabled = true

	err := ValidateConfig(cfg)

	assert.ErrorIs(t, err, commonerrors.ErrInvalidConfiguration)
}

func TestLoadGlobalConfig_ResourceLimiter(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	configData := `
mode: automated
resource_limiter_config:
  enabled: true
  max_memory_mb: 256
  cpu_threshold: 0.75
`
	require.NoError(t, os.WriteFile(configFile, []byte(configData), 0644))

	cfg, err := LoadGlobalConfig(configFile, zerolog.Nop())
	require.NoError(t, err)

	rl := cfg.ResourceLimiter
	assert.True(t, rl.Enabled)
	assert.Equal(t, int64(256), rl.MaxMemoryMB)
	assert.Equal(t, 0.75, rl.CPUThreshold)
	assert.Equal(t, 0.95, rl.SystemMemThreshold, "unset fields keep defaults")
	assert.NoError(t, ValidateConfig(cfg))

	cfg.ResourceLimiter.CPUThreshold = 1.5
	assert.Error(t, ValidateConfig(cfg))
}

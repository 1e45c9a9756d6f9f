package logger

import (
	"strings"

	"github.com/aleister1102/expirywatch/internal/common/errors"
	"github.com/aleister1102/expirywatch/internal/config"
	"github.com/rs/zerolog"
)

// ConvertConfig converts application config to logger config.
// An unparsable level falls back to info and is reported as an error.
func ConvertConfig(cfg config.LogConfig) (LoggerConfig, error) {
	out := DefaultLoggerConfig()

	level, err := parseLevel(cfg.LogLevel)
	out.Level = level
	out.Format = parseFormat(cfg.LogFormat)
	out.EnableFile = cfg.LogFile != ""
	out.FilePath = cfg.LogFile

	if cfg.MaxLogSizeMB > 0 {
		out.MaxSizeMB = cfg.MaxLogSizeMB
	}
	if cfg.MaxLogBackups > 0 {
		out.MaxBackups = cfg.MaxLogBackups
	}
	return out, err
}

// parseLevel maps a configured level name to zerolog; empty means info.
func parseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel, errors.WrapError(err, "invalid log level")
	}
	return level, nil
}

func parseFormat(s string) LogFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return FormatConsole
	}
}

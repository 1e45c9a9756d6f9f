package logger

import (
	"io"
	stdlog "log"

	"github.com/aleister1102/expirywatch/internal/common/errors"
	"github.com/aleister1102/expirywatch/internal/config"
	"github.com/rs/zerolog"
)

// LoggerBuilder provides fluent interface for building loggers
type LoggerBuilder struct {
	config LoggerConfig
	extra  []io.Writer
}

func NewLoggerBuilder() *LoggerBuilder {
	return &LoggerBuilder{config: DefaultLoggerConfig()}
}

// WithConfig applies the application log section; an invalid level falls back to info.
func (lb *LoggerBuilder) WithConfig(cfg config.LogConfig) *LoggerBuilder {
	lb.config, _ = ConvertConfig(cfg)
	return lb
}

func (lb *LoggerBuilder) WithConsole(enabled bool) *LoggerBuilder {
	lb.config.EnableConsole = enabled
	return lb
}

// WithWriter adds a raw JSON destination, mostly useful in tests.
func (lb *LoggerBuilder) WithWriter(w io.Writer) *LoggerBuilder {
	lb.extra = append(lb.extra, w)
	return lb
}

// Build creates the logger and redirects the standard library logger into it.
func (lb *LoggerBuilder) Build() (*Logger, error) {
	if lb.config.EnableFile && lb.config.FilePath == "" {
		return nil, errors.NewValidationError("file_path", lb.config.FilePath, "file path required when file logging enabled")
	}
	if lb.config.MaxSizeMB <= 0 {
		return nil, errors.NewValidationError("max_size_mb", lb.config.MaxSizeMB, "max size must be positive")
	}

	var writers []io.Writer
	if lb.config.EnableConsole {
		writers = append(writers, consoleWriter(lb.config.Format))
	}
	if lb.config.EnableFile {
		w, err := fileWriter(lb.config)
		if err != nil {
			return nil, errors.WrapError(err, "opening log file")
		}
		writers = append(writers, w)
	}
	writers = append(writers, lb.extra...)
	if len(writers) == 0 {
		return nil, errors.NewError("no output writers configured")
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lb.config.Level).
		With().
		Timestamp().
		Str("service", lb.config.Service).
		Logger()

	stdlog.SetOutput(zl)
	stdlog.SetFlags(0)

	return &Logger{zerolog: zl, config: lb.config}, nil
}

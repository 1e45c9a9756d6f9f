// Package logger builds the process-wide zerolog logger from config.LogConfig.
package logger

import (
	"github.com/aleister1102/expirywatch/internal/config"
	"github.com/rs/zerolog"
)

// Logger pairs the built zerolog instance with the configuration it was built from.
type Logger struct {
	zerolog zerolog.Logger
	config  LoggerConfig
}

func (l *Logger) GetZerolog() *zerolog.Logger { return &l.zerolog }

func (l *Logger) Config() LoggerConfig { return l.config }

// New builds a logger for cfg and returns its zerolog value.
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	l, err := NewLoggerBuilder().WithConfig(cfg).Build()
	if err != nil {
		return zerolog.Logger{}, err
	}
	return l.zerolog, nil
}

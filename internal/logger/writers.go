package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// formatWriter renders zerolog JSON lines in the requested format.
// Colors are only used for the console format on an interactive destination.
func formatWriter(out io.Writer, format LogFormat, color bool) io.Writer {
	switch format {
	case FormatJSON:
		return out
	case FormatText:
		color = false
	}
	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: !color}
}

func consoleWriter(format LogFormat) io.Writer {
	return formatWriter(os.Stderr, format, true)
}

// fileWriter opens a lumberjack-rotated log file, creating its directory.
func fileWriter(cfg LoggerConfig) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return nil, err
	}
	rotating := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
	}
	return formatWriter(rotating, cfg.Format, false), nil
}

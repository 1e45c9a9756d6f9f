package logger

import (
	"bytes"
	"encoding/json"
	stdlog "log"
	"os"
	"path/filepath"
	"testing"

	"github.com/aleister1102/expirywatch/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultLogger(t *testing.T) {
	cfg := config.NewDefaultLogConfig()
	cfg.LogFile = ""
	_, err := New(cfg)
	require.NoError(t, err)
}

func TestConvertConfig(t *testing.T) {
	out, err := ConvertConfig(config.LogConfig{LogLevel: "debug", LogFormat: "json", LogFile: "x.log", MaxLogSizeMB: 5})
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, out.Level)
	assert.Equal(t, FormatJSON, out.Format)
	assert.True(t, out.EnableFile)
	assert.Equal(t, 5, out.MaxSizeMB)
	assert.Equal(t, 3, out.MaxBackups)

	out, err = ConvertConfig(config.LogConfig{LogLevel: "loud"})
	assert.Error(t, err)
	assert.Equal(t, zerolog.InfoLevel, out.Level)
	assert.Equal(t, FormatConsole, out.Format)
	assert.False(t, out.EnableFile)
}

func TestBuilder_WritesJSONToExtraWriter(t *testing.T) {
	defer stdlog.SetOutput(os.Stderr)

	var buf bytes.Buffer
	l, err := NewLoggerBuilder().
		WithConfig(config.LogConfig{LogLevel: "info", LogFormat: "json"}).
		WithConsole(false).
		WithWriter(&buf).
		Build()
	require.NoError(t, err)

	l.GetZerolog().Info().Str("module", "Runner").Msg("notify: expired")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "notify: expired", line["message"])
	assert.Equal(t, "Runner", line["module"])
	assert.Equal(t, "expirywatch", line["service"])
}

func TestBuilder_FileWriter(t *testing.T) {
	defer stdlog.SetOutput(os.Stderr)

	path := filepath.Join(t.TempDir(), "logs", "expirywatch.log")
	l, err := NewLoggerBuilder().
		WithConfig(config.LogConfig{LogLevel: "info", LogFormat: "json", LogFile: path}).
		WithConsole(false).
		Build()
	require.NoError(t, err)

	l.GetZerolog().Info().Msg("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestBuilder_NoWriters(t *testing.T) {
	_, err := NewLoggerBuilder().WithConsole(false).Build()
	assert.Error(t, err)
}

func TestFormatWriter(t *testing.T) {
	var buf bytes.Buffer

	assert.Same(t, &buf, formatWriter(&buf, FormatJSON, true))

	cw, ok := formatWriter(&buf, FormatText, true).(zerolog.ConsoleWriter)
	require.True(t, ok)
	assert.True(t, cw.NoColor)

	cw, ok = formatWriter(&buf, FormatConsole, true).(zerolog.ConsoleWriter)
	require.True(t, ok)
	assert.False(t, cw.NoColor)
}

package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"chat-relay/internal/config"
)

// New creates a zerolog.Logger configured for the gateway service.
func New(cfg *config.Config) zerolog.Logger {
	return build(os.Stdout, cfg.LogFormat, cfg.LogLevel, cfg.ServiceName, cfg.Environment)
}

// NewClient creates the terminal client logger. The TUI owns stdout, so logs go
// to CHAT_LOG_FILE when set and are discarded otherwise.
func NewClient(cfg *config.ClientConfig) (zerolog.Logger, func() error, error) {
	path := strings.TrimSpace(cfg.LogFile)
	if path == "" {
		return zerolog.Nop(), func() error { return nil }, nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}

	log := build(file, cfg.LogFormat, cfg.LogLevel, cfg.ServiceName, cfg.Environment)
	return log, file.Close, nil
}

func build(out io.Writer, format, level, service, environment string) zerolog.Logger {
	var writer io.Writer = out
	if !strings.EqualFold(strings.TrimSpace(format), "json") {
		writer = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    out != os.Stdout,
		}
	}

	return zerolog.New(writer).
		With().
		Timestamp().
		Str("service", service).
		Str("environment", environment).
		Logger().
		Level(parseLevel(level))
}

func parseLevel(raw string) zerolog.Level {
	if raw == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

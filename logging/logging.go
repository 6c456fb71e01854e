package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Output formats understood by NewLogger.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// LoggerConfig holds configuration for the logger.
// It can itself be part of a loaded configuration, e.g. under a "logging" key.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format" validate:"omitempty,oneof=json text JSON TEXT"`
}

// NewLogger creates a new slog.Logger writing to w.
// The level is parsed from the config; defaults to INFO if invalid or empty.
// The format defaults to JSON; "text" selects the logfmt style handler.
func NewLogger(config LoggerConfig, w io.Writer) *slog.Logger {
	options := &slog.HandlerOptions{
		AddSource:   false,
		Level:       ParseLevel(config.Level),
		ReplaceAttr: nil,
	}

	var handler slog.Handler

	switch strings.ToLower(config.Format) {
	case FormatText:
		handler = slog.NewTextHandler(w, options)
	default:
		handler = slog.NewJSONHandler(w, options)
	}

	return slog.New(handler)
}

// ParseLevel maps a level name, in any case, to a slog.Level.
// Unknown names map to INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

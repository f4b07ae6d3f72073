// Package logging configures structured logging for log/slog.
//
// Usage:
//
//	logging.Setup()                                  // from LOG_LEVEL / LOG_FORMAT env
//	logging.SetupWith(slog.LevelDebug, logging.Text) // explicit override
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (default: info)
//	LOG_FORMAT: text (colored, via tint) or json (default: text)
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Format selects the handler used for log output.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
)

// Setup configures logging from the LOG_LEVEL and LOG_FORMAT env vars.
// Unknown values fall back to INFO and text.
func Setup() {
	level, err := ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = slog.LevelInfo
	}
	format, err := ParseFormat(os.Getenv("LOG_FORMAT"))
	if err != nil {
		format = Text
	}
	SetupWith(level, format)
}

// SetupWith installs a default logger writing to stderr.
func SetupWith(level slog.Level, format Format) {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, level, format)))
}

// NewHandler returns a colored tint handler for Text and a JSON handler for JSON.
func NewHandler(w io.Writer, level slog.Level, format Format) slog.Handler {
	if format == JSON {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		})
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	})
}

// ParseLevel parses a level name. An empty string means INFO.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// ParseFormat parses an output format name. An empty string means Text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", Text:
		return Text, nil
	case JSON:
		return JSON, nil
	default:
		return Text, fmt.Errorf("unknown log format %q", s)
	}
}

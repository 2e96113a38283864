// Package logger builds the zerolog logger used by the service.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Format defines the available log formats
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// ParseFormat parses a string into a Format, defaulting to JSON.
func ParseFormat(format string) Format {
	switch strings.ToLower(format) {
	case "console":
		return FormatConsole
	default:
		return FormatJSON
	}
}

// Config holds the configuration for the logger
type Config struct {
	// Level is the log level (debug, info, warn, error, fatal, panic)
	Level string
	// Format is the log format (json, console)
	Format Format
	// Output is the output writer (default: os.Stdout)
	Output io.Writer
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// New returns a logger for cfg. An unknown or empty level falls back to info.
func New(cfg Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level)); err == nil && parsed != zerolog.NoLevel {
			level = parsed
		}
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Format == FormatConsole {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "books-api").
		Logger()
}

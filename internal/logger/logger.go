// Package logger configures zerolog for the application and bridges the
// SQL driver's query log onto it.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/atvirokodosprendimai/qaforum/internal/config"
	"github.com/rs/zerolog"
)

// New builds the application logger from the logging config. Output goes to
// stderr so command output on stdout stays machine readable.
func New(cfg config.LoggingConfig) zerolog.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

func NewWithWriter(cfg config.LoggingConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	out := w
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Str("service", "qaforum").Logger()
}

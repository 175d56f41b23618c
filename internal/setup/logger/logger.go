package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewConsole builds a human-readable logger for the service entrypoints at
// the given level, defaulting to info when the level string is empty or
// invalid.
func NewConsole(out io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// Package logger builds the structured logger shared by commands.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// EnvLevel is the environment variable that overrides the configured level.
const EnvLevel = "TOUCHLINE_LOG_LEVEL"

// ParseLevel maps a level name to a log level. Unknown names give info.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New returns a timestamped console logger writing to w. Colors are only
// used when w is a terminal.
func New(w io.Writer, level string) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(w),
	}
	return zerolog.New(out).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// FromEnv is New with the level taken from EnvLevel when set.
func FromEnv(w io.Writer, level string) zerolog.Logger {
	if v := os.Getenv(EnvLevel); v != "" {
		level = v
	}
	return New(w, level)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Package logging builds the structured loggers used by the locomotion tools.
// The level is read from LOCO_LOG_LEVEL (DEBUG, INFO, WARN or ERROR) and
// defaults to INFO.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

const levelEnv = "LOCO_LOG_LEVEL"

// New returns a JSON logger writing to w.
func New(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       LevelFromEnv(),
		ReplaceAttr: roundDurations,
	}))
}

// NewText returns a human readable logger writing to w, for interactive tools.
func NewText(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: LevelFromEnv()}))
}

// Default is a JSON logger on stderr.
func Default() *slog.Logger {
	return New(os.Stderr)
}

func LevelFromEnv() slog.Level {
	return ParseLevel(os.Getenv(levelEnv))
}

func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// roundDurations keeps per-tick timings readable in replay logs.
func roundDurations(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindDuration {
		return slog.String(a.Key, a.Value.Duration().Round(time.Microsecond).String())
	}
	return a
}

// Package logger configures the slog logger shared by the commands.
package logger

import (
	"io"
	"log/slog"
	"os"
	"time"
)

type Config struct {
	Debug bool
	JSON  bool
	// Writer defaults to os.Stderr.
	Writer io.Writer
}

// New builds a logger writing text (or JSON) records.
func New(cfg Config) *slog.Logger {
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.Debug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		},
	}

	var h slog.Handler
	if cfg.JSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// Nop discards every record.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

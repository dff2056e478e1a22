package configs

import (
	"io"
	"log/slog"
	"strings"
)

// Logger configures the process-wide slog handler.
type Logger struct {
	// Level is one of debug, info, warn or error. Anything else means info.
	Level string `env:"LEVEL" envDefault:"info"`
	// Format is text or json. Anything else means text.
	Format string `env:"FORMAT" envDefault:"text"`
	// Source adds the file:line of the log call to every record.
	Source bool `env:"SOURCE" envDefault:"false"`
}

// SlogLevel converts the textual level into a slog.Level.
func (c Logger) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SlogFormat returns "json" or "text".
func (c Logger) SlogFormat() string {
	if strings.EqualFold(strings.TrimSpace(c.Format), "json") {
		return "json"
	}
	return "text"
}

// Handler builds the handler writing to w. Every record carries the
// service name and environment.
func (c Logger) Handler(w io.Writer, service, env string) slog.Handler {
	opts := &slog.HandlerOptions{Level: c.SlogLevel(), AddSource: c.Source}
	var h slog.Handler
	if c.SlogFormat() == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return h.WithAttrs([]slog.Attr{
		slog.String("service", service),
		slog.String("env", env),
	})
}

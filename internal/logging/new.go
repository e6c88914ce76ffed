package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.uber.org/zap"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatZap  = "zap"
)

// New builds a Logger for the given format ("text", "json" or "zap") and
// level name ("debug", "info", "warn", "error"). slog output goes to w; zap
// uses its production config, which writes to stderr.
func New(format, level string, w io.Writer) (Logger, error) {
	switch strings.ToLower(format) {
	case "", FormatText, FormatJSON:
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(levelOrDefault(level))); err != nil {
			return nil, fmt.Errorf("could not parse log level %s", level)
		}
		opts := &slog.HandlerOptions{Level: lvl}
		var h slog.Handler = slog.NewTextHandler(w, opts)
		if strings.EqualFold(format, FormatJSON) {
			h = slog.NewJSONHandler(w, opts)
		}
		return NewSlogLogger(slog.New(h)), nil

	case FormatZap:
		c := zap.NewProductionConfig()
		c.DisableStacktrace = true
		lvl := zap.NewAtomicLevel()
		if err := lvl.UnmarshalText([]byte(levelOrDefault(level))); err != nil {
			return nil, fmt.Errorf("could not parse log level %s", level)
		}
		c.Level = lvl
		l, err := c.Build()
		if err != nil {
			return nil, err
		}
		return NewZapLogger(l), nil

	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

func levelOrDefault(level string) string {
	if level == "" {
		return "info"
	}
	return level
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

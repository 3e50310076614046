// Package logging builds the slog loggers used across the service.
package logging

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

// LevelTrace sits below slog's Debug for very chatty output.
const LevelTrace = slog.Level(-8)

var levelNames = map[slog.Level]string{
	LevelTrace: "TRACE",
}

// ParseLevel maps a config level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// Factory creates component loggers that share one handler.
type Factory struct {
	handler slog.Handler
}

// NewFactory builds a Factory writing to w (stderr when nil) in "text" or "json" format.
func NewFactory(w io.Writer, level slog.Level, format string) *Factory {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: customizeLevels}

	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return &Factory{handler: h}
}

// Logger returns a logger tagged with component=name.
func (f *Factory) Logger(name string) *slog.Logger {
	return slog.New(f.handler).With("component", name)
}

// StdLogger adapts logger for libraries that want a *log.Logger. Lines are logged at Info.
func StdLogger(logger *slog.Logger) *log.Logger {
	return slog.NewLogLogger(logger.Handler(), slog.LevelInfo)
}

// Trace logs at LevelTrace.
func Trace(logger *slog.Logger, msg string, args ...any) {
	logger.Log(context.Background(), LevelTrace, msg, args...)
}

func customizeLevels(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if level, ok := a.Value.Any().(slog.Level); ok {
			if name, known := levelNames[level]; known {
				return slog.String(a.Key, name)
			}
		}
	}
	return a
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

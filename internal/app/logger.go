package app

import (
	"io"
	"log/slog"

	"github.com/vk/devconsole/internal/logtap"
)

// newLogger creates an isolated logger whose records also feed the returned
// log tap. The level and the tap threshold are LevelVars so the console can
// change them at runtime. It does not set the global logger.
func newLogger(levelStr, formatStr string, outW io.Writer) (*slog.Logger, *slog.LevelVar, *slog.LevelVar, *logtap.Handler) {
	level := new(slog.LevelVar)
	switch levelStr {
	case "debug":
		level.Set(slog.LevelDebug)
	case "warn":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		level.Set(slog.LevelInfo)
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	forward := new(slog.LevelVar)
	forward.Set(slog.LevelWarn)
	tap := logtap.New(handler, forward)

	return slog.New(tap), level, forward, tap
}

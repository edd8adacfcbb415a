// Package loglevel exposes the process log level as a console variable.
package loglevel

import (
	"log/slog"

	"github.com/vk/devconsole/internal/registry"
	"github.com/vk/devconsole/internal/variable"
)

// VariableName is the console variable registered by the module.
const VariableName = "log_level"

// Level is the console enumeration of slog levels.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	}
	return "unknown"
}

// Members lists the enumeration.
func (Level) Members() []Level { return []Level{Debug, Info, Warn, Error} }

// Slog returns the matching slog level.
func (l Level) Slog() slog.Level {
	switch l {
	case Debug:
		return slog.LevelDebug
	case Warn:
		return slog.LevelWarn
	case Error:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// FromSlog returns the closest console level at or below l.
func FromSlog(l slog.Level) Level {
	switch {
	case l < slog.LevelInfo:
		return Debug
	case l < slog.LevelWarn:
		return Info
	case l < slog.LevelError:
		return Warn
	default:
		return Error
	}
}

// Module registers the log_level variable and keeps Var in sync with it.
type Module struct {
	Var *slog.LevelVar
}

// Register adds the variable. Its default is Var's level at registration.
func (m *Module) Register(r *registry.Registry) {
	ev := registry.AddEnum(r, VariableName, FromSlog(m.Var.Level()))
	ev.Notifier().Subscribe(variable.ObserverFunc(func(*variable.Variable) error {
		m.Var.Set(ev.EnumValue().Slog())
		return nil
	}))
}

package config

import (
	"log/slog"
	"time"

	"github.com/vk/devconsole/internal/variable"
	"github.com/zclconf/go-cty/cty"
)

// Default console settings.
const (
	DefaultSavePath        = "console.bin"
	DefaultTickInterval    = 50 * time.Millisecond
	DefaultLogForwardLevel = slog.LevelWarn
)

// Model is the merged console definition.
type Model struct {
	Console   Console
	Host      *Host
	Variables []*VariableDefinition
	Actions   []*ActionDefinition
}

// NewModel returns an empty model with default console settings.
func NewModel() *Model {
	return &Model{
		Console: Console{
			SavePath:        DefaultSavePath,
			TickInterval:    DefaultTickInterval,
			LogForwardLevel: DefaultLogForwardLevel,
		},
	}
}

// Console holds the `console` block settings.
type Console struct {
	SavePath        string
	TickInterval    time.Duration
	LogForwardLevel slog.Level
}

// Host holds the `host` block settings. A nil Host means no native host is
// configured.
type Host struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
}

// VariableDefinition is one declared console variable.
type VariableDefinition struct {
	Name        string
	Type        variable.Type
	Description string
	// Default is nil when the definition omits it; the type's zero value is used.
	Default *cty.Value
	Min     *float64
	Max     *float64
	Flags   variable.Flags
	Values  []string
}

// ActionDefinition is one declared console action.
type ActionDefinition struct {
	Name        string
	Description string
	// Resets names variables restored to their defaults when the action runs.
	Resets []string
}
